// Package dispatch funnels every lookup trigger into exactly one backend call
// and enforces that at most one call is outstanding at any time.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/cloo-solutions/ordlens/internal/domain"
)

// Backend is the external search service.
type Backend interface {
	SearchByFile(ctx context.Context, filename string, data []byte) (*domain.SearchResponse, error)
	SearchByID(ctx context.Context, id string) (*domain.SearchResponse, error)
	SearchByTxID(ctx context.Context, txID string) (*domain.SearchResponse, error)
}

// RequestState is the process-wide request flag.
type RequestState int32

const (
	Idle RequestState = iota
	InFlight
)

func (s RequestState) String() string {
	if s == InFlight {
		return "in_flight"
	}
	return "idle"
}

// Request is one trigger. Image and Filename are only read for
// KeyUploadedImage.
type Request struct {
	Key      domain.SelectionKey
	Filename string
	Image    []byte
}

// Dispatcher owns the RequestState. It starts Idle, is set InFlight right
// before the backend call and returns to Idle on every exit path.
type Dispatcher struct {
	backend Backend
	state   atomic.Int32
}

// New creates a Dispatcher.
func New(backend Backend) *Dispatcher {
	return &Dispatcher{backend: backend}
}

// State returns the current request state.
func (d *Dispatcher) State() RequestState {
	return RequestState(d.state.Load())
}

// Dispatch issues the backend call selected by req.Key. While another call
// is in flight it returns ErrInFlight immediately without calling the
// backend or looking at req; the trigger is dropped, not queued. Failures
// are returned as RequestFailed and are never retried.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (*domain.SearchResponse, error) {
	if !d.state.CompareAndSwap(int32(Idle), int32(InFlight)) {
		return nil, domain.ErrInFlight
	}
	defer d.state.Store(int32(Idle))

	if err := validate(req); err != nil {
		return nil, err
	}

	resp, err := d.call(ctx, req)
	if err != nil {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			return nil, err
		}
		return nil, domain.RequestFailed(err)
	}
	if resp == nil {
		return nil, domain.RequestFailed(fmt.Errorf("empty response for %s", req.Key))
	}
	return resp, nil
}

func (d *Dispatcher) call(ctx context.Context, req Request) (*domain.SearchResponse, error) {
	switch req.Key.Kind {
	case domain.KeyUploadedImage:
		return d.backend.SearchByFile(ctx, req.Filename, req.Image)
	case domain.KeyID, domain.KeyRandom:
		return d.backend.SearchByID(ctx, req.Key.Identifier())
	case domain.KeyTxID:
		return d.backend.SearchByTxID(ctx, req.Key.Identifier())
	default:
		return nil, fmt.Errorf("unhandled selection kind %s", req.Key.Kind)
	}
}

func validate(req Request) error {
	switch req.Key.Kind {
	case domain.KeyUploadedImage:
		if len(req.Image) == 0 {
			return domain.ErrEmptyInput
		}
	case domain.KeyID, domain.KeyTxID:
		if req.Key.Value == "" {
			return domain.ErrEmptyInput
		}
	case domain.KeyRandom:
	default:
		return domain.ErrInvalidInput
	}
	return nil
}
