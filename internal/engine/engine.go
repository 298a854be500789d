// Package engine runs the lookup cycle: a trigger becomes a selection key,
// the dispatcher issues one backend call, the reconciler builds the view,
// the session query is re-encoded and the presenter receives the result.
package engine

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cloo-solutions/ordlens/internal/dispatch"
	"github.com/cloo-solutions/ordlens/internal/domain"
	"github.com/cloo-solutions/ordlens/internal/identifier"
	"github.com/cloo-solutions/ordlens/internal/logging"
	"github.com/cloo-solutions/ordlens/internal/reconcile"
	"github.com/cloo-solutions/ordlens/internal/session"
	"github.com/cloo-solutions/ordlens/internal/telemetry"
)

// Presenter receives the output of every settled cycle. It renders data; it
// never feeds anything back into the engine.
type Presenter interface {
	Present(view *domain.ReconciledView, query url.Values) error
	PresentError(err error) error
}

// Result is the outcome of one trigger.
type Result struct {
	// Ignored is true when the trigger arrived while another lookup was in
	// flight. Nothing else is set in that case.
	Ignored bool
	View    *domain.ReconciledView
	Query   url.Values
}

// Engine owns the current view and query. Both are written only by the
// goroutine holding the dispatcher's in-flight slot.
type Engine struct {
	dispatcher *dispatch.Dispatcher
	presenter  Presenter
	log        *logrus.Logger
	isolated   bool

	mu    sync.RWMutex
	view  *domain.ReconciledView
	query url.Values
}

// Option configures an Engine.
type Option func(*Engine)

// WithPresenter sets the presentation gateway.
func WithPresenter(p Presenter) Option {
	return func(e *Engine) { e.presenter = p }
}

// WithQuery seeds the engine with the query of the current location.
func WithQuery(q url.Values) Option {
	return func(e *Engine) { e.query = q }
}

// Isolated makes every cycle encode from its own query: Resume starts from
// the query it was given, every other trigger from an empty one. A server
// answering unrelated clients uses it so that one client's parameters never
// reach another's share link.
func Isolated() Option {
	return func(e *Engine) { e.isolated = true }
}

// WithLogger overrides the shared logger.
func WithLogger(l *logrus.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// New creates an Engine around a dispatcher.
func New(d *dispatch.Dispatcher, opts ...Option) *Engine {
	e := &Engine{
		dispatcher: d,
		log:        logging.Log,
		query:      url.Values{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Lookup classifies free-form input and runs the cycle for it. Invalid input
// is rejected locally without spending a request.
func (e *Engine) Lookup(ctx context.Context, input string) (*Result, error) {
	key, err := identifier.Classify(input)
	if err != nil {
		e.log.WithField("input", input).WithError(err).Debug("rejected identifier")
		return nil, e.fail(err)
	}
	return e.Trigger(ctx, dispatch.Request{Key: key})
}

// Random asks the backend to pick an item.
func (e *Engine) Random(ctx context.Context) (*Result, error) {
	return e.Trigger(ctx, dispatch.Request{Key: domain.Random()})
}

// Upload searches by image bytes.
func (e *Engine) Upload(ctx context.Context, filename string, data []byte) (*Result, error) {
	return e.Trigger(ctx, dispatch.Request{Key: domain.ByUploadedImage(), Filename: filename, Image: data})
}

// Resume starts the lookup recorded in a shared query string. It returns a
// nil Result and nil error when the query holds no pending lookup.
func (e *Engine) Resume(ctx context.Context, q url.Values) (*Result, error) {
	key, found, err := session.Decode(q)
	if !found {
		return nil, nil
	}
	if err != nil {
		return nil, e.fail(err)
	}

	return e.run(ctx, dispatch.Request{Key: key}, q)
}

// Trigger runs one full cycle for req.
func (e *Engine) Trigger(ctx context.Context, req dispatch.Request) (*Result, error) {
	return e.run(ctx, req, nil)
}

// run executes the cycle. base, when set, replaces the current query as the
// starting point for re-encoding.
func (e *Engine) run(ctx context.Context, req dispatch.Request, base url.Values) (*Result, error) {
	ctx, span := telemetry.StartSpan(ctx, "lookup", telemetry.SpanAttributes{
		KeyKind:    req.Key.Kind.String(),
		Identifier: req.Key.Identifier(),
		Operation:  "trigger",
	})
	defer span.End()

	entry := e.log.WithFields(logrus.Fields{
		"key_kind":   req.Key.Kind.String(),
		"identifier": req.Key.Identifier(),
	})

	start := time.Now()
	resp, err := e.dispatcher.Dispatch(ctx, req)
	if errors.Is(err, domain.ErrInFlight) {
		entry.Debug("lookup ignored, another request is in flight")
		return &Result{Ignored: true}, nil
	}
	telemetry.AddBreadcrumb(ctx, "dispatch", req.Key.String())
	if err != nil {
		if errors.Is(err, domain.ErrRequestFailed) {
			span.SetError(err)
			telemetry.CaptureError(ctx, err)
		}
		entry.WithError(err).Warn("lookup failed")
		return nil, e.fail(err)
	}

	view, err := reconcile.Reconcile(resp, req.Key, reconcile.Options{PreviewURL: previewURL(req)})
	if err != nil {
		entry.WithError(err).Info("lookup returned no usable result")
		return nil, e.fail(err)
	}

	e.mu.Lock()
	if base == nil {
		base = e.query
		if e.isolated {
			base = url.Values{}
		}
	}
	e.view = view
	e.query = session.EncodeView(base, view)
	query := cloneValues(e.query)
	e.mu.Unlock()

	entry.WithFields(logrus.Fields{
		"resolved":    view.Key.String(),
		"featured":    string(view.Featured.Kind),
		"items":       len(resp.Items),
		"comparisons": len(view.Comparisons),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("lookup completed")

	if e.presenter != nil {
		if err := e.presenter.Present(view, query); err != nil {
			return nil, err
		}
	}
	return &Result{View: view, Query: query}, nil
}

// View returns the most recent reconciled view, or nil before the first
// successful cycle.
func (e *Engine) View() *domain.ReconciledView {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.view
}

// Query returns a copy of the current shareable query.
func (e *Engine) Query() url.Values {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return cloneValues(e.query)
}

// Busy reports whether a lookup is in flight.
func (e *Engine) Busy() bool {
	return e.dispatcher.State() == dispatch.InFlight
}

func (e *Engine) fail(err error) error {
	if e.presenter != nil {
		if perr := e.presenter.PresentError(err); perr != nil {
			e.log.WithError(perr).Warn("failed to present error")
		}
	}
	return err
}

func previewURL(req dispatch.Request) string {
	if req.Key.Kind != domain.KeyUploadedImage || len(req.Image) == 0 {
		return ""
	}
	return "data:" + http.DetectContentType(req.Image) + ";base64," + base64.StdEncoding.EncodeToString(req.Image)
}

func cloneValues(q url.Values) url.Values {
	out := make(url.Values, len(q))
	for k, v := range q {
		out[k] = append([]string(nil), v...)
	}
	return out
}
