package present

import (
	"encoding/json"
	"errors"
	"io"
	"net/url"

	"github.com/cloo-solutions/ordlens/internal/domain"
	"github.com/cloo-solutions/ordlens/internal/session"
)

// JSON writes each view as one indented JSON document.
type JSON struct {
	out       io.Writer
	shareBase string
}

// NewJSON creates a JSON gateway. shareBase, when set, adds a share_link.
func NewJSON(out io.Writer, shareBase string) *JSON {
	return &JSON{out: out, shareBase: shareBase}
}

type viewPayload struct {
	View      *domain.ReconciledView `json:"view"`
	Query     string                 `json:"query"`
	ShareLink string                 `json:"share_link,omitempty"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Present implements engine.Presenter.
func (j *JSON) Present(view *domain.ReconciledView, query url.Values) error {
	payload := viewPayload{View: view, Query: query.Encode()}
	if j.shareBase != "" && payload.Query != "" {
		link, err := session.ShareLink(j.shareBase, query)
		if err != nil {
			return err
		}
		payload.ShareLink = link
	}
	return j.encode(payload)
}

// PresentError implements engine.Presenter.
func (j *JSON) PresentError(err error) error {
	code := domain.ErrCodeRequestFailed
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		code = domainErr.Code
	}
	return j.encode(errorPayload{Code: code, Message: domain.UserMessage(err)})
}

func (j *JSON) encode(v interface{}) error {
	enc := json.NewEncoder(j.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
