// Package session keeps the shareable query string and the engine's
// selection in sync. A URL produced here is always a valid re-entry point.
package session

import (
	"net/url"

	"github.com/cloo-solutions/ordlens/internal/domain"
	"github.com/cloo-solutions/ordlens/internal/identifier"
)

// Recognized query parameters. At most one of them is set at a time.
const (
	ParamID = "id"
	ParamTx = "tx"
)

var recognized = []string{ParamID, ParamTx}

// Encode returns a copy of current with the recognized parameters replaced
// by the one describing key. The key must already be resolved: a random key
// that the backend did not resolve, or an upload, leaves no parameter
// behind. Unrecognized parameters are preserved.
func Encode(current url.Values, key domain.SelectionKey) url.Values {
	out := make(url.Values, len(current)+1)
	for k, v := range current {
		out[k] = append([]string(nil), v...)
	}
	for _, name := range recognized {
		out.Del(name)
	}

	if key.Kind != domain.KeyID && key.Kind != domain.KeyTxID {
		return out
	}

	classified, err := identifier.Classify(key.Value)
	if err != nil {
		return out
	}
	switch classified.Kind {
	case domain.KeyID:
		out.Set(ParamID, classified.Value)
	case domain.KeyTxID:
		out.Set(ParamTx, classified.Value)
	}
	return out
}

// EncodeView encodes the resolved selection of view.
func EncodeView(current url.Values, view *domain.ReconciledView) url.Values {
	if view == nil {
		return Encode(current, domain.SelectionKey{})
	}
	return Encode(current, view.Key)
}

// Decode reads the pending lookup from a query string: id first, then tx.
// found is false when neither parameter is present. A present parameter
// whose value does not classify returns the classifier's error.
func Decode(q url.Values) (key domain.SelectionKey, found bool, err error) {
	for _, name := range recognized {
		value := q.Get(name)
		if value == "" {
			continue
		}
		key, err := identifier.Classify(value)
		if err != nil {
			return domain.SelectionKey{}, true, err
		}
		return key, true, nil
	}
	return domain.SelectionKey{}, false, nil
}

// ParseLocation accepts a full shared URL, a bare query string with or
// without the leading "?", and returns its query values.
func ParseLocation(location string) (url.Values, error) {
	u, err := url.Parse(location)
	if err != nil {
		return nil, err
	}
	if u.RawQuery != "" {
		return u.Query(), nil
	}
	if u.Scheme == "" && u.Host == "" {
		return url.ParseQuery(trimQuestion(location))
	}
	return url.Values{}, nil
}

// ShareLink joins base and the encoded query into a shareable URL.
func ShareLink(base string, q url.Values) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func trimQuestion(s string) string {
	if len(s) > 0 && s[0] == '?' {
		return s[1:]
	}
	return s
}
