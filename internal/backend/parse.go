package backend

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/cloo-solutions/ordlens/internal/domain"
)

// Field names of the backend wire format.
const (
	fieldResult            = "result"
	fieldMempool           = "mempool"
	fieldChosenContentLink = "chosen_content_link"
	fieldOrdContentHash    = "ord_content_hash"
	fieldOrdID             = "ord_id"
)

var errMalformed = errors.New("malformed response body")

var datetimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05 MST",
}

// ParseResponse decodes a backend body. A missing result field is not an
// error here: it yields HasItems=false so that the reconciler can report
// unsupported content. A result field that is not an array is malformed.
func ParseResponse(body []byte) (*domain.SearchResponse, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: invalid JSON", errMalformed)
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: expected an object", errMalformed)
	}

	resp := &domain.SearchResponse{
		Mempool:           root.Get(fieldMempool).Bool(),
		ChosenContentLink: root.Get(fieldChosenContentLink).String(),
		ChosenContentHash: root.Get(fieldOrdContentHash).String(),
		ResolvedID:        root.Get(fieldOrdID).String(),
	}

	result := root.Get(fieldResult)
	if !result.Exists() {
		return resp, nil
	}
	if !result.IsArray() {
		return nil, fmt.Errorf("%w: %q is not an array", errMalformed, fieldResult)
	}

	resp.HasItems = true
	resp.Items = make([]domain.CandidateItem, 0, len(result.Array()))
	for _, raw := range result.Array() {
		resp.Items = append(resp.Items, parseItem(raw))
	}
	return resp, nil
}

func parseItem(raw gjson.Result) domain.CandidateItem {
	return domain.CandidateItem{
		ID:                 raw.Get("id").String(),
		TxID:               raw.Get("tx_id").String(),
		ContentHash:        raw.Get("content_hash").String(),
		ContentLink:        raw.Get("hiro_content_link").String(),
		SimilarityScore:    raw.Get("similarity").Float(),
		MintedAddress:      raw.Get("minted_address").String(),
		OrdinalsLink:       raw.Get("ordinals_com_link").String(),
		MempoolLink:        raw.Get("mempool_space_link").String(),
		PublishedAt:        parsePublished(raw),
		ContentType:        raw.Get("content_type").String(),
		ContentLengthBytes: raw.Get("content_length").Int(),
	}
}

func parsePublished(raw gjson.Result) time.Time {
	if ts := raw.Get("timestamp"); ts.Exists() && ts.Int() > 0 {
		return time.Unix(ts.Int(), 0).UTC()
	}

	value := strings.TrimSpace(raw.Get("datetime").String())
	if value == "" {
		return time.Time{}
	}
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
