package domain

import "time"

// CandidateItem is one indexed inscription returned by the search backend.
// Items are immutable once received.
type CandidateItem struct {
	ID                 string    `json:"id"`
	TxID               string    `json:"tx_id"`
	ContentHash        string    `json:"content_hash"`
	ContentLink        string    `json:"content_link"`
	SimilarityScore    float64   `json:"similarity_score"`
	MintedAddress      string    `json:"minted_address,omitempty"`
	OrdinalsLink       string    `json:"ordinals_link,omitempty"`
	MempoolLink        string    `json:"mempool_link,omitempty"`
	PublishedAt        time.Time `json:"published_at"`
	ContentType        string    `json:"content_type,omitempty"`
	ContentLengthBytes int64     `json:"content_length_bytes,omitempty"`
}

// MintedAddressLink returns the explorer link for the minting address.
func (c CandidateItem) MintedAddressLink() string {
	if c.MintedAddress == "" {
		return ""
	}
	return "https://mempool.space/address/" + c.MintedAddress
}

// TxLink returns the explorer link for the inscription transaction.
func (c CandidateItem) TxLink() string {
	if c.MempoolLink != "" {
		return c.MempoolLink
	}
	if c.TxID == "" {
		return ""
	}
	return "https://mempool.space/tx/" + c.TxID
}

// SearchResponse is the decoded body of one backend call. It is consumed
// immediately by the reconciler.
type SearchResponse struct {
	// HasItems is false when the backend omitted the result field entirely,
	// which it does for unsupported content types.
	HasItems          bool
	Items             []CandidateItem
	Mempool           bool
	ChosenContentLink string
	ChosenContentHash string
	// ResolvedID names the item the backend picked for a random request.
	ResolvedID string
}
