package domain

// FeaturedKind distinguishes the three shapes of the featured entity.
type FeaturedKind string

const (
	// FeaturedCandidate is a real item drawn from the response.
	FeaturedCandidate FeaturedKind = "candidate"
	// FeaturedUnconfirmed is a mempool transaction with no item id yet.
	FeaturedUnconfirmed FeaturedKind = "unconfirmed"
	// FeaturedPlaceholder is an uploaded image with no backend match.
	FeaturedPlaceholder FeaturedKind = "placeholder"
)

// FeaturedItem is the single entity shown apart from the comparison list.
type FeaturedItem struct {
	Kind FeaturedKind `json:"kind"`

	// Item is set for FeaturedCandidate.
	Item *CandidateItem `json:"item,omitempty"`

	// TxID and ContentLink are set for FeaturedUnconfirmed. ContentHash is
	// the backend-reported hash of the unconfirmed content, if any.
	TxID        string `json:"tx_id,omitempty"`
	ContentLink string `json:"content_link,omitempty"`
	ContentHash string `json:"content_hash,omitempty"`

	// PreviewURL is the local preview of an uploaded image (FeaturedPlaceholder).
	PreviewURL string `json:"preview_url,omitempty"`
	// AlreadyInscribed is true when the backend reported that the uploaded
	// content collides with an indexed item.
	AlreadyInscribed bool `json:"already_inscribed,omitempty"`
}

// ReferenceHash returns the content hash comparisons are checked against
// for exact duplicates. Placeholders never have one.
func (f FeaturedItem) ReferenceHash() string {
	switch f.Kind {
	case FeaturedCandidate:
		if f.Item != nil {
			return f.Item.ContentHash
		}
	case FeaturedUnconfirmed:
		return f.ContentHash
	}
	return ""
}

// Matches reports whether item is the featured entity itself, by id or by
// transaction id.
func (f FeaturedItem) Matches(item CandidateItem) bool {
	switch f.Kind {
	case FeaturedCandidate:
		if f.Item == nil {
			return false
		}
		if f.Item.ID != "" && item.ID == f.Item.ID {
			return true
		}
		return f.Item.TxID != "" && item.TxID == f.Item.TxID
	case FeaturedUnconfirmed:
		return f.TxID != "" && item.TxID == f.TxID
	}
	return false
}

// DuplicateLabel replaces the numeric score of an exact duplicate.
const DuplicateLabel = "DUPLICATE"

// AnnotatedCandidate is a comparison entry with its derived annotations.
type AnnotatedCandidate struct {
	CandidateItem
	IsExactDuplicate       bool    `json:"is_exact_duplicate"`
	NormalizedScorePercent float64 `json:"normalized_score_percent"`
	// ScoreLabel is the display form: "50.00 %", "100 %" or DuplicateLabel.
	ScoreLabel string `json:"score_label"`
}

// ReconciledView is the sole output of one lookup cycle.
type ReconciledView struct {
	Featured    FeaturedItem         `json:"featured"`
	Comparisons []AnnotatedCandidate `json:"comparisons"`
	// Key is the selection after random resolution; it drives URL encoding.
	Key SelectionKey `json:"key"`
}
