// Package reconcile turns a raw backend response into the featured item and
// the annotated comparison list shown to the user.
package reconcile

import (
	"github.com/cloo-solutions/ordlens/internal/domain"
)

// Options carries data the response itself does not hold.
type Options struct {
	// PreviewURL is the local preview of an uploaded image, used when the
	// featured item falls back to a placeholder.
	PreviewURL string
}

// Reconcile derives the view for one response. The backend's order is kept
// as is; nothing is re-sorted.
func Reconcile(resp *domain.SearchResponse, key domain.SelectionKey, opts Options) (*domain.ReconciledView, error) {
	if resp == nil {
		return nil, domain.ErrRequestFailed
	}
	if !resp.HasItems {
		return nil, domain.ErrUnsupportedContent
	}
	if len(resp.Items) == 0 && !resp.Mempool {
		return nil, domain.ErrNoMatch
	}

	resolved := key.Resolve(resp.ResolvedID)
	featured := pickFeatured(resp, key, resolved, opts)
	refHash := featured.ReferenceHash()

	comparisons := make([]domain.AnnotatedCandidate, 0, len(resp.Items))
	for _, item := range resp.Items {
		if featured.Matches(item) {
			continue
		}
		comparisons = append(comparisons, annotate(item, refHash))
	}

	return &domain.ReconciledView{
		Featured:    featured,
		Comparisons: comparisons,
		Key:         resolved,
	}, nil
}

func pickFeatured(resp *domain.SearchResponse, key, resolved domain.SelectionKey, opts Options) domain.FeaturedItem {
	if resp.Mempool {
		txID := ""
		if key.Kind == domain.KeyTxID {
			txID = key.Value
		}
		return domain.FeaturedItem{
			Kind:        domain.FeaturedUnconfirmed,
			TxID:        txID,
			ContentLink: resp.ChosenContentLink,
			ContentHash: resp.ChosenContentHash,
		}
	}

	if item, ok := newLookup(resp.Items).find(resolved); ok {
		return domain.FeaturedItem{Kind: domain.FeaturedCandidate, Item: &item}
	}

	return domain.FeaturedItem{
		Kind:             domain.FeaturedPlaceholder,
		PreviewURL:       opts.PreviewURL,
		AlreadyInscribed: key.Kind == domain.KeyUploadedImage && resp.ChosenContentHash != "",
	}
}

func annotate(item domain.CandidateItem, refHash string) domain.AnnotatedCandidate {
	duplicate := refHash != "" && item.ContentHash == refHash
	percent := NormalizeScore(item.SimilarityScore)

	label := FormatPercent(percent)
	if duplicate {
		label = domain.DuplicateLabel
	}

	return domain.AnnotatedCandidate{
		CandidateItem:          item,
		IsExactDuplicate:       duplicate,
		NormalizedScorePercent: percent,
		ScoreLabel:             label,
	}
}

// lookup addresses items by id and by transaction id in one table.
type lookup map[string]domain.CandidateItem

func newLookup(items []domain.CandidateItem) lookup {
	table := make(lookup, len(items)*2)
	for _, item := range items {
		if item.ID != "" {
			if _, seen := table[item.ID]; !seen {
				table[item.ID] = item
			}
		}
		if item.TxID != "" {
			if _, seen := table[item.TxID]; !seen {
				table[item.TxID] = item
			}
		}
	}
	return table
}

func (l lookup) find(key domain.SelectionKey) (domain.CandidateItem, bool) {
	switch key.Kind {
	case domain.KeyID, domain.KeyTxID:
		item, ok := l[key.Value]
		return item, ok
	default:
		return domain.CandidateItem{}, false
	}
}
