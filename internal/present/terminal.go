// Package present renders reconciled views for people: terminal cards for
// the CLI and JSON documents for scripts.
package present

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cloo-solutions/ordlens/internal/domain"
	"github.com/cloo-solutions/ordlens/internal/session"
)

const DefaultMintURL = "https://ordinalswallet.com/inscribe"

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
	featuredStyle = cardStyle.
			BorderForeground(lipgloss.Color("39"))
	duplicateStyle = cardStyle.
			BorderForeground(lipgloss.Color("196"))
	titleStyle     = lipgloss.NewStyle().Bold(true)
	duplicateLabel = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	mutedStyle     = lipgloss.NewStyle().Faint(true)
	errorStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
)

// TerminalOptions configures the terminal gateway.
type TerminalOptions struct {
	// MintURL is offered on placeholder cards for images not yet inscribed.
	MintURL string
	// ShareBase is the base URL of shareable links.
	ShareBase string
	// Details adds the full detail block to every comparison card.
	Details bool
}

// Terminal renders views as bordered cards.
type Terminal struct {
	out  io.Writer
	errw io.Writer
	opts TerminalOptions
}

// NewTerminal creates a terminal gateway writing views to out and errors to errw.
func NewTerminal(out, errw io.Writer, opts TerminalOptions) *Terminal {
	if opts.MintURL == "" {
		opts.MintURL = DefaultMintURL
	}
	return &Terminal{out: out, errw: errw, opts: opts}
}

// Present implements engine.Presenter.
func (t *Terminal) Present(view *domain.ReconciledView, query url.Values) error {
	var b strings.Builder

	b.WriteString(t.featuredCard(view.Featured))
	b.WriteString("\n")

	if len(view.Comparisons) == 0 {
		b.WriteString(mutedStyle.Render("No similar pictures found."))
		b.WriteString("\n")
	} else {
		fmt.Fprintf(&b, "%s\n", titleStyle.Render(fmt.Sprintf("%d similar pictures:", len(view.Comparisons))))
		for i, c := range view.Comparisons {
			b.WriteString(t.comparisonCard(i+1, c))
			b.WriteString("\n")
		}
	}

	if encoded := query.Encode(); encoded != "" {
		link := "?" + encoded
		if t.opts.ShareBase != "" {
			full, err := session.ShareLink(t.opts.ShareBase, query)
			if err != nil {
				return err
			}
			link = full
		}
		fmt.Fprintf(&b, "Share: %s\n", link)
	}

	_, err := io.WriteString(t.out, b.String())
	return err
}

// PresentError implements engine.Presenter.
func (t *Terminal) PresentError(err error) error {
	_, werr := fmt.Fprintln(t.errw, errorStyle.Render(domain.UserMessage(err)))
	return werr
}

func (t *Terminal) featuredCard(f domain.FeaturedItem) string {
	var lines []string

	switch f.Kind {
	case domain.FeaturedCandidate:
		lines = append(lines, titleStyle.Render("Your ordinal: "+f.Item.ID))
		lines = append(lines, f.Item.ContentLink)
		lines = append(lines, detailLines(*f.Item)...)
	case domain.FeaturedUnconfirmed:
		lines = append(lines, titleStyle.Render("Unconfirmed transaction"))
		if f.TxID != "" {
			lines = append(lines, "Transaction ID: "+f.TxID)
		}
		if f.ContentLink != "" {
			lines = append(lines, f.ContentLink)
		}
	default:
		lines = append(lines, titleStyle.Render("Your potential ordinal"))
		if f.AlreadyInscribed {
			lines = append(lines, "Already inscribed")
		} else {
			lines = append(lines, "Mint it at "+t.opts.MintURL)
		}
		if f.PreviewURL != "" {
			lines = append(lines, mutedStyle.Render(previewSummary(f.PreviewURL)))
		}
	}

	return featuredStyle.Render(strings.Join(lines, "\n"))
}

func (t *Terminal) comparisonCard(rank int, c domain.AnnotatedCandidate) string {
	score := c.ScoreLabel
	style := cardStyle
	if c.IsExactDuplicate {
		score = duplicateLabel.Render(c.ScoreLabel)
		style = duplicateStyle
	}

	lines := []string{
		fmt.Sprintf("%d. Ordinal ID: %s", rank, c.ID),
		"Similarity: " + score,
		c.ContentLink,
	}
	if t.opts.Details {
		lines = append(lines, detailLines(c.CandidateItem)...)
	}
	return style.Render(strings.Join(lines, "\n"))
}

func detailLines(item domain.CandidateItem) []string {
	var lines []string
	if !item.PublishedAt.IsZero() {
		lines = append(lines, "Time published: "+item.PublishedAt.Format("2006-01-02 15:04:05 MST"))
	}
	if item.ContentType != "" {
		lines = append(lines, "Content type: "+item.ContentType)
	}
	if item.ContentLengthBytes > 0 {
		lines = append(lines, fmt.Sprintf("Content length: %d bytes", item.ContentLengthBytes))
	}
	if link := item.MintedAddressLink(); link != "" {
		lines = append(lines, "Minted address: "+link)
	}
	if item.OrdinalsLink != "" {
		lines = append(lines, "Ordinals.com: "+item.OrdinalsLink)
	}
	if link := item.TxLink(); link != "" {
		lines = append(lines, "Transaction: "+link)
	}
	return lines
}

// previewSummary shortens a data URL to its media type and size.
func previewSummary(preview string) string {
	if !strings.HasPrefix(preview, "data:") {
		return "Preview: " + preview
	}
	meta, data, _ := strings.Cut(strings.TrimPrefix(preview, "data:"), ",")
	meta = strings.TrimSuffix(meta, ";base64")
	return fmt.Sprintf("Preview: %s, %d bytes encoded", meta, len(data))
}
