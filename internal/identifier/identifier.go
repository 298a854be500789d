// Package identifier classifies free-form user input into a lookup key
// without touching the network.
package identifier

import (
	"strings"

	"github.com/cloo-solutions/ordlens/internal/domain"
)

const (
	// TxIDLength is the length of a hex transaction id.
	TxIDLength = 64
	// InscriptionIDLength is a transaction id with its "i0" output suffix.
	InscriptionIDLength = 66

	maxIDLength = 10
)

// Classify decides whether input names an item id or a transaction id.
// Classification is purely syntactic: length and digit shape only.
func Classify(input string) (domain.SelectionKey, error) {
	input = strings.TrimSpace(input)

	switch {
	case input == "":
		return domain.SelectionKey{}, domain.ErrEmptyInput
	case len(input) == TxIDLength || len(input) == InscriptionIDLength:
		return domain.ByTxID(input), nil
	case len(input) < maxIDLength:
		if !isDigits(input) {
			return domain.SelectionKey{}, domain.ErrNotANumber
		}
		return domain.ByID(input), nil
	default:
		return domain.SelectionKey{}, domain.ErrUnrecognizedIdentifier
	}
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
