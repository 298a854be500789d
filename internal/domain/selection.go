package domain

import "fmt"

// KeyKind enumerates the entry points that can start a lookup.
type KeyKind int

const (
	KeyNone KeyKind = iota
	KeyUploadedImage
	KeyID
	KeyTxID
	KeyRandom
)

// RandomSentinel is the identifier the backend resolves to a random item.
const RandomSentinel = "random"

func (k KeyKind) String() string {
	switch k {
	case KeyUploadedImage:
		return "upload"
	case KeyID:
		return "id"
	case KeyTxID:
		return "tx"
	case KeyRandom:
		return "random"
	default:
		return "none"
	}
}

// MarshalText encodes the kind by name.
func (k KeyKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name produced by MarshalText.
func (k *KeyKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "upload":
		*k = KeyUploadedImage
	case "id":
		*k = KeyID
	case "tx":
		*k = KeyTxID
	case "random":
		*k = KeyRandom
	case "none", "":
		*k = KeyNone
	default:
		return fmt.Errorf("unknown selection kind %q", text)
	}
	return nil
}

// SelectionKey says which item the user asked about. Value holds the
// identifier for KeyID and KeyTxID and is empty otherwise.
type SelectionKey struct {
	Kind  KeyKind `json:"kind"`
	Value string  `json:"value,omitempty"`
}

func ByUploadedImage() SelectionKey { return SelectionKey{Kind: KeyUploadedImage} }

func ByID(id string) SelectionKey { return SelectionKey{Kind: KeyID, Value: id} }

func ByTxID(txID string) SelectionKey { return SelectionKey{Kind: KeyTxID, Value: txID} }

func Random() SelectionKey { return SelectionKey{Kind: KeyRandom} }

// IsZero reports whether no lookup is selected.
func (k SelectionKey) IsZero() bool {
	return k.Kind == KeyNone
}

// Identifier returns the identifier sent to the backend for this key.
func (k SelectionKey) Identifier() string {
	switch k.Kind {
	case KeyID, KeyTxID:
		return k.Value
	case KeyRandom:
		return RandomSentinel
	default:
		return ""
	}
}

// Resolve replaces a random key with the id the backend picked. Other keys,
// and random keys without a resolved id, are returned unchanged.
func (k SelectionKey) Resolve(resolvedID string) SelectionKey {
	if k.Kind == KeyRandom && resolvedID != "" {
		return ByID(resolvedID)
	}
	return k
}

func (k SelectionKey) String() string {
	if k.Value == "" {
		return k.Kind.String()
	}
	return fmt.Sprintf("%s:%s", k.Kind, k.Value)
}
