package domain

import "fmt"

// MaxOwnerIDLength bounds identifiers so the public URL stays well inside QR capacity.
const MaxOwnerIDLength = 128

// ValidateOwnerID accepts identifiers made only of URL unreserved characters.
// The value is never trimmed or case-folded: the caller's bytes are the key.
func ValidateOwnerID(ownerID string) error {
	if ownerID == "" {
		return fmt.Errorf("%w: empty", ErrInvalidIdentifier)
	}
	if len(ownerID) > MaxOwnerIDLength {
		return fmt.Errorf("%w: longer than %d bytes", ErrInvalidIdentifier, MaxOwnerIDLength)
	}
	if ownerID == "." || ownerID == ".." {
		return fmt.Errorf("%w: dot segment", ErrInvalidIdentifier)
	}
	for i := 0; i < len(ownerID); i++ {
		if !isUnreserved(ownerID[i]) {
			return fmt.Errorf("%w: illegal character %q", ErrInvalidIdentifier, ownerID[i])
		}
	}
	return nil
}

func isUnreserved(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '-', c == '.', c == '_', c == '~':
		return true
	}
	return false
}
