package order

import (
	"context"
	"strings"
	"unicode"

	"github.com/prodsheet/backend/internal/domain/shared"
)

// Source is the order backend the presenter reads from.
type Source interface {
	// GetOrder returns the order with the given ID. A missing order is
	// reported with an error matching shared.ErrNotFound.
	GetOrder(ctx context.Context, id ID) (*Order, error)
	// ListProducts returns the full product catalog.
	ListProducts(ctx context.Context) ([]CatalogProduct, error)
	// ExportPDFURL is the public link the backend serves the order PDF at.
	ExportPDFURL(id ID) string
}

const maxIDLength = 128

// ParseID validates a raw order identifier taken from a URL or command line.
func ParseID(raw string) (ID, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", shared.ErrInvalidInput.WithMessage("order id is required")
	}
	if s == "." || s == ".." {
		return "", shared.ErrInvalidInput.WithMessage("order id contains invalid characters")
	}
	if len([]rune(s)) > maxIDLength {
		return "", shared.ErrInvalidInput.WithMessage("order id is too long")
	}
	for _, r := range s {
		if r == '/' || r == '?' || r == '#' || unicode.IsSpace(r) || unicode.IsControl(r) {
			return "", shared.ErrInvalidInput.WithMessage("order id contains invalid characters")
		}
	}
	return ID(s), nil
}
