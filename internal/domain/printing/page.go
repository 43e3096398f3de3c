package printing

import (
	"strings"

	"github.com/prodsheet/backend/internal/domain/shared"
)

// PaperSize is a named sheet of paper
type PaperSize string

const (
	PaperSizeA4     PaperSize = "A4"
	PaperSizeA5     PaperSize = "A5"
	PaperSizeLetter PaperSize = "LETTER"
)

// ParsePaperSize accepts a paper size name in any case
func ParsePaperSize(s string) (PaperSize, error) {
	p := PaperSize(strings.ToUpper(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", shared.ErrInvalidInput.WithMessage("unsupported paper size: " + s)
	}
	return p, nil
}

// IsValid checks if the PaperSize is a known value
func (p PaperSize) IsValid() bool {
	switch p {
	case PaperSizeA4, PaperSizeA5, PaperSizeLetter:
		return true
	}
	return false
}

func (p PaperSize) String() string { return string(p) }

// CSSName is the keyword used in a CSS @page size declaration
func (p PaperSize) CSSName() string {
	if p == PaperSizeLetter {
		return "letter"
	}
	return string(p)
}

// Dimensions returns width and height in millimetres, portrait
func (p PaperSize) Dimensions() (width, height float64) {
	switch p {
	case PaperSizeA5:
		return 148, 210
	case PaperSizeLetter:
		return 215.9, 279.4
	default:
		return 210, 297
	}
}

// Orientation is the page orientation
type Orientation string

const (
	OrientationPortrait  Orientation = "PORTRAIT"
	OrientationLandscape Orientation = "LANDSCAPE"
)

// Margins are printer margins in millimetres
type Margins struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// NewMargins validates and builds Margins
func NewMargins(top, right, bottom, left float64) (Margins, error) {
	for _, v := range []float64{top, right, bottom, left} {
		if v < 0 {
			return Margins{}, shared.ErrInvalidInput.WithMessage("margins cannot be negative")
		}
		if v > 50 {
			return Margins{}, shared.ErrInvalidInput.WithMessage("margins cannot exceed 50mm")
		}
	}
	return Margins{Top: top, Right: right, Bottom: bottom, Left: left}, nil
}

// IsZero returns true if all margins are zero
func (m Margins) IsZero() bool {
	return m.Top == 0 && m.Right == 0 && m.Bottom == 0 && m.Left == 0
}

// PageSetup is the geometry of one production sheet page. The sheet prints
// edge to edge and reserves its own padding inside a fixed-height page box.
type PageSetup struct {
	Paper       PaperSize
	Orientation Orientation
	Margins     Margins
	PaddingMM   float64
}

// SheetPageSetup is the A4 borderless layout used for production sheets
func SheetPageSetup() PageSetup {
	return PageSetup{
		Paper:       PaperSizeA4,
		Orientation: OrientationPortrait,
		PaddingMM:   8,
	}
}

// Size returns the page width and height in millimetres after orientation
func (p PageSetup) Size() (width, height float64) {
	w, h := p.Paper.Dimensions()
	if p.Orientation == OrientationLandscape {
		return h, w
	}
	return w, h
}

// BoxHeightMM is the height given to each page box. It leaves 20mm of the
// sheet for printer tolerance so a box never spills onto a second page.
func (p PageSetup) BoxHeightMM() float64 {
	_, h := p.Size()
	return h - p.Margins.Top - p.Margins.Bottom - 20
}
