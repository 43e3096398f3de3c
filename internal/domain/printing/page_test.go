package printing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePaperSize(t *testing.T) {
	p, err := ParsePaperSize(" a4 ")
	require.NoError(t, err)
	assert.Equal(t, PaperSizeA4, p)

	p, err = ParsePaperSize("letter")
	require.NoError(t, err)
	assert.Equal(t, "letter", p.CSSName())

	_, err = ParsePaperSize("RECEIPT_58MM")
	assert.Error(t, err)
}

func TestNewMargins(t *testing.T) {
	m, err := NewMargins(0, 0, 0, 0)
	require.NoError(t, err)
	assert.True(t, m.IsZero())

	_, err = NewMargins(-1, 0, 0, 0)
	assert.Error(t, err)
	_, err = NewMargins(0, 0, 51, 0)
	assert.Error(t, err)
}

func TestSheetPageSetup(t *testing.T) {
	setup := SheetPageSetup()

	w, h := setup.Size()
	assert.Equal(t, 210.0, w)
	assert.Equal(t, 297.0, h)
	assert.Equal(t, 277.0, setup.BoxHeightMM())

	setup.Orientation = OrientationLandscape
	w, h = setup.Size()
	assert.Equal(t, 297.0, w)
	assert.Equal(t, 210.0, h)
}
