package printing

import (
	"context"
	"errors"
	"time"

	"github.com/prodsheet/backend/internal/domain/printing"
)

// RenderRequest contains the parameters for rendering HTML to PDF
type RenderRequest struct {
	// HTML is a complete document or a body fragment
	HTML string
	// Page is the physical page geometry
	Page printing.PageSetup
	// Title is used when HTML is a fragment
	Title string
	// Timeout overrides the renderer default when non-zero
	Timeout time.Duration
}

// RenderResult contains the output from PDF rendering
type RenderResult struct {
	PDFData        []byte
	PageCount      int
	RenderDuration time.Duration
	// ImagesPending is set when the document was printed before every
	// image finished loading
	ImagesPending bool
}

// PDFRenderer converts HTML documents to PDF
type PDFRenderer interface {
	Render(ctx context.Context, req *RenderRequest) (*RenderResult, error)
	Close() error
}

// RenderError represents an error during sheet generation or PDF rendering
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Error codes for rendering failures
const (
	ErrCodeRenderTimeout    = "RENDER_TIMEOUT"
	ErrCodeRenderFailed     = "RENDER_FAILED"
	ErrCodeRenderDisabled   = "RENDER_DISABLED"
	ErrCodeInvalidHTML      = "INVALID_HTML"
	ErrCodeInvalidTemplate  = "INVALID_TEMPLATE"
	ErrCodeInvalidPaperSize = "INVALID_PAPER_SIZE"
	ErrCodeStorageFailed    = "STORAGE_FAILED"
)

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// RenderErrorCode returns the code of the first RenderError in err's chain,
// or "" when there is none.
func RenderErrorCode(err error) string {
	var re *RenderError
	if errors.As(err, &re) {
		return re.Code
	}
	return ""
}

// DisabledRenderer is used when PDF rendering is switched off in
// configuration. Every call fails with ErrCodeRenderDisabled.
type DisabledRenderer struct{}

func (DisabledRenderer) Render(context.Context, *RenderRequest) (*RenderResult, error) {
	return nil, NewRenderError(ErrCodeRenderDisabled, "PDF rendering is disabled", nil)
}

func (DisabledRenderer) Close() error { return nil }

var _ PDFRenderer = DisabledRenderer{}
