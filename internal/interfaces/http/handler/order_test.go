package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prodsheet/backend/internal/application/orderview"
	"github.com/prodsheet/backend/internal/domain/shared"
	"github.com/prodsheet/backend/internal/infrastructure/printing"
	"github.com/prodsheet/backend/internal/interfaces/http/dto"
	"github.com/prodsheet/backend/internal/interfaces/http/middleware"
	"github.com/prodsheet/backend/internal/interfaces/http/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPresenter is a mock implementation of OrderPresenter
type MockPresenter struct {
	mock.Mock
}

func (m *MockPresenter) View(ctx context.Context, rawID string) (*orderview.OrderView, error) {
	args := m.Called(ctx, rawID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orderview.OrderView), args.Error(1)
}

func (m *MockPresenter) SheetHTML(ctx context.Context, rawID string) (*printing.Document, error) {
	args := m.Called(ctx, rawID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*printing.Document), args.Error(1)
}

func (m *MockPresenter) ExportPDF(ctx context.Context, rawID string) (*orderview.PDFDocument, error) {
	args := m.Called(ctx, rawID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orderview.PDFDocument), args.Error(1)
}

func (m *MockPresenter) Share(ctx context.Context, rawID string) (*orderview.ShareLink, error) {
	args := m.Called(ctx, rawID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orderview.ShareLink), args.Error(1)
}

func setupOrderRouter(p OrderPresenter) *gin.Engine {
	engine := gin.New()
	engine.Use(middleware.RequestID())
	router.NewRouter(engine).Register(NewOrderHandler(p).Routes()).Setup()
	return engine
}

func get(engine *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func notFoundLoad(id string) error {
	return &orderview.LoadError{
		OrderID:    "42",
		Notice:     orderview.LoadFailedNotice,
		RedirectTo: "/orders",
		Cause:      shared.ErrNotFound.WithMessage("order " + id + " not found"),
	}
}

func TestOrderHandler_GetOrder(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		p := new(MockPresenter)
		p.On("View", mock.Anything, "42").Return(&orderview.OrderView{
			State:    orderview.StateReady,
			ID:       "42",
			Title:    "Sofa run",
			TotalCBM: "1.2345",
			Items:    []orderview.ItemRow{{Index: 1, ProductCode: "SF-1", CBM: "1.2345", Quantity: 2}},
		}, nil)

		w := get(setupOrderRouter(p), "/api/v1/orders/42")

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		assert.True(t, resp.Success)
		data := resp.Data.(map[string]any)
		assert.Equal(t, "ready", data["state"])
		assert.Equal(t, "1.2345", data["total_cbm"])
		p.AssertExpectations(t)
	})

	t.Run("not found carries redirect", func(t *testing.T) {
		p := new(MockPresenter)
		p.On("View", mock.Anything, "42").Return(nil, notFoundLoad("42"))

		w := get(setupOrderRouter(p), "/api/v1/orders/42")

		assert.Equal(t, http.StatusNotFound, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
		assert.Equal(t, orderview.LoadFailedNotice, resp.Error.Message)
		assert.Equal(t, "/orders", resp.Error.RedirectTo)
		assert.Equal(t, "not_found", resp.Error.State)
		assert.NotEmpty(t, resp.Error.RequestID)
	})

	t.Run("invalid id never reaches presenter", func(t *testing.T) {
		p := new(MockPresenter)

		w := get(setupOrderRouter(p), "/api/v1/orders/bad%20id")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidation, decodeResponse(t, w).Error.Code)
		p.AssertNotCalled(t, "View", mock.Anything, mock.Anything)
	})
}

func TestOrderHandler_GetSheet(t *testing.T) {
	t.Run("serves html with sheet headers", func(t *testing.T) {
		p := new(MockPresenter)
		p.On("SheetHTML", mock.Anything, "42").Return(&printing.Document{
			HTML:  "<!DOCTYPE html><html><body>sheet</body></html>",
			Title: "Production Sheet SO-42",
			Pages: 1,
		}, nil)

		w := get(setupOrderRouter(p), "/api/v1/orders/42/sheet")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
		assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
		assert.Equal(t, "SAMEORIGIN", w.Header().Get("X-Frame-Options"))
		assert.Contains(t, w.Header().Get("Content-Security-Policy"), "script-src 'unsafe-inline'")
		assert.Contains(t, w.Body.String(), "sheet")
	})

	t.Run("failed load redirects with notice", func(t *testing.T) {
		p := new(MockPresenter)
		p.On("SheetHTML", mock.Anything, "42").Return(nil, notFoundLoad("42"))

		w := get(setupOrderRouter(p), "/api/v1/orders/42/sheet")

		assert.Equal(t, http.StatusSeeOther, w.Code)
		loc, err := url.Parse(w.Header().Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "/orders", loc.Path)
		assert.Equal(t, orderview.LoadFailedNotice, loc.Query().Get("notice"))
	})

	t.Run("render failure is json", func(t *testing.T) {
		p := new(MockPresenter)
		p.On("SheetHTML", mock.Anything, "42").
			Return(nil, printing.NewRenderError(printing.ErrCodeInvalidTemplate, "template failed", nil))

		w := get(setupOrderRouter(p), "/api/v1/orders/42/sheet")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestOrderHandler_GetSheetPDF(t *testing.T) {
	pdf := &orderview.PDFDocument{
		OrderID:    "42",
		Filename:   "production-sheet-SO-42.pdf",
		Data:       []byte("%PDF-1.4 test"),
		Pages:      2,
		ArchiveURL: "https://files.example.com/sheets/2025/01/42-abc.pdf",
	}

	t.Run("inline by default", func(t *testing.T) {
		p := new(MockPresenter)
		p.On("ExportPDF", mock.Anything, "42").Return(pdf, nil)

		w := get(setupOrderRouter(p), "/api/v1/orders/42/sheet.pdf")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.Equal(t, "inline; filename=production-sheet-SO-42.pdf", w.Header().Get("Content-Disposition"))
		assert.Equal(t, "2", w.Header().Get("X-Sheet-Pages"))
		assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
		assert.Equal(t, pdf.ArchiveURL, w.Header().Get("X-Archive-URL"))
		assert.Equal(t, "%PDF-1.4 test", w.Body.String())
	})

	t.Run("download as attachment", func(t *testing.T) {
		cached := *pdf
		cached.Cached = true
		cached.ArchiveURL = ""
		p := new(MockPresenter)
		p.On("ExportPDF", mock.Anything, "42").Return(&cached, nil)

		w := get(setupOrderRouter(p), "/api/v1/orders/42/sheet.pdf?download=true")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "attachment; filename=production-sheet-SO-42.pdf", w.Header().Get("Content-Disposition"))
		assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
		assert.Empty(t, w.Header().Get("X-Archive-URL"))
	})

	t.Run("bad query", func(t *testing.T) {
		p := new(MockPresenter)

		w := get(setupOrderRouter(p), "/api/v1/orders/42/sheet.pdf?download=maybe")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		p.AssertNotCalled(t, "ExportPDF", mock.Anything, mock.Anything)
	})

	t.Run("renderer disabled", func(t *testing.T) {
		p := new(MockPresenter)
		p.On("ExportPDF", mock.Anything, "42").
			Return(nil, printing.NewRenderError(printing.ErrCodeRenderDisabled, "pdf rendering is disabled", nil))

		w := get(setupOrderRouter(p), "/api/v1/orders/42/sheet.pdf")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, dto.ErrCodeRenderUnavailable, decodeResponse(t, w).Error.Code)
	})
}

func TestOrderHandler_GetSheetPDF_HeadDoesNotRender(t *testing.T) {
	p := new(MockPresenter)
	engine := setupOrderRouter(p)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodHead, "/api/v1/orders/42/sheet.pdf", nil))

	assert.NotEqual(t, http.StatusOK, w.Code)
	p.AssertNotCalled(t, "ExportPDF", mock.Anything, mock.Anything)
}

func TestOrderHandler_GetShareLink(t *testing.T) {
	link := &orderview.ShareLink{
		OrderID: "42",
		Message: "JAIPUR Production Sheet",
		PDFURL:  "http://localhost:8000/api/orders/42/export-pdf",
		URL:     "https://wa.me/?text=JAIPUR%20Production%20Sheet",
	}

	t.Run("json", func(t *testing.T) {
		p := new(MockPresenter)
		p.On("Share", mock.Anything, "42").Return(link, nil)

		w := get(setupOrderRouter(p), "/api/v1/orders/42/share")

		assert.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w).Data.(map[string]any)
		assert.Equal(t, link.URL, data["url"])
		assert.Equal(t, link.PDFURL, data["pdf_url"])
	})

	t.Run("open redirects to whatsapp", func(t *testing.T) {
		p := new(MockPresenter)
		p.On("Share", mock.Anything, "42").Return(link, nil)

		w := get(setupOrderRouter(p), "/api/v1/orders/42/share?open=1")

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, link.URL, w.Header().Get("Location"))
	})

	t.Run("upstream failure", func(t *testing.T) {
		p := new(MockPresenter)
		p.On("Share", mock.Anything, "42").Return(nil, &orderview.LoadError{
			OrderID: "42", Notice: orderview.LoadFailedNotice, RedirectTo: "/orders",
			Cause: shared.ErrUpstreamUnavailable,
		})

		w := get(setupOrderRouter(p), "/api/v1/orders/42/share")

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestWithNotice(t *testing.T) {
	assert.Equal(t, "/orders?notice=Failed+to+load+preview", withNotice("/orders", orderview.LoadFailedNotice))
	assert.Equal(t, "/orders?notice=x&page=2", withNotice("/orders?page=2", "x"))
	assert.Equal(t, "/orders", withNotice("/orders", ""))
}
