package handler

import (
	"context"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prodsheet/backend/internal/application/orderview"
	"github.com/prodsheet/backend/internal/infrastructure/printing"
	"github.com/prodsheet/backend/internal/interfaces/http/dto"
	"github.com/prodsheet/backend/internal/interfaces/http/middleware"
	"github.com/prodsheet/backend/internal/interfaces/http/router"
)

// OrderPresenter is what OrderHandler needs from the presentation layer
type OrderPresenter interface {
	View(ctx context.Context, rawID string) (*orderview.OrderView, error)
	SheetHTML(ctx context.Context, rawID string) (*printing.Document, error)
	ExportPDF(ctx context.Context, rawID string) (*orderview.PDFDocument, error)
	Share(ctx context.Context, rawID string) (*orderview.ShareLink, error)
}

// OrderHandler serves the read-only order pages
type OrderHandler struct {
	BaseHandler
	presenter OrderPresenter
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(presenter OrderPresenter) *OrderHandler {
	return &OrderHandler{presenter: presenter}
}

// Routes returns the order route group
func (h *OrderHandler) Routes() *router.DomainGroup {
	sheet := middleware.SecureWithConfig(middleware.SheetSecurityConfig())
	return router.NewDomainGroup("orders", "/orders").
		GET("/:id", h.GetOrder).
		GET("/:id/sheet", sheet, h.GetSheet).
		GETOnly("/:id/sheet.pdf", h.GetSheetPDF).
		GET("/:id/share", h.GetShareLink)
}

// bindID reads and validates the order ID path parameter.
func (h *OrderHandler) bindID(c *gin.Context) (string, bool) {
	var req dto.OrderIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return "", false
	}
	return req.ID, true
}

// GetOrder godoc
// @ID           getOrder
// @Summary      Get order summary
// @Description  Returns the order with its line items, CBM at 4 decimals and enriched product images
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} OrderViewResponse
// @Failure      400 {object} LoadFailureResponse
// @Failure      404 {object} LoadFailureResponse
// @Failure      502 {object} LoadFailureResponse
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	view, err := h.presenter.View(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// GetSheet godoc
// @ID           getOrderSheet
// @Summary      Get printable production sheet
// @Description  Returns the A4 production sheet as HTML that opens the print dialog once loaded.
// @Description  A failed load redirects to the order list with a notice.
// @Tags         orders
// @Produce      html
// @Param        id path string true "Order ID"
// @Success      200 {string} string "HTML document"
// @Success      303 "Redirect to the order list"
// @Router       /orders/{id}/sheet [get]
func (h *OrderHandler) GetSheet(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	doc, err := h.presenter.SheetHTML(c.Request.Context(), id)
	if err != nil {
		if le, isLoad := orderview.AsLoadError(err); isLoad && le.RedirectTo != "" {
			_ = c.Error(err)
			c.Redirect(http.StatusSeeOther, withNotice(le.RedirectTo, le.Notice))
			return
		}
		h.HandleError(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(doc.HTML))
}

// GetSheetPDF godoc
// @ID           getOrderSheetPDF
// @Summary      Download production sheet PDF
// @Description  Renders the production sheet to PDF. Pass download=true to save instead of view.
// @Tags         orders
// @Produce      application/pdf
// @Param        id path string true "Order ID"
// @Param        download query bool false "Send as attachment"
// @Success      200 {file} binary
// @Failure      404 {object} LoadFailureResponse
// @Failure      503 {object} LoadFailureResponse
// @Failure      504 {object} LoadFailureResponse
// @Router       /orders/{id}/sheet.pdf [get]
func (h *OrderHandler) GetSheetPDF(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var q dto.SheetPDFQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	pdf, err := h.presenter.ExportPDF(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	disposition := "inline"
	if q.Download {
		disposition = "attachment"
	}
	c.Header("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{"filename": pdf.Filename}))
	c.Header("Cache-Control", "no-store")
	c.Header("X-Sheet-Pages", strconv.Itoa(pdf.Pages))
	if pdf.Cached {
		c.Header("X-Cache", "HIT")
	} else {
		c.Header("X-Cache", "MISS")
	}
	if pdf.ArchiveURL != "" {
		c.Header("X-Archive-URL", pdf.ArchiveURL)
	}
	c.Data(http.StatusOK, "application/pdf", pdf.Data)
}

// GetShareLink godoc
// @ID           getOrderShareLink
// @Summary      Get WhatsApp share link
// @Description  Builds the WhatsApp message announcing the production sheet. Pass open=true to be redirected to it.
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Param        open query bool false "Redirect to WhatsApp"
// @Success      200 {object} ShareLinkResponse
// @Success      302 "Redirect to WhatsApp"
// @Failure      404 {object} LoadFailureResponse
// @Router       /orders/{id}/share [get]
func (h *OrderHandler) GetShareLink(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var q dto.ShareQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	link, err := h.presenter.Share(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if q.Open {
		c.Redirect(http.StatusFound, link.URL)
		return
	}
	h.Success(c, link)
}

// withNotice appends the notice query parameter to target.
func withNotice(target, notice string) string {
	u, err := url.Parse(target)
	if err != nil {
		return target
	}
	if notice != "" {
		q := u.Query()
		q.Set("notice", notice)
		u.RawQuery = q.Encode()
	}
	return u.String()
}
