package handler

import (
	"net/http"
	"os"

	"phoneshop/internal/apierror"
	"phoneshop/internal/dto"
	"phoneshop/internal/infra"
	"phoneshop/internal/middleware"
	"phoneshop/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SaleHandler struct {
	sales    service.SaleService
	receipts *infra.ReceiptGenerator
}

func NewSaleHandler(sales service.SaleService, receipts *infra.ReceiptGenerator) *SaleHandler {
	return &SaleHandler{sales: sales, receipts: receipts}
}

// Create godoc
// @Summary  Ring up a sale
// @Tags     sales
// @Accept   json
// @Produce  json
// @Param    body body dto.CreateSaleRequest true "sale"
// @Success  201 {object} dto.SaleResponse
// @Router   /sales [post]
func (h *SaleHandler) Create(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, apierror.New("authentication required"))
		return
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("invalid token subject"))
		return
	}

	var req dto.CreateSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.sales.CreateSale(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *SaleHandler) Void(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.VoidSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.sales.VoidSale(c.Request.Context(), id, req.Reason); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SaleHandler) Refund(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.VoidSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.sales.RefundSale(c.Request.Context(), id, req.Reason); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SaleHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.sales.GetSale(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SaleHandler) List(c *gin.Context) {
	var filter dto.SaleFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.sales.ListSales(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Receipt serves the PDF for a sale, rendering it on demand when the
// background worker has not produced it yet.
func (h *SaleHandler) Receipt(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	sale, err := h.sales.GetSale(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	path := h.receipts.ReceiptPath(sale.InvoiceNo)
	if _, err := os.Stat(path); err != nil {
		full, err := h.sales.RenderReceipt(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		path = full
	}
	c.FileAttachment(path, sale.InvoiceNo+".pdf")
}
