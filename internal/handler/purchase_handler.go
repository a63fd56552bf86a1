package handler

import (
	"net/http"

	"phoneshop/internal/dto"
	"phoneshop/internal/service"

	"github.com/gin-gonic/gin"
)

type PurchaseHandler struct {
	purchases service.PurchaseService
}

func NewPurchaseHandler(purchases service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchases: purchases}
}

// Create godoc
// @Summary  Record a supplier order
// @Tags     purchases
// @Accept   json
// @Produce  json
// @Param    body body dto.CreatePurchaseRequest true "purchase"
// @Success  201 {object} dto.PurchaseResponse
// @Router   /purchases [post]
func (h *PurchaseHandler) Create(c *gin.Context) {
	var req dto.CreatePurchaseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.purchases.CreatePurchase(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *PurchaseHandler) Receive(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.purchases.ReceivePurchase(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PurchaseHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.purchases.CancelPurchase(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PurchaseHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.purchases.DeletePurchase(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PurchaseHandler) AddPayment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.AddPurchasePaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.purchases.AddPayment(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PurchaseHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.purchases.GetPurchase(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PurchaseHandler) List(c *gin.Context) {
	var filter dto.PurchaseFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.purchases.ListPurchases(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
