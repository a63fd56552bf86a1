package handler

import (
	"net/http"

	"phoneshop/internal/dto"
	"phoneshop/internal/service"

	"github.com/gin-gonic/gin"
)

type InstallmentHandler struct {
	installments service.InstallmentService
}

func NewInstallmentHandler(installments service.InstallmentService) *InstallmentHandler {
	return &InstallmentHandler{installments: installments}
}

func (h *InstallmentHandler) Create(c *gin.Context) {
	var req dto.CreateInstallmentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.installments.CreateInstallment(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *InstallmentHandler) AddPayment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.InstallmentPaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.installments.AddPayment(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InstallmentHandler) MarkDefaulted(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.installments.MarkDefaulted(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *InstallmentHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.installments.GetInstallment(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InstallmentHandler) List(c *gin.Context) {
	var filter dto.InstallmentFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.installments.ListInstallments(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
