package handler

import (
	"net/http"

	"phoneshop/internal/dto"
	"phoneshop/internal/service"

	"github.com/gin-gonic/gin"
)

type WarrantyHandler struct {
	warranties service.WarrantyService
}

func NewWarrantyHandler(warranties service.WarrantyService) *WarrantyHandler {
	return &WarrantyHandler{warranties: warranties}
}

func (h *WarrantyHandler) Create(c *gin.Context) {
	var req dto.CreateWarrantyRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.warranties.CreateWarranty(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *WarrantyHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateWarrantyStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.warranties.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *WarrantyHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.warranties.GetWarranty(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *WarrantyHandler) List(c *gin.Context) {
	var filter dto.WarrantyFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.warranties.ListWarranties(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
