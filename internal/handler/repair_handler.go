package handler

import (
	"net/http"

	"phoneshop/internal/dto"
	"phoneshop/internal/service"

	"github.com/gin-gonic/gin"
)

type RepairHandler struct {
	repairs service.RepairService
}

func NewRepairHandler(repairs service.RepairService) *RepairHandler {
	return &RepairHandler{repairs: repairs}
}

func (h *RepairHandler) Create(c *gin.Context) {
	var req dto.CreateRepairRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.repairs.CreateRepair(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *RepairHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateRepairStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.repairs.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RepairHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.repairs.GetRepair(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RepairHandler) List(c *gin.Context) {
	var filter dto.RepairFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.repairs.ListRepairs(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
