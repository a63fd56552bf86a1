package handler

import (
	"net/http"

	"phoneshop/internal/dto"
	"phoneshop/internal/service"

	"github.com/gin-gonic/gin"
)

type IMEIHandler struct {
	imeis service.IMEIService
}

func NewIMEIHandler(imeis service.IMEIService) *IMEIHandler {
	return &IMEIHandler{imeis: imeis}
}

func (h *IMEIHandler) Register(c *gin.Context) {
	var req dto.RegisterIMEIRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.imeis.RegisterIMEI(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *IMEIHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.imeis.GetIMEI(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Lookup finds a unit by its IMEI string rather than row id.
func (h *IMEIHandler) Lookup(c *gin.Context) {
	resp, err := h.imeis.LookupIMEI(c.Request.Context(), c.Param("imei"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *IMEIHandler) List(c *gin.Context) {
	var filter dto.IMEIFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.imeis.ListIMEIs(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *IMEIHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateIMEIStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.imeis.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
