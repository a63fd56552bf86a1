package handler

import (
	"net/http"

	"phoneshop/internal/dto"
	"phoneshop/internal/service"

	"github.com/gin-gonic/gin"
)

type TradeInHandler struct {
	tradeIns service.TradeInService
}

func NewTradeInHandler(tradeIns service.TradeInService) *TradeInHandler {
	return &TradeInHandler{tradeIns: tradeIns}
}

func (h *TradeInHandler) Create(c *gin.Context) {
	var req dto.CreateTradeInRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.tradeIns.CreateTradeIn(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *TradeInHandler) Accept(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.AcceptTradeInRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.tradeIns.AcceptTradeIn(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TradeInHandler) Reject(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.tradeIns.RejectTradeIn(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TradeInHandler) MarkResold(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.tradeIns.MarkResold(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TradeInHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.tradeIns.GetTradeIn(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TradeInHandler) List(c *gin.Context) {
	var filter dto.TradeInFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.tradeIns.ListTradeIns(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
