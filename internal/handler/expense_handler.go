package handler

import (
	"net/http"

	"phoneshop/internal/apierror"
	"phoneshop/internal/dto"
	"phoneshop/internal/middleware"
	"phoneshop/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ExpenseHandler struct {
	expenses service.ExpenseService
}

func NewExpenseHandler(expenses service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses}
}

func (h *ExpenseHandler) Create(c *gin.Context) {
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

	var req dto.CreateExpenseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.expenses.CreateExpense(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.expenses.DeleteExpense(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ExpenseHandler) List(c *gin.Context) {
	var filter dto.ExpenseFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.expenses.ListExpenses(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
