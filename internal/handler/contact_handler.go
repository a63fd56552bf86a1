package handler

import (
	"net/http"

	"phoneshop/internal/dto"
	"phoneshop/internal/service"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	contacts service.ContactService
}

func NewContactHandler(contacts service.ContactService) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

// ─── Suppliers ───────────────────────────────────────────────────────────────

func (h *ContactHandler) CreateSupplier(c *gin.Context) {
	var req dto.CreateSupplierRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.contacts.CreateSupplier(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ContactHandler) UpdateSupplier(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateSupplierRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.contacts.UpdateSupplier(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ContactHandler) GetSupplier(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.contacts.GetSupplier(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ContactHandler) ListSuppliers(c *gin.Context) {
	var filter dto.ContactFilter
	if !bindQuery(c, &filter) {
		return
	}
	suppliers, total, err := h.contacts.ListSuppliers(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": suppliers, "total": total, "page": filter.Page, "limit": filter.Limit})
}

func (h *ContactHandler) DeactivateSupplier(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.contacts.DeactivateSupplier(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ─── Customers ───────────────────────────────────────────────────────────────

func (h *ContactHandler) CreateCustomer(c *gin.Context) {
	var req dto.CreateCustomerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.contacts.CreateCustomer(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ContactHandler) UpdateCustomer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateCustomerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.contacts.UpdateCustomer(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ContactHandler) GetCustomer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.contacts.GetCustomer(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ContactHandler) ListCustomers(c *gin.Context) {
	var filter dto.ContactFilter
	if !bindQuery(c, &filter) {
		return
	}
	customers, total, err := h.contacts.ListCustomers(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": customers, "total": total, "page": filter.Page, "limit": filter.Limit})
}

func (h *ContactHandler) DeleteCustomer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.contacts.DeleteCustomer(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
