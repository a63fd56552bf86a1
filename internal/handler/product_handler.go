package handler

import (
	"net/http"

	"phoneshop/internal/apierror"
	"phoneshop/internal/dto"
	"phoneshop/internal/service"

	"github.com/gin-gonic/gin"
)

const maxImportSize = 10 << 20 // 10 MiB

type ProductHandler struct {
	products service.ProductService
}

func NewProductHandler(products service.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// Create godoc
// @Summary  Add a catalog product
// @Tags     products
// @Accept   json
// @Produce  json
// @Param    body body dto.CreateProductRequest true "product"
// @Success  201 {object} dto.ProductResponse
// @Router   /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.products.CreateProduct(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.products.UpdateProduct(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.products.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductHandler) List(c *gin.Context) {
	var filter dto.ProductFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.products.ListProducts(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductHandler) Deactivate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.products.DeactivateProduct(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProductHandler) Reactivate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.products.ReactivateProduct(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AdjustStock applies a stocktake correction through the ledger.
func (h *ProductHandler) AdjustStock(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.AdjustStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.products.AdjustStock(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductHandler) Movements(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	limit := 100
	movements, err := h.products.StockMovements(c.Request.Context(), id, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": movements})
}

func (h *ProductHandler) LowStock(c *gin.Context) {
	items, err := h.products.LowStock(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

// Import godoc
// @Summary  Bulk-import the catalog from an .xlsx upload
// @Tags     products
// @Accept   multipart/form-data
// @Produce  json
// @Param    file formData file true "xlsx workbook"
// @Success  200 {object} dto.ImportResultResponse
// @Router   /products/import [post]
func (h *ProductHandler) Import(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("missing file upload"))
		return
	}
	if file.Size > maxImportSize {
		c.JSON(http.StatusBadRequest, apierror.New("file exceeds the 10 MiB limit"))
		return
	}
	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("cannot read upload"))
		return
	}
	defer f.Close()

	resp, err := h.products.ImportXLSX(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PriceCheck is the unauthenticated kiosk lookup.
func (h *ProductHandler) PriceCheck(c *gin.Context) {
	barcode := c.Param("barcode")
	if barcode == "" {
		c.JSON(http.StatusBadRequest, apierror.New("missing barcode"))
		return
	}
	resp, err := h.products.PriceCheck(c.Request.Context(), barcode)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
