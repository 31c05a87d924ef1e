package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/sahan201/basic-inventory-management-system/internal/core/apperror"
	"github.com/sahan201/basic-inventory-management-system/internal/core/id"
	"github.com/sahan201/basic-inventory-management-system/internal/core/types"
	"github.com/sahan201/basic-inventory-management-system/internal/domain/product"
	"github.com/sahan201/basic-inventory-management-system/internal/infrastructure/http/v1/dto"
)

// ProductHandler handles product catalog requests.
type ProductHandler struct {
	*BaseHandler
	service *product.Service
}

// NewProductHandler creates a product handler.
func NewProductHandler(base *BaseHandler, service *product.Service) *ProductHandler {
	return &ProductHandler{BaseHandler: base, service: service}
}

func parseOptionalID(raw *string, field string) (*id.ID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	parsed, err := id.Parse(*raw)
	if err != nil {
		return nil, apperror.NewValidation("invalid " + field + " format")
	}
	return &parsed, nil
}

func parseOptionalMoney(raw *string, field string) (*types.Money, error) {
	if raw == nil {
		return nil, nil
	}
	parsed, err := types.NewMoneyFromString(*raw)
	if err != nil {
		return nil, apperror.NewValidation("invalid " + field + " format")
	}
	return &parsed, nil
}

// Create handles POST /products.
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	price, err := types.NewMoneyFromString(req.Price)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid price format"))
		return
	}
	costPrice, err := parseOptionalMoney(req.CostPrice, "costPrice")
	if err != nil {
		h.Error(c, err)
		return
	}
	categoryID, err := parseOptionalID(req.CategoryID, "categoryId")
	if err != nil {
		h.Error(c, err)
		return
	}
	supplierID, err := parseOptionalID(req.SupplierID, "supplierId")
	if err != nil {
		h.Error(c, err)
		return
	}

	p, err := h.service.Create(c.Request.Context(), product.CreateInput{
		Name:         req.Name,
		SKU:          req.SKU,
		Description:  req.Description,
		CategoryID:   categoryID,
		SupplierID:   supplierID,
		Price:        price,
		CostPrice:    costPrice,
		InitialStock: req.InitialStock,
		ReorderLevel: req.ReorderLevel,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, p)
}

// Update handles PUT /products/:id.
func (h *ProductHandler) Update(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	price, err := parseOptionalMoney(req.Price, "price")
	if err != nil {
		h.Error(c, err)
		return
	}
	costPrice, err := parseOptionalMoney(req.CostPrice, "costPrice")
	if err != nil {
		h.Error(c, err)
		return
	}
	categoryID, err := parseOptionalID(req.CategoryID, "categoryId")
	if err != nil {
		h.Error(c, err)
		return
	}
	supplierID, err := parseOptionalID(req.SupplierID, "supplierId")
	if err != nil {
		h.Error(c, err)
		return
	}

	p, err := h.service.Update(c.Request.Context(), productID, product.UpdateInput{
		Name:         req.Name,
		SKU:          req.SKU,
		Description:  req.Description,
		CategoryID:   categoryID,
		SupplierID:   supplierID,
		Price:        price,
		CostPrice:    costPrice,
		ReorderLevel: req.ReorderLevel,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, p)
}

// Delete handles DELETE /products/:id.
func (h *ProductHandler) Delete(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), productID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// Get handles GET /products/:id.
func (h *ProductHandler) Get(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, p)
}

// List handles GET /products.
func (h *ProductHandler) List(c *gin.Context) {
	filter := product.ListFilter{
		Search:       c.Query("search"),
		LowStockOnly: c.Query("lowStock") == "true",
		Limit:        h.ParseIntQuery(c, "limit", 100),
		Offset:       h.ParseIntQuery(c, "offset", 0),
	}

	categoryID, ok := h.ParseOptionalIDQuery(c, "categoryId")
	if !ok {
		return
	}
	filter.CategoryID = categoryID
	supplierID, ok := h.ParseOptionalIDQuery(c, "supplierId")
	if !ok {
		return
	}
	filter.SupplierID = supplierID

	products, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(products))
}
