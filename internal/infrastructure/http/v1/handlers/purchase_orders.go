package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/sahan201/basic-inventory-management-system/internal/core/actor"
	"github.com/sahan201/basic-inventory-management-system/internal/core/apperror"
	"github.com/sahan201/basic-inventory-management-system/internal/core/id"
	"github.com/sahan201/basic-inventory-management-system/internal/core/types"
	"github.com/sahan201/basic-inventory-management-system/internal/domain/purchase"
	"github.com/sahan201/basic-inventory-management-system/internal/infrastructure/http/v1/dto"
)

// PurchaseOrderHandler handles purchase order requests.
type PurchaseOrderHandler struct {
	*BaseHandler
	service *purchase.Service
}

// NewPurchaseOrderHandler creates a purchase order handler.
func NewPurchaseOrderHandler(base *BaseHandler, service *purchase.Service) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{BaseHandler: base, service: service}
}

// Create handles POST /purchase-orders.
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	var req dto.CreatePurchaseOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	supplierID, err := id.Parse(req.SupplierID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid supplierId format"))
		return
	}
	productID, err := id.Parse(req.ProductID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid productId format"))
		return
	}
	unitCost, err := types.NewMoneyFromString(req.UnitCost)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid unitCost format"))
		return
	}

	order, err := h.service.Create(c.Request.Context(), purchase.CreateInput{
		SupplierID: supplierID,
		ProductID:  productID,
		Quantity:   req.Quantity,
		UnitCost:   unitCost,
		Expected:   req.ExpectedDelivery,
		ActorID:    actor.IDFromContext(c.Request.Context()),
		Notes:      req.Notes,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, order)
}

// Receive handles POST /purchase-orders/:id/receive. The status
// transition and the stock increment land in one transaction.
func (h *PurchaseOrderHandler) Receive(c *gin.Context) {
	orderID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	result, err := h.service.Receive(c.Request.Context(), orderID,
		actor.IDFromContext(c.Request.Context()))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// Cancel handles POST /purchase-orders/:id/cancel.
func (h *PurchaseOrderHandler) Cancel(c *gin.Context) {
	orderID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Cancel(c.Request.Context(), orderID,
		actor.IDFromContext(c.Request.Context())); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// Update handles PUT /purchase-orders/:id.
func (h *PurchaseOrderHandler) Update(c *gin.Context) {
	orderID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdatePurchaseOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in := purchase.UpdateInput{
		Quantity: req.Quantity,
		Expected: req.ExpectedDelivery,
		Notes:    req.Notes,
	}
	if req.UnitCost != nil {
		cost, err := types.NewMoneyFromString(*req.UnitCost)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid unitCost format"))
			return
		}
		in.UnitCost = &cost
	}

	order, err := h.service.Update(c.Request.Context(), orderID, in,
		actor.IDFromContext(c.Request.Context()))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, order)
}

// Delete handles DELETE /purchase-orders/:id.
func (h *PurchaseOrderHandler) Delete(c *gin.Context) {
	orderID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), orderID,
		actor.IDFromContext(c.Request.Context())); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// Get handles GET /purchase-orders/:id.
func (h *PurchaseOrderHandler) Get(c *gin.Context) {
	orderID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	order, err := h.service.GetByID(c.Request.Context(), orderID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, order)
}

// List handles GET /purchase-orders.
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	filter := purchase.ListFilter{
		Limit:  h.ParseIntQuery(c, "limit", 100),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if raw := c.Query("status"); raw != "" {
		status := purchase.Status(raw)
		filter.Status = &status
	}
	supplierID, ok := h.ParseOptionalIDQuery(c, "supplierId")
	if !ok {
		return
	}
	filter.SupplierID = supplierID
	productID, ok := h.ParseOptionalIDQuery(c, "productId")
	if !ok {
		return
	}
	filter.ProductID = productID

	orders, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(orders))
}
