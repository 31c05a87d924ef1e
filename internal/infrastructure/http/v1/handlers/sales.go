package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/sahan201/basic-inventory-management-system/internal/core/actor"
	"github.com/sahan201/basic-inventory-management-system/internal/core/apperror"
	"github.com/sahan201/basic-inventory-management-system/internal/core/id"
	"github.com/sahan201/basic-inventory-management-system/internal/core/types"
	"github.com/sahan201/basic-inventory-management-system/internal/domain/ledger"
	"github.com/sahan201/basic-inventory-management-system/internal/infrastructure/http/v1/dto"
)

// SalesHandler handles sale movements and their reversals.
type SalesHandler struct {
	*BaseHandler
	coordinator *ledger.Coordinator
}

// NewSalesHandler creates a sales handler.
func NewSalesHandler(base *BaseHandler, coordinator *ledger.Coordinator) *SalesHandler {
	return &SalesHandler{BaseHandler: base, coordinator: coordinator}
}

// Record handles POST /sales.
func (h *SalesHandler) Record(c *gin.Context) {
	var req dto.RecordSaleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	productID, err := id.Parse(req.ProductID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid productId format"))
		return
	}

	in := ledger.ApplyInput{
		ProductID: productID,
		Kind:      ledger.KindSale,
		Quantity:  req.Quantity,
		ActorID:   actor.IDFromContext(c.Request.Context()),
		Note:      req.Note,
	}
	if req.UnitPrice != nil {
		price, err := types.NewMoneyFromString(*req.UnitPrice)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid unitPrice format"))
			return
		}
		in.UnitPrice = &price
	}

	result, err := h.coordinator.ApplyMovement(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, result)
}

// Reverse handles DELETE /sales/:id. The sale entry stays in the
// ledger; a compensating entry restores the stock.
func (h *SalesHandler) Reverse(c *gin.Context) {
	movementID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	result, err := h.coordinator.ReverseMovement(c.Request.Context(), movementID,
		actor.IDFromContext(c.Request.Context()))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// Get handles GET /movements/:id.
func (h *SalesHandler) Get(c *gin.Context) {
	movementID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	m, err := h.coordinator.GetMovement(c.Request.Context(), movementID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, m)
}

// List handles GET /movements.
func (h *SalesHandler) List(c *gin.Context) {
	filter := ledger.Filter{
		Limit:  h.ParseIntQuery(c, "limit", 100),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	productID, ok := h.ParseOptionalIDQuery(c, "productId")
	if !ok {
		return
	}
	filter.ProductID = productID

	if raw := c.Query("kind"); raw != "" {
		kind := ledger.MovementKind(raw)
		if !kind.Valid() {
			h.Error(c, apperror.NewValidation("unknown movement kind").WithDetail("kind", raw))
			return
		}
		filter.Kind = &kind
	}

	if from, ok := h.ParseDateQuery(c, "from"); !ok {
		return
	} else if !from.IsZero() {
		filter.FromDate = &from
	}
	if to, ok := h.ParseDateQuery(c, "to"); !ok {
		return
	} else if !to.IsZero() {
		filter.ToDate = &to
	}

	movements, err := h.coordinator.ListMovements(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(movements))
}
