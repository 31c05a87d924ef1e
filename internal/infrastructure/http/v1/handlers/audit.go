package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/sahan201/basic-inventory-management-system/internal/infrastructure/http/v1/dto"
	"github.com/sahan201/basic-inventory-management-system/internal/infrastructure/storage/postgres"
)

// AuditHandler exposes the audit trail of an entity.
type AuditHandler struct {
	*BaseHandler
	store *postgres.AuditStore
}

// NewAuditHandler creates an audit handler.
func NewAuditHandler(base *BaseHandler, store *postgres.AuditStore) *AuditHandler {
	return &AuditHandler{BaseHandler: base, store: store}
}

// ListByEntity handles GET /audit/:entityType/:id.
func (h *AuditHandler) ListByEntity(c *gin.Context) {
	entityID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	entries, err := h.store.ListByEntity(c.Request.Context(),
		c.Param("entityType"), entityID, h.ParseIntQuery(c, "limit", 100))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(entries))
}
