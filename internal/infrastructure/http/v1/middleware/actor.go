package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/sahan201/basic-inventory-management-system/internal/core/actor"
)

// Headers carrying the acting user's identity. Authentication is
// handled upstream; these headers are trusted as-is.
const (
	HeaderActorID       = "X-Actor-ID"
	HeaderActorUsername = "X-Actor-Username"
)

// Actor places the request's acting user into the context so
// services and the audit trail can attribute changes.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		a := actor.Actor{
			ID:       c.GetHeader(HeaderActorID),
			Username: c.GetHeader(HeaderActorUsername),
		}
		if a.ID == "" {
			a = actor.System
		}

		ctx := actor.WithActor(c.Request.Context(), a)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
