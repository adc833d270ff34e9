// internal/interfaces/http/handlers/session.go
package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/your-org/foodorder-backend/internal/interfaces/http/middleware"
)

// resolveSessionID determines which cart/checkout session a request
// belongs to. Authenticated users get a stable per-user session; guests
// are tracked by an X-Session-ID header, minted here on first contact
// and echoed back so the client can persist it.
func resolveSessionID(c *gin.Context) string {
	if userID, ok := middleware.GetUserIDFromContext(c); ok {
		return fmt.Sprintf("user:%d", userID)
	}

	sessionID := c.GetHeader("X-Session-ID")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	c.Header("X-Session-ID", sessionID)
	return sessionID
}
