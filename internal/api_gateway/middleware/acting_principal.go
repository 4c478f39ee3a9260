package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/remitwise-ledger/internal/domain/shared"
)

const (
	// ActingPrincipalHeader carries the host-verified caller identity.
	// Verifying the identity (signatures, sessions) is the gateway host's
	// concern; this service treats the value as opaque.
	ActingPrincipalHeader = "X-Acting-Principal"

	// ActingPrincipalKey is the key used to store the principal in the context
	ActingPrincipalKey = "acting_principal"
)

// ActingPrincipal middleware extracts the caller identity from the request
// header and stores it in the context for handlers to read
func ActingPrincipal() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := shared.Principal(c.GetHeader(ActingPrincipalHeader))
		c.Set(ActingPrincipalKey, principal)
		c.Next()
	}
}

// GetActingPrincipal retrieves the acting principal from the gin context.
// Returns the zero principal when the header was absent.
func GetActingPrincipal(c *gin.Context) shared.Principal {
	if p, exists := c.Get(ActingPrincipalKey); exists {
		if principal, ok := p.(shared.Principal); ok {
			return principal
		}
	}
	return ""
}
