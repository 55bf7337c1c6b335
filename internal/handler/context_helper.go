package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/snehn77/Editor/internal/middleware"
	"github.com/snehn77/Editor/internal/models"
	"github.com/snehn77/Editor/internal/service"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	return middleware.ClaimsFromContext(c)
}

// actingUser resolves who is performing the request: verified claims win over
// a name supplied in the payload.
func actingUser(c *gin.Context, supplied string) string {
	return service.ResolveUsername(claimsFromContext(c), supplied)
}
