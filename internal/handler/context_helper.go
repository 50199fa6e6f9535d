package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/YasmaniJob/beeclass/internal/middleware"
	"github.com/YasmaniJob/beeclass/internal/models"
	appErrors "github.com/YasmaniJob/beeclass/pkg/errors"
	"github.com/YasmaniJob/beeclass/pkg/notify"
	"github.com/YasmaniJob/beeclass/pkg/response"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		return nil
	}
	return claims
}

func actorID(c *gin.Context) string {
	if claims := claimsFromContext(c); claims != nil {
		return claims.UserID()
	}
	return ""
}

// notifyingContext attaches a fresh collector to the request context so the notifications an
// operation emits can be returned with the response.
func notifyingContext(c *gin.Context) (context.Context, *notify.Collector) {
	collector := notify.NewCollector()
	return notify.WithNotifier(c.Request.Context(), collector), collector
}

func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "el cuerpo de la solicitud no es válido"))
		return false
	}
	return true
}
