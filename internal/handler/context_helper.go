package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/middleware"
	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/models"
	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/service"
	appErrors "github.com/uk-gov-mirror/ministryofjustice.licences/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// actorFromContext describes the caller for audit entries.
func actorFromContext(c *gin.Context) service.Actor {
	actor := service.ActorFromClaims(claimsFromContext(c))
	actor.IPAddress = c.ClientIP()
	actor.UserAgent = c.GetHeader("User-Agent")
	return actor
}

func bookingIDParam(c *gin.Context) (int64, error) {
	raw := c.Param("bookingId")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "invalid booking id "+strconv.Quote(raw))
	}
	return id, nil
}

func boolQuery(c *gin.Context, key string) bool {
	value, err := strconv.ParseBool(c.Query(key))
	return err == nil && value
}

func bindError(err error, msg string) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, msg)
}
