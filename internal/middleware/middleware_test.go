package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/models"
	appErrors "github.com/uk-gov-mirror/ministryofjustice.licences/pkg/errors"
)

type validatorStub struct {
	claims *models.JWTClaims
	err    error
	token  string
}

func (v *validatorStub) ValidateToken(token string) (*models.JWTClaims, error) {
	v.token = token
	return v.claims, v.err
}

type auditStub struct {
	logs []*models.AuditLog
	err  error
}

func (a *auditStub) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	a.logs = append(a.logs, log)
	return a.err
}

type observerStub struct {
	path   string
	status int
}

func (o *observerStub) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	o.path = path
	o.status = status
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/licences/:bookingId", append(handlers, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})...)
	return r
}

func serve(r *gin.Engine, header string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/licences/12?tab=active", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestJWT(t *testing.T) {
	validator := &validatorStub{claims: &models.JWTClaims{Username: "ca.user", Role: models.RoleCA}}
	r := newRouter(JWT(validator))

	assert.Equal(t, http.StatusUnauthorized, serve(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "Basic abc").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "Bearer ").Code)

	w := serve(r, "bearer token-1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "token-1", validator.token)

	validator.err = appErrors.Clone(appErrors.ErrUnauthorized, "expired")
	assert.Equal(t, http.StatusUnauthorized, serve(r, "Bearer token-2").Code)
}

func TestRequireRoles(t *testing.T) {
	claims := &models.JWTClaims{Username: "ro.user", Role: models.RoleRO}
	r := newRouter(JWT(&validatorStub{claims: claims}), RequireRoles(models.RoleCA, models.RoleAdmin))
	assert.Equal(t, http.StatusForbidden, serve(r, "Bearer t").Code)

	claims.Role = models.RoleAdmin
	assert.Equal(t, http.StatusOK, serve(r, "Bearer t").Code)

	assert.Equal(t, http.StatusUnauthorized, serve(newRouter(RequireRoles(models.RoleCA)), "").Code)
}

func TestAuditRecordsSuccessfulRequests(t *testing.T) {
	writer := &auditStub{err: errors.New("db down")}
	claims := &models.JWTClaims{Username: "dm.user", Role: models.RoleDM}
	r := newRouter(JWT(&validatorStub{claims: claims}), Audit(writer, nil, models.AuditActionExport, models.AuditResourceCaseList))

	require.Equal(t, http.StatusOK, serve(r, "Bearer t").Code)
	require.Len(t, writer.logs, 1)
	entry := writer.logs[0]
	assert.Equal(t, "dm.user", *entry.UserID)
	assert.Equal(t, "12", *entry.ResourceID)
	assert.Equal(t, models.AuditActionExport, entry.Action)
	assert.Contains(t, string(entry.NewValues), `"query":"tab=active"`)

	serve(r, "")
	assert.Len(t, writer.logs, 1, "rejected requests are not audited")
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	observer := &observerStub{}
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics(observer))
	r.GET("/licences/:bookingId", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(r, "")
	assert.Equal(t, "/licences/:bookingId", observer.path)
	assert.Equal(t, http.StatusOK, observer.status)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, "unmatched", observer.path)
	assert.Equal(t, http.StatusNotFound, observer.status)
}

func TestSetCacheHit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(WithResponseMeta())
	var meta map[string]interface{}
	r.GET("/caselist", func(c *gin.Context) {
		SetCacheHit(c, true)
		meta = ExtractMeta(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/caselist", nil))
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
	assert.Equal(t, true, meta["cache_hit"])
	assert.Contains(t, meta, "processing_time_ms")
}
