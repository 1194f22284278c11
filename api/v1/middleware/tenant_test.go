package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lnk_domains/internal/auth"
)

func newTenantRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami", TenantRequired(), func(c *gin.Context) {
		c.String(http.StatusOK, UserID(c)+"/"+TeamID(c))
	})
	return r
}

func serve(r *gin.Engine, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTenantRequired_Headers(t *testing.T) {
	w := serve(newTenantRouter(), map[string]string{HeaderUserID: "u1", HeaderTeamID: "t1"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1/t1", w.Body.String())
}

func TestTenantRequired_Missing(t *testing.T) {
	w := serve(newTenantRouter(), map[string]string{HeaderUserID: "u1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"code":1001`)
}

func TestTenantRequired_BearerToken(t *testing.T) {
	auth.InitJWT("tenant-secret")
	t.Cleanup(func() { auth.InitJWT("") })

	token, err := auth.GenerateToken("u2", "t2", time.Now().Add(time.Hour), "lnkday")
	require.NoError(t, err)

	w := serve(newTenantRouter(), map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u2/t2", w.Body.String())
}

func TestTenantRequired_BadTokens(t *testing.T) {
	auth.InitJWT("tenant-secret")
	t.Cleanup(func() { auth.InitJWT("") })

	expired, err := auth.GenerateToken("u2", "t2", time.Now().Add(-time.Hour), "lnkday")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"expired", "Bearer " + expired, `"code":1003`},
		{"garbage", "Bearer nope", `"code":1002`},
		{"scheme", "Basic abc", `"code":1001`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(newTenantRouter(), map[string]string{"Authorization": tt.header})
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), tt.code)
		})
	}
}
