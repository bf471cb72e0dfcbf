package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-users-api/internal/domain/entity"
	"github.com/oksasatya/go-ddd-users-api/internal/infrastructure/token"
	"github.com/oksasatya/go-ddd-users-api/pkg/helpers"
)

func init() { gin.SetMode(gin.TestMode) }

func newProtectedEngine(tokens TokenParser) *gin.Engine {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/me", Auth(tokens), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"id":    c.GetString(CtxUserIDKey),
			"email": c.GetString(CtxUserEmailKey),
			"role":  c.GetString(CtxUserRoleKey),
		})
	})
	return r
}

func issue(t *testing.T, tokens *token.Issuer) string {
	t.Helper()
	id, err := tokens.CreateToken(entity.AuthenticatedIdentity{ID: "u1", Email: "a@example.com", Role: "admin"})
	require.NoError(t, err)
	return id.AccessToken
}

func TestAuthAcceptsBearerHeader(t *testing.T) {
	tokens := token.NewIssuer(helpers.NewJWTManager("0123456789abcdef0123456789abcdef", "iss", "aud", time.Hour))
	r := newProtectedEngine(tokens)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+issue(t, tokens))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"u1","email":"a@example.com","role":"admin"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestAuthFallsBackToCookie(t *testing.T) {
	tokens := token.NewIssuer(helpers.NewJWTManager("0123456789abcdef0123456789abcdef", "iss", "aud", time.Hour))
	r := newProtectedEngine(tokens)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: helpers.AccessTokenCookie, Value: issue(t, tokens)})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthRejects(t *testing.T) {
	tokens := token.NewIssuer(helpers.NewJWTManager("0123456789abcdef0123456789abcdef", "iss", "aud", time.Hour))
	other := token.NewIssuer(helpers.NewJWTManager("ffffffffffffffffffffffffffffffff", "iss", "aud", time.Hour))
	r := newProtectedEngine(tokens)

	tests := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"wrong scheme", "Basic abc"},
		{"foreign signature", "Bearer " + issue(t, other)},
		{"garbage", "Bearer not-a-token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), `"success":false`)
		})
	}
}

func TestRequestIDReusesIncomingHeader(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	const id = "6f1c2a4e-6a0b-4e53-9d0e-6a5b0f4c7e21"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, id)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, id, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "<script>")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "<script>", w.Body.String())
}
