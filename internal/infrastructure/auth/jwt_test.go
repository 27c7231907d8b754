package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClaims(uid string, ttl time.Duration) *AppTokenClaims {
	return &AppTokenClaims{
		UID:  uid,
		Name: "Selam",
		Role: "student",
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(ttl).Unix(),
		},
	}
}

func TestJWTUtilSignAndValidate(t *testing.T) {
	ju := NewJWTUtil("HS256", "secret", "token")

	tokenStr, err := ju.Sign(newClaims("u1", time.Hour))
	require.NoError(t, err)

	claims, err := ju.Validate(tokenStr)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UID)
	assert.Equal(t, "student", claims.Role)
	assert.True(t, claims.TimeRemaining() > 59*time.Minute)
}

func TestJWTUtilValidateRejects(t *testing.T) {
	ju := NewJWTUtil("HS256", "secret", "token")

	expired, _ := ju.Sign(newClaims("u1", -time.Minute))
	otherSecret, _ := NewJWTUtil("HS256", "other", "token").Sign(newClaims("u1", time.Hour))
	otherMethod, _ := NewJWTUtil("HS512", "secret", "token").Sign(newClaims("u1", time.Hour))
	noUID, _ := ju.Sign(newClaims("", time.Hour))

	for name, tokenStr := range map[string]string{
		"expired":      expired,
		"other secret": otherSecret,
		"other method": otherMethod,
		"no uid":       noUID,
		"garbage":      "not-a-token",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ju.Validate(tokenStr)
			assert.Error(t, err)
		})
	}
}

func TestJWTUtilExtractToken(t *testing.T) {
	ju := NewJWTUtil("HS256", "secret", "token")
	e := echo.New()

	tests := []struct {
		name    string
		prepare func(r *http.Request)
		want    string
		wantErr bool
	}{
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "token", Value: "from-cookie"}) }, "from-cookie", false},
		{"bearer", func(r *http.Request) { r.Header.Set(echo.HeaderAuthorization, "Bearer from-header") }, "from-header", false},
		{"cookie wins", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: "token", Value: "from-cookie"})
			r.Header.Set(echo.HeaderAuthorization, "Bearer from-header")
		}, "from-cookie", false},
		{"basic auth ignored", func(r *http.Request) { r.Header.Set(echo.HeaderAuthorization, "Basic abc") }, "", true},
		{"nothing", func(r *http.Request) {}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.prepare(req)
			c := e.NewContext(req, httptest.NewRecorder())

			got, err := ju.ExtractToken(c)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNoToken)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJWTUtilContextToken(t *testing.T) {
	ju := NewJWTUtil("HS256", "secret", "token")
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	assert.Nil(t, ju.GetContextToken(c))
	claims := newClaims("u1", time.Hour)
	ju.SetContextToken(c, claims)
	assert.Same(t, claims, ju.GetContextToken(c))
}
