package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/pot-code/coursecert/internal/infrastructure/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memKV struct {
	values map[string]time.Duration
}

func (kv *memKV) SetEX(ctx context.Context, key string, value string, expiration time.Duration) error {
	kv.values[key] = expiration
	return nil
}

func (kv *memKV) Get(ctx context.Context, key string) (string, error) { return "", nil }

func (kv *memKV) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := kv.values[key]
	return ok, nil
}

func (kv *memKV) Ping() error { return nil }

func TestSessionHandler_HandleSignOut(t *testing.T) {
	ju := auth.NewJWTUtil("HS256", "secret", "token")
	kv := &memKV{values: make(map[string]time.Duration)}
	h := NewSessionHandler(ju, kv)
	e := echo.New()

	token, err := ju.Sign(&auth.AppTokenClaims{
		UID:            "u1",
		StandardClaims: jwt.StandardClaims{ExpiresAt: time.Now().Add(time.Hour).Unix()},
	})
	require.NoError(t, err)

	tests := []httpTest{
		{name: "no token", wantCode: http.StatusUnauthorized},
		{name: "garbage", body: []byte("not-a-token"), wantCode: http.StatusUnauthorized},
		{name: "revoked", body: []byte(token), wantCode: http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/api/v1/session/sign-out", nil)
			if len(tt.body) > 0 {
				req.Header.Set(echo.HeaderAuthorization, "Bearer "+string(tt.body))
			}
			rec := httptest.NewRecorder()
			require.NoError(t, h.HandleSignOut(e.NewContext(req, rec)))
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}

	ttl, ok := kv.values[token]
	assert.True(t, ok)
	assert.InDelta(t, time.Hour.Seconds(), ttl.Seconds(), 5)
}
