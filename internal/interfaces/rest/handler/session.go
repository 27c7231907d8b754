package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pot-code/coursecert/internal/infrastructure/auth"
	"github.com/pot-code/coursecert/internal/infrastructure/driver"
)

// SessionHandler revokes tokens issued by the identity provider
type SessionHandler struct {
	jwtUtil *auth.JWTUtil
	kvStore driver.KeyValueDB
}

func NewSessionHandler(JWTUtil *auth.JWTUtil, KVStore driver.KeyValueDB) *SessionHandler {
	return &SessionHandler{JWTUtil, KVStore}
}

// HandleSignOut blacklist the presented token until it expires
func (sh *SessionHandler) HandleSignOut(c echo.Context) error {
	ju := sh.jwtUtil

	tokenStr, err := ju.ExtractToken(c)
	if err != nil {
		return c.NoContent(http.StatusUnauthorized)
	}
	token, err := ju.Validate(tokenStr)
	if err != nil {
		return c.NoContent(http.StatusUnauthorized)
	}
	if remaining := token.TimeRemaining(); remaining > 0 {
		if err := sh.kvStore.SetEX(c.Request().Context(), tokenStr, "", remaining); err != nil {
			return err
		}
	}
	return c.NoContent(http.StatusNoContent)
}
