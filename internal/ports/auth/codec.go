package auth

import (
	"context"
	"errors"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// TokenCodec firma y verifica tokens de sesión. La implementación concreta
// (JWT HS256) vive en adapters; el dominio solo ve esta interfaz.
type TokenCodec interface {
	Issue(claims Claims) (string, error)
	Verify(ctx context.Context, token string) (Claims, error)
}
