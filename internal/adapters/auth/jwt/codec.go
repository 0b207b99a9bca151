package jwt

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"pet-alert/internal/ports/auth"
)

// Codec implementa auth.TokenCodec con JWT HS256 y secreto compartido.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type sessionClaims struct {
	jwtlib.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

func NewCodec(secret string, ttl time.Duration) *Codec {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Codec{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (c *Codec) Issue(claims auth.Claims) (string, error) {
	if len(c.secret) == 0 {
		return "", errors.New("jwt: secret no configurado")
	}

	now := c.now()
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, sessionClaims{
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   strconv.FormatInt(claims.OwnerID, 10),
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(c.ttl)),
		},
		Email: claims.Email,
		Role:  claims.Role,
	})

	return token.SignedString(c.secret)
}

func (c *Codec) Verify(ctx context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, auth.ErrTokenInvalid
	}

	var parsed sessionClaims
	_, err := jwtlib.ParseWithClaims(token, &parsed, func(t *jwtlib.Token) (any, error) {
		return c.secret, nil
	},
		jwtlib.WithValidMethods([]string{"HS256"}),
		jwtlib.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return auth.Claims{}, auth.ErrTokenExpired
		}
		return auth.Claims{}, auth.ErrTokenInvalid
	}

	ownerID, err := strconv.ParseInt(parsed.Subject, 10, 64)
	if err != nil {
		return auth.Claims{}, auth.ErrTokenInvalid
	}

	return auth.Claims{
		OwnerID: ownerID,
		Email:   parsed.Email,
		Role:    parsed.Role,
	}, nil
}
