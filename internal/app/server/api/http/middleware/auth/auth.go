package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/exp/slog"
)

// Claims carries the note owner identity inside the bearer token.
type Claims struct {
	jwt.RegisteredClaims
	OwnerID string `json:"owner_id"`
}

type Auth struct {
	secret   string
	validity time.Duration
	log      *slog.Logger
}

func New(secret string, validity time.Duration, log *slog.Logger) *Auth {
	return &Auth{
		secret:   secret,
		validity: validity,
		log:      log.With("component", "auth_middleware"),
	}
}

type contextKey string

const OwnerIDKey contextKey = "ownerID"

// GenerateToken issues a signed bearer token for the given owner.
func (a *Auth) GenerateToken(ownerID string) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(a.validity)),
		},
		OwnerID: ownerID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(a.secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a bearer token and returns the owner id it carries.
func (a *Auth) ParseToken(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(a.secret), nil
	})
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid || claims.OwnerID == "" {
		return "", fmt.Errorf("invalid token")
	}
	return claims.OwnerID, nil
}

// Middleware rejects requests without a valid bearer token and puts the
// owner id into the request context.
func (a *Auth) Middleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		token := ctx.Header("Authorization")

		if len(token) < 7 || token[:7] != "Bearer " {
			a.unauthorized(ctx)
			return
		}

		ownerID, err := a.ParseToken(token[7:])
		if err != nil {
			a.log.Debug("token rejected", "error", err)
			a.unauthorized(ctx)
			return
		}

		newCtx := WithOwnerID(ctx.Context(), ownerID)
		next(huma.WithContext(ctx, newCtx))
	}
}

func (a *Auth) unauthorized(ctx huma.Context) {
	ctx.SetStatus(http.StatusUnauthorized)
	ctx.SetHeader("Content-Type", "application/json")

	if err := json.NewEncoder(ctx.BodyWriter()).Encode(map[string]string{
		"error": "Unauthorized",
	}); err != nil {
		a.log.Error("failed to write unauthorized response", "error", err)
	}
}

// WithOwnerID returns ctx with the owner id attached, as the middleware
// would have done.
func WithOwnerID(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, OwnerIDKey, ownerID)
}

func GetOwnerID(ctx context.Context) (string, bool) {
	ownerID, ok := ctx.Value(OwnerIDKey).(string)
	return ownerID, ok
}
