package auth

import (
	"context"
	"os"

	"github.com/golang-jwt/jwt/v4"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"

	XUserNameHeader = "X-User-Name"
	XUserRoleHeader = "X-User-Role"
)

var JWTKey = []byte(getEnv("JWT_KEY", "secret"))

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

type Profile struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

type Claims struct {
	jwt.RegisteredClaims
	Profile Profile `json:"profile"`
}

type ctxKey struct{}

type authInfo struct {
	username string
	role     string
}

func SetAuthContext(ctx context.Context, username, role string) context.Context {
	return context.WithValue(ctx, ctxKey{}, authInfo{username: username, role: role})
}

// FromContext returns the authenticated username and role.
func FromContext(ctx context.Context) (username, role string, ok bool) {
	info, ok := ctx.Value(ctxKey{}).(authInfo)
	if !ok {
		return "", "", false
	}
	return info.username, info.role, true
}

func IsAdmin(ctx context.Context) bool {
	_, role, ok := FromContext(ctx)
	return ok && role == RoleAdmin
}
