package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/nileshswami544-code/freelancerpayment/internal/apperr"
)

// TokenVerifier resolves a raw session token to the principal it was issued
// for.  auth.Service satisfies it.
type TokenVerifier interface {
	Verify(raw string) (uint64, error)
}

const bearerScheme = "Bearer"

// JWTAuth returns an Echo middleware that requires a Bearer session token and
// stores the verified principal id in the context under PrincipalKey.  The
// scheme is matched case-insensitively.  A request without a token fails with
// 401; a bad or expired token with 403.
// Errors are returned to the central error handler rather than written here.
func JWTAuth(v TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			scheme, raw, found := strings.Cut(c.Request().Header.Get(echo.HeaderAuthorization), " ")
			if !found || !strings.EqualFold(scheme, bearerScheme) {
				return apperr.Auth(apperr.ReasonMissing)
			}
			raw = strings.TrimSpace(raw)
			if raw == "" {
				return apperr.Auth(apperr.ReasonMissing)
			}

			id, err := v.Verify(raw)
			if err != nil {
				return err
			}
			c.Set(PrincipalKey, id)
			return next(c)
		}
	}
}
