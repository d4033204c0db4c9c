package middleware

import "github.com/labstack/echo/v4"

// PrincipalKey is the echo.Context key under which JWTAuth stores the
// authenticated freelancer id (uint64).
const PrincipalKey = "principal_id"

// PrincipalID returns the authenticated freelancer id, or false when the
// request did not pass through JWTAuth.
func PrincipalID(c echo.Context) (uint64, bool) {
	id, ok := c.Get(PrincipalKey).(uint64)
	if !ok || id == 0 {
		return 0, false
	}
	return id, true
}
