package middlewares

import (
	"slices"
	"strings"

	"video_library_service/pkg/logger"
	t_token "video_library_service/pkg/token"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	//QueryToken token in query name
	QueryToken = "auth"

	//CookieToken token in cookie name
	CookieToken = "auth_token"

	//TokenViewerID get viewer form token, set c.locals name
	TokenViewerID = "ViewerID"
	//TokenRole get role form token, set c.locals name
	TokenRole = "role"
	//TokenMaxOrder get level cap form token, set c.locals name
	TokenMaxOrder = "max_order"
)

// tokenFrom 依序從 query、cookie、Authorization header 取 token
func tokenFrom(c *fiber.Ctx) string {
	if tokenStr := c.Query(QueryToken); tokenStr != "" {
		return tokenStr
	}
	if tokenStr := c.Cookies(CookieToken); tokenStr != "" {
		return tokenStr
	}
	return strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
}

// ViewerMiddleware validates an optional JWT. Requests without a token go on
// as guests, an invalid token is rejected.
func ViewerMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := tokenFrom(c)
		if tokenStr == "" {
			c.Locals(TokenRole, string(t_token.RoleGuest))
			return c.Next()
		}

		claims, err := t_token.ParseJWT(tokenStr)
		if err != nil {
			logger.Log.Debug("invalid viewer token", zap.String("path", c.Path()), zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		c.Locals(TokenViewerID, claims.ViewerID)
		c.Locals(TokenRole, claims.Role)
		c.Locals(TokenMaxOrder, claims.MaxOrder)
		return c.Next()
	}
}

// RequireRole 只允許指定角色，需放在 ViewerMiddleware 之後
func RequireRole(roles ...t_token.RoleType) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals(TokenRole).(string)
		if !slices.Contains(roles, t_token.RoleType(role)) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Permission denied",
			})
		}
		return c.Next()
	}
}
