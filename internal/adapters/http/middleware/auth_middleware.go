package middleware

import (
	"strings"

	"pharmasave/internal/config"
	"pharmasave/internal/pkg/jwt"
	"pharmasave/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware verifies the bearer credential and resolves the acting
// identity into request locals
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var accessToken string

		// 1. Authorization header first
		authHeader := c.Get("Authorization")
		if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
			accessToken = strings.TrimPrefix(authHeader, "Bearer ")
		}

		// 2. Cookie fallback
		if accessToken == "" {
			accessToken = c.Cookies("access_token")
		}

		// 3. No token found
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		// 4. Validate token
		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		// 5. Set caller identity in context
		c.Locals("userID", claims.UserID)
		c.Locals("name", claims.Name)
		c.Locals("email", claims.Email)
		c.Locals("role", claims.Role)

		return c.Next()
	}
}
