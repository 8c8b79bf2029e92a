package auth

import (
	"strings"

	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/config"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/models"

	"github.com/gofiber/fiber/v2"
)

const CtxClaimsKey = "claims"

// DeviceIDHeader carries the caller's device id on the public device-bound
// endpoints (attendance check-in/out, SMS verification).
const DeviceIDHeader = "X-DEVICE-ID"

func JWTMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing Authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization header must be 'Bearer <token>'")
		}

		claims, err := ParseToken(cfg.JWTSecret, parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}

		c.Locals(CtxClaimsKey, claims)
		return c.Next()
	}
}

// Claims returns the verified claims set by JWTMiddleware. Handlers behind
// the middleware may assume it succeeds.
func Claims(c *fiber.Ctx) (*JWTCustomClaims, error) {
	claims, ok := c.Locals(CtxClaimsKey).(*JWTCustomClaims)
	if !ok {
		return nil, fiber.NewError(fiber.StatusForbidden, "no role information on request")
	}
	return claims, nil
}

func RequireRole(allowedRoles ...models.EmployeeRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := Claims(c)
		if err != nil {
			return err
		}
		for _, r := range allowedRoles {
			if r == claims.Role {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "insufficient role for this operation")
	}
}

func RequireHeadquarters() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := Claims(c)
		if err != nil {
			return err
		}
		if !claims.Role.IsHeadquarters() {
			return fiber.NewError(fiber.StatusForbidden, "headquarters role required")
		}
		return c.Next()
	}
}

// CheckDevice rejects device-bound public requests whose X-DEVICE-ID header
// does not match the device id in the payload. A mismatch is an
// authorization failure, not a data error.
func CheckDevice(c *fiber.Ctx, payloadDeviceID string) error {
	header := c.Get(DeviceIDHeader)
	if header == "" || header != payloadDeviceID {
		return fiber.NewError(fiber.StatusForbidden, "request device does not match the registered device")
	}
	return nil
}
