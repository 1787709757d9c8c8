package http

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-service/pkg/config"
	"github.com/jhoicas/inventario-service/pkg/jwt"
)

// HeaderAPIKey cabecera con la API key compartida entre microservicios.
const HeaderAPIKey = "X-API-KEY"

// LocalService key de c.Locals con el servicio autenticado.
const LocalService = "service"

// ServiceAuth autentica llamadas de otros servicios: X-API-KEY o Bearer JWT.
// Sin API key ni secreto configurados deja pasar todo (desarrollo local).
func ServiceAuth(cfg config.AuthConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.APIKey == "" && cfg.JWTSecret == "" {
			return c.Next()
		}

		if key := c.Get(HeaderAPIKey); key != "" && cfg.APIKey != "" {
			if subtle.ConstantTimeCompare([]byte(key), []byte(cfg.APIKey)) == 1 {
				c.Locals(LocalService, "api-key")
				return c.Next()
			}
			return unauthorized(c, "API key inválida")
		}

		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" || cfg.JWTSecret == "" {
			return unauthorized(c, "credenciales requeridas")
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return unauthorized(c, "formato: Bearer <token>")
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return unauthorized(c, "token vacío")
		}
		service, err := jwt.Parse(cfg.JWTSecret, cfg.JWTIssuer, tokenString)
		if err != nil {
			return unauthorized(c, "token inválido o expirado")
		}
		c.Locals(LocalService, service)
		return c.Next()
	}
}

// GetService devuelve el servicio autenticado (después de ServiceAuth).
func GetService(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalService).(string)
	return s
}

func unauthorized(c *fiber.Ctx, detail string) error {
	return errorResponse(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "No autorizado", detail)
}
