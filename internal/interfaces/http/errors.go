package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-service/internal/application/dto"
	"github.com/jhoicas/inventario-service/internal/domain"
	"github.com/jhoicas/inventario-service/pkg/logger"
)

// errorResponse escribe un documento JSON:API de error con un único elemento.
func errorResponse(c *fiber.Ctx, status int, code, title, detail string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Errors: []dto.ErrorObject{{
		Status: strconv.Itoa(status),
		Code:   code,
		Title:  title,
		Detail: detail,
	}}})
}

// writeError traduce errores de dominio a códigos HTTP. Lo no reconocido es 500 y se registra.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	var stockErr *domain.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		return errorResponse(c, fiber.StatusConflict, "INSUFFICIENT_STOCK", "Stock insuficiente", stockErr.Error())
	case errors.Is(err, domain.ErrNotFound):
		return errorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Recurso no encontrado", err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		return errorResponse(c, fiber.StatusBadRequest, "VALIDATION", "Datos inválidos", err.Error())
	case errors.Is(err, domain.ErrConflict):
		return errorResponse(c, fiber.StatusConflict, "CONFLICT", "Conflicto", err.Error())
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		log.Warn().Err(err).Str("path", c.Path()).Msg("microservicio de productos no disponible")
		return errorResponse(c, fiber.StatusServiceUnavailable, "UPSTREAM_UNAVAILABLE",
			"Servicio de productos no disponible", "no se pudo consultar el microservicio de productos")
	default:
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
		return errorResponse(c, fiber.StatusInternalServerError, "INTERNAL", "Error interno", "error interno del servidor")
	}
}
