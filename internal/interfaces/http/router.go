package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-service/internal/application/inventory"
	"github.com/jhoicas/inventario-service/pkg/config"
	"github.com/jhoicas/inventario-service/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Inventory *inventory.UseCase
	Auth      config.AuthConfig
	Log       *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}

	api := app.Group("/api", ServiceAuth(deps.Auth))

	inventarios := api.Group("/inventarios")
	h := NewInventoryHandler(deps.Inventory, log.Named("http"))
	inventarios.Post("/", h.Create)
	inventarios.Get("/:productoId", h.Availability)
	inventarios.Get("/:productoId/registro", h.GetByProductID)
	inventarios.Put("/:productoId", h.SetQuantity)
	inventarios.Put("/:productoId/compra", h.RecordPurchase)
	inventarios.Delete("/:productoId", h.Delete)
}
