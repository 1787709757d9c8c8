package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-service/internal/application/dto"
	"github.com/jhoicas/inventario-service/internal/application/inventory"
	"github.com/jhoicas/inventario-service/internal/domain/entity"
	"github.com/jhoicas/inventario-service/pkg/logger"
)

// InventoryHandler maneja las peticiones HTTP de inventario (protegido).
type InventoryHandler struct {
	uc  *inventory.UseCase
	log *logger.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.UseCase, log *logger.Logger) *InventoryHandler {
	return &InventoryHandler{uc: uc, log: log}
}

// Availability godoc
// @Summary      Consultar cantidad disponible
// @Description  Combina la información del producto (microservicio de productos) con el stock local.
// @Tags         inventarios
// @Security     ApiKey
// @Produce      json
// @Param        productoId  path  int  true  "ID del producto"
// @Success      200  {object}  dto.DataResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/inventarios/{productoId} [get]
func (h *InventoryHandler) Availability(c *fiber.Ctx) error {
	productID, ok := productIDParam(c)
	if !ok {
		return invalidProductID(c)
	}
	out, err := h.uc.QueryAvailability(c.UserContext(), productID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(resource(productID, out))
}

// GetByProductID godoc
// @Summary      Obtener registro de inventario
// @Tags         inventarios
// @Security     ApiKey
// @Produce      json
// @Param        productoId  path  int  true  "ID del producto"
// @Success      200  {object}  dto.DataResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventarios/{productoId}/registro [get]
func (h *InventoryHandler) GetByProductID(c *fiber.Ctx) error {
	productID, ok := productIDParam(c)
	if !ok {
		return invalidProductID(c)
	}
	inv, err := h.uc.GetInventory(c.UserContext(), productID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(inventoryResource(inv))
}

// Create godoc
// @Summary      Crear inventario inicial
// @Tags         inventarios
// @Security     ApiKey
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInventoryRequest  true  "producto_id y cantidad"
// @Success      201   {object}  dto.DataResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/inventarios [post]
func (h *InventoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInventoryRequest
	if err := c.BodyParser(&in); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Cuerpo inválido", "el cuerpo debe ser JSON válido")
	}
	if in.ProductID == nil || in.Quantity == nil {
		return errorResponse(c, fiber.StatusBadRequest, "VALIDATION", "Datos inválidos", "producto_id y cantidad son requeridos")
	}
	if *in.ProductID <= 0 {
		return invalidProductID(c)
	}
	created, err := h.uc.CreateInventory(c.UserContext(), entity.Inventory{
		ProductID: *in.ProductID,
		Quantity:  *in.Quantity,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inventoryResource(created))
}

// SetQuantity godoc
// @Summary      Fijar cantidad
// @Tags         inventarios
// @Security     ApiKey
// @Produce      json
// @Param        productoId  path   int  true  "ID del producto"
// @Param        cantidad    query  int  true  "Nueva cantidad (>= 0)"
// @Success      200  {object}  dto.DataResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventarios/{productoId} [put]
func (h *InventoryHandler) SetQuantity(c *fiber.Ctx) error {
	productID, ok := productIDParam(c)
	if !ok {
		return invalidProductID(c)
	}
	qty, ok := intQuery(c, "cantidad")
	if !ok {
		return invalidQuery(c, "cantidad")
	}
	inv, err := h.uc.SetQuantity(c.UserContext(), productID, qty)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(inventoryResource(inv))
}

// RecordPurchase godoc
// @Summary      Registrar compra
// @Description  Descuenta cantidadComprada del stock. 409 si el stock no alcanza.
// @Tags         inventarios
// @Security     ApiKey
// @Produce      json
// @Param        productoId        path   int  true  "ID del producto"
// @Param        cantidadComprada  query  int  true  "Unidades compradas (> 0)"
// @Success      200  {object}  dto.DataResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventarios/{productoId}/compra [put]
func (h *InventoryHandler) RecordPurchase(c *fiber.Ctx) error {
	productID, ok := productIDParam(c)
	if !ok {
		return invalidProductID(c)
	}
	qty, ok := intQuery(c, "cantidadComprada")
	if !ok {
		return invalidQuery(c, "cantidadComprada")
	}
	inv, err := h.uc.RecordPurchase(c.UserContext(), productID, qty)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(inventoryResource(inv))
}

// Delete godoc
// @Summary      Eliminar inventario
// @Tags         inventarios
// @Security     ApiKey
// @Param        productoId  path  int  true  "ID del producto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventarios/{productoId} [delete]
func (h *InventoryHandler) Delete(c *fiber.Ctx) error {
	productID, ok := productIDParam(c)
	if !ok {
		return invalidProductID(c)
	}
	if err := h.uc.DeleteInventory(c.UserContext(), productID); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func productIDParam(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("productoId"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func intQuery(c *fiber.Ctx, key string) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

func invalidProductID(c *fiber.Ctx) error {
	return errorResponse(c, fiber.StatusBadRequest, "INVALID_ID", "ID inválido", "productoId debe ser un entero positivo")
}

func invalidQuery(c *fiber.Ctx, key string) error {
	return errorResponse(c, fiber.StatusBadRequest, "VALIDATION", "Datos inválidos", "parámetro "+key+" requerido y entero")
}

func resource(id int64, attrs interface{}) dto.DataResponse {
	return dto.DataResponse{Data: dto.Resource{Type: dto.ResourceTypeInventory, ID: id, Attributes: attrs}}
}

func inventoryResource(inv *entity.Inventory) dto.DataResponse {
	return resource(inv.ProductID, dto.InventoryAttributes{ProductID: inv.ProductID, Quantity: inv.Quantity})
}
