package dto

import (
	"github.com/shopspring/decimal"
)

// ResourceTypeInventory valor de "type" en los documentos JSON:API del servicio.
const ResourceTypeInventory = "inventarios"

// AvailabilityResponse modelo de lectura combinado: producto remoto + stock local.
type AvailabilityResponse struct {
	ProductID          int64           `json:"producto_id"`
	ProductName        string          `json:"producto_nombre"`
	ProductDescription string          `json:"producto_descripcion"`
	ProductPrice       decimal.Decimal `json:"producto_precio"`
	QuantityAvailable  int             `json:"cantidad_disponible"`
	IsAvailable        bool            `json:"disponible"`
	ExistsInInventory  bool            `json:"existe_en_inventario"`
}

// InventoryAttributes atributos de un registro de inventario en respuestas.
type InventoryAttributes struct {
	ProductID int64 `json:"producto_id"`
	Quantity  int   `json:"cantidad"`
}

// CreateInventoryRequest body para POST /api/inventarios.
type CreateInventoryRequest struct {
	ProductID *int64 `json:"producto_id"`
	Quantity  *int   `json:"cantidad"`
}
