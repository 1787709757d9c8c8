package entity

import "time"

// Inventory registro de stock de un producto. ProductID es la única clave.
// Quantity nunca es negativa.
type Inventory struct {
	ProductID int64
	Quantity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}
