package entity

import "time"

// ChangeEvent señal de "cantidad cambiada" para un producto. Efímero, no se persiste.
type ChangeEvent struct {
	ID          string    `json:"id"`
	ProductID   int64     `json:"producto_id"`
	NewQuantity int       `json:"nueva_cantidad"`
	OccurredAt  time.Time `json:"timestamp"`
}
