package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrUpstreamUnavailable = errors.New("servicio de productos no disponible")
)

// InsufficientStockError detalla una compra que supera el stock disponible.
// errors.Is(err, ErrInsufficientStock) es true para este tipo.
type InsufficientStockError struct {
	ProductID int64
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s. Disponible: %d, Solicitado: %d", ErrInsufficientStock, e.Available, e.Requested)
}

// Is permite comparar con ErrInsufficientStock.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
