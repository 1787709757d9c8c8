package entity

import "github.com/shopspring/decimal"

// ProductSummary datos de un producto leídos del microservicio de productos.
// No se persiste ni se cachea; se consulta en cada petición.
type ProductSummary struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
}
