// Package stock contiene las reglas puras del motor de stock (servicio de dominio).
package stock

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

// PriceScale cantidad de decimales permitidos en el precio.
const PriceScale = 2

// Límites superiores alineados con las columnas INTEGER y NUMERIC(12,2).
const (
	MaxQuantity  = math.MaxInt32
	MaxThreshold = math.MaxInt32
)

// MaxPrice mayor precio representable en NUMERIC(12,2).
var MaxPrice = decimal.RequireFromString("9999999999.99")

// IsLowStock es la única regla de stock bajo: cantidad <= umbral (inclusiva).
func IsLowStock(p *entity.Product) bool {
	return p.Quantity <= p.LowStockThreshold
}

// IsOutOfStock indica si el producto está agotado.
func IsOutOfStock(p *entity.Product) bool {
	return p.Quantity == 0
}

// ValidateQuantity rechaza cantidades negativas o fuera de rango.
func ValidateQuantity(q int) error {
	if q < 0 || q > MaxQuantity {
		return domain.ErrInvalidInput
	}
	return nil
}

// ValidateThreshold rechaza umbrales negativos o fuera de rango.
func ValidateThreshold(t int) error {
	if t < 0 || t > MaxThreshold {
		return domain.ErrInvalidInput
	}
	return nil
}

// ValidatePrice exige 0 <= precio <= MaxPrice con a lo sumo dos decimales.
func ValidatePrice(p decimal.Decimal) error {
	if p.IsNegative() || p.GreaterThan(MaxPrice) {
		return domain.ErrInvalidInput
	}
	if !p.Equal(p.Round(PriceScale)) {
		return domain.ErrInvalidInput
	}
	return nil
}

// StockValue devuelve cantidad × precio sin pérdida de precisión.
func StockValue(p *entity.Product) decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Quantity)))
}
