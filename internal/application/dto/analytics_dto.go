package dto

import "time"

// TotalStockValueDTO valor total del inventario (Σ cantidad × precio), dos decimales.
type TotalStockValueDTO struct {
	TotalValue string `json:"total_value"`
}

// CategoryStockDTO total de unidades de una categoría.
type CategoryStockDTO struct {
	CategoryID   string `json:"category_id"`
	CategoryName string `json:"category_name"`
	TotalStock   int64  `json:"total_stock"`
	ProductCount int    `json:"product_count"`
}

// CategoryStockDistributionDTO distribución de stock por categoría.
// ByCategory es el mapa categoría → unidades; Items conserva el detalle ordenado por ID.
type CategoryStockDistributionDTO struct {
	Items      []CategoryStockDTO `json:"items"`
	ByCategory map[string]int64   `json:"by_category"`
}

// StockSummaryDTO resumen de inventario (los cuatro agregados en una respuesta).
type StockSummaryDTO struct {
	TotalStockValue string                       `json:"total_stock_value"`
	OutOfStockCount int                          `json:"out_of_stock_count"`
	LowStockCount   int                          `json:"low_stock_count"`
	Distribution    CategoryStockDistributionDTO `json:"distribution"`
	GeneratedAt     time.Time                    `json:"generated_at"`
}

// TickReportDTO resultado de una revisión de stock bajo.
type TickReportDTO struct {
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Scanned    int       `json:"scanned"`
	Notified   int       `json:"notified"`
	Failed     int       `json:"failed"`
}
