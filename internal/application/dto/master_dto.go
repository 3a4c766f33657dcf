package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCompanyRequest entrada para crear una empresa.
type CreateCompanyRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	TaxID   string `json:"tax_id" validate:"required,max=20"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email" validate:"omitempty,email"`
}

// CompanyResponse salida de una empresa.
type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// CompanyListResponse listado paginado de empresas.
type CompanyListResponse struct {
	Items []CompanyResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	SKU           string          `json:"sku" validate:"required,max=50"`
	Name          string          `json:"name" validate:"required,max=200"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	Cost          decimal.Decimal `json:"cost"`
	UnitOfMeasure string          `json:"unit_of_measure"`
}

// UpdateProductRequest entrada para actualizar un producto (campos opcionales).
type UpdateProductRequest struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	Cost          *decimal.Decimal `json:"cost"`
	UnitOfMeasure *string          `json:"unit_of_measure"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID            string          `json:"id"`
	CompanyID     string          `json:"company_id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	Cost          decimal.Decimal `json:"cost"`
	UnitOfMeasure string          `json:"unit_of_measure"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ProductListResponse listado paginado de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// CreateWarehouseRequest entrada para crear una bodega.
type CreateWarehouseRequest struct {
	Code          string  `json:"code" validate:"required,max=20"`
	Name          string  `json:"name" validate:"required,max=200"`
	Address       string  `json:"address"`
	ManagerID     *string `json:"manager_id"`
	StorekeeperID *string `json:"storekeeper_id"`
}

// UpdateWarehouseRequest entrada para actualizar una bodega (campos opcionales).
type UpdateWarehouseRequest struct {
	Name          *string `json:"name"`
	Address       *string `json:"address"`
	ManagerID     *string `json:"manager_id"`
	StorekeeperID *string `json:"storekeeper_id"`
}

// WarehouseResponse salida de una bodega.
type WarehouseResponse struct {
	ID            string    `json:"id"`
	CompanyID     string    `json:"company_id"`
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	Address       string    `json:"address"`
	ManagerID     *string   `json:"manager_id,omitempty"`
	StorekeeperID *string   `json:"storekeeper_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// WarehouseListResponse listado paginado de bodegas.
type WarehouseListResponse struct {
	Items []WarehouseResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}

// CreateCustomerRequest entrada para crear un cliente.
type CreateCustomerRequest struct {
	Name  string `json:"name" validate:"required,max=200"`
	TaxID string `json:"tax_id" validate:"required,max=20"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone"`
	IsB2B bool   `json:"is_b2b"`
}

// UpdateCustomerRequest entrada para actualizar un cliente (campos opcionales).
type UpdateCustomerRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
	IsB2B *bool   `json:"is_b2b"`
}

// CustomerResponse salida de un cliente, incluida su categorización B2B vigente.
type CustomerResponse struct {
	ID             string          `json:"id"`
	CompanyID      string          `json:"company_id"`
	Name           string          `json:"name"`
	TaxID          string          `json:"tax_id"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	IsB2B          bool            `json:"is_b2b"`
	B2BCategoryID  *string         `json:"b2b_category_id,omitempty"`
	B2BTotalSpend  decimal.Decimal `json:"b2b_total_spend"`
	B2BProgressPct decimal.Decimal `json:"b2b_progress_pct"`
	CreatedAt      time.Time       `json:"created_at"`
}

// CustomerListResponse listado paginado de clientes.
type CustomerListResponse struct {
	Items []CustomerResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
