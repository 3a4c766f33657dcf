package repository

import "github.com/jhoicas/Solicitudes-api/internal/domain/entity"

// CustomerRepository define el puerto de persistencia para Customer (DIP).
type CustomerRepository interface {
	Create(customer *entity.Customer) error
	GetByID(id string) (*entity.Customer, error)
	Update(customer *entity.Customer) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.Customer, error)
	// ListB2BByCompany devuelve los clientes marcados B2B (candidatos del job
	// de categorización).
	ListB2BByCompany(companyID string) ([]*entity.Customer, error)
}
