package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Solicitudes-api/internal/application/dto"
	"github.com/jhoicas/Solicitudes-api/internal/domain"
	"github.com/jhoicas/Solicitudes-api/internal/domain/entity"
	"github.com/jhoicas/Solicitudes-api/internal/domain/repository"
)

// CustomerUseCase casos de uso CRUD para clientes. Los campos de
// categorización B2B los mantiene el job nocturno, no este CRUD.
type CustomerUseCase struct {
	repo repository.CustomerRepository
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{repo: repo}
}

// Create crea un nuevo cliente.
func (uc *CustomerUseCase) Create(companyID string, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if in.Name == "" || in.TaxID == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	customer := &entity.Customer{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      in.Name,
		TaxID:     in.TaxID,
		Email:     in.Email,
		Phone:     in.Phone,
		IsB2B:     in.IsB2B,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// GetByID obtiene un cliente por ID.
func (uc *CustomerUseCase) GetByID(id string) (*dto.CustomerResponse, error) {
	customer, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, nil
	}
	return toCustomerResponse(customer), nil
}

// Update actualiza los campos presentes del cliente.
func (uc *CustomerUseCase) Update(id string, in dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	customer, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, nil
	}
	if in.Name != nil {
		customer.Name = *in.Name
	}
	if in.Email != nil {
		customer.Email = *in.Email
	}
	if in.Phone != nil {
		customer.Phone = *in.Phone
	}
	if in.IsB2B != nil {
		customer.IsB2B = *in.IsB2B
	}
	customer.UpdatedAt = time.Now()
	if err := uc.repo.Update(customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// List lista clientes de la empresa con paginación.
func (uc *CustomerUseCase) List(companyID string, limit, offset int) (*dto.CustomerListResponse, error) {
	customers, err := uc.repo.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := &dto.CustomerListResponse{
		Items: make([]dto.CustomerResponse, 0, len(customers)),
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}
	for _, c := range customers {
		out.Items = append(out.Items, *toCustomerResponse(c))
	}
	return out, nil
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:             c.ID,
		CompanyID:      c.CompanyID,
		Name:           c.Name,
		TaxID:          c.TaxID,
		Email:          c.Email,
		Phone:          c.Phone,
		IsB2B:          c.IsB2B,
		B2BCategoryID:  c.B2BCategoryID,
		B2BTotalSpend:  c.B2BTotalSpend,
		B2BProgressPct: c.B2BProgressPct,
		CreatedAt:      c.CreatedAt,
	}
}
