package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Solicitudes-api/internal/application/dto"
	"github.com/jhoicas/Solicitudes-api/internal/domain"
	"github.com/jhoicas/Solicitudes-api/internal/domain/entity"
	"github.com/jhoicas/Solicitudes-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos solicitables.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un nuevo producto. Devuelve domain.ErrDuplicate si el SKU ya
// existe en la empresa.
func (uc *ProductUseCase) Create(companyID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.SKU == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.UnitOfMeasure == "" {
		in.UnitOfMeasure = "unidad"
	}
	now := time.Now()
	product := &entity.Product{
		ID:            uuid.New().String(),
		CompanyID:     companyID,
		SKU:           in.SKU,
		Name:          in.Name,
		Description:   in.Description,
		Price:         in.Price,
		Cost:          in.Cost,
		UnitOfMeasure: in.UnitOfMeasure,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return toProductResponse(product), nil
}

// Update actualiza los campos presentes del producto.
func (uc *ProductUseCase) Update(id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.Cost != nil {
		product.Cost = *in.Cost
	}
	if in.UnitOfMeasure != nil {
		product.UnitOfMeasure = *in.UnitOfMeasure
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos de la empresa con paginación.
func (uc *ProductUseCase) List(companyID string, limit, offset int) (*dto.ProductListResponse, error) {
	products, err := uc.repo.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := &dto.ProductListResponse{
		Items: make([]dto.ProductResponse, 0, len(products)),
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}
	for _, p := range products {
		out.Items = append(out.Items, *toProductResponse(p))
	}
	return out, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:            p.ID,
		CompanyID:     p.CompanyID,
		SKU:           p.SKU,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		Cost:          p.Cost,
		UnitOfMeasure: p.UnitOfMeasure,
		CreatedAt:     p.CreatedAt,
	}
}
