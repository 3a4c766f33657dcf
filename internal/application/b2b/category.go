package b2b

import (
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Solicitudes-api/internal/application/dto"
	"github.com/jhoicas/Solicitudes-api/internal/domain"
	"github.com/jhoicas/Solicitudes-api/internal/domain/entity"
	"github.com/jhoicas/Solicitudes-api/internal/domain/repository"
	"github.com/jhoicas/Solicitudes-api/internal/domain/role"
	"github.com/shopspring/decimal"
)

// CategoryUseCase CRUD de tramos de gasto B2B. Los tramos activos de una
// empresa no pueden solaparse.
type CategoryUseCase struct {
	categories repository.B2BCategoryRepository
	now        func() time.Time
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(categories repository.B2BCategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{categories: categories, now: time.Now}
}

// Actor identifica al usuario que ejecuta la operación (viene del JWT).
type Actor struct {
	ID        string
	CompanyID string
	Role      role.Role
}

// Create crea un tramo activo validando rango y solapamiento.
func (uc *CategoryUseCase) Create(actor Actor, in dto.CreateB2BCategoryRequest) (*dto.B2BCategoryResponse, error) {
	if !role.Can(actor.Role, role.ManageCategories) {
		return nil, domain.ErrForbidden
	}
	category := &entity.B2BCategory{
		ID:         uuid.New().String(),
		CompanyID:  actor.CompanyID,
		Name:       in.Name,
		Active:     true,
		LowerLimit: in.MinAmount,
		CreatedAt:  uc.now(),
		UpdatedAt:  uc.now(),
	}
	if in.MaxAmount.IsPositive() {
		upper := in.MaxAmount
		category.UpperLimit = &upper
	}
	if err := uc.validateRange(category, ""); err != nil {
		return nil, err
	}
	for _, c := range in.Contacts {
		category.Contacts = append(category.Contacts, &entity.B2BCategoryContact{
			ID:         uuid.New().String(),
			CategoryID: category.ID,
			Name:       c.Name,
			Email:      c.Email,
			Notify:     true,
		})
	}
	if err := uc.categories.Create(category); err != nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

// Update actualiza nombre, rango y contactos de un tramo.
func (uc *CategoryUseCase) Update(actor Actor, id string, in dto.UpdateB2BCategoryRequest) (*dto.B2BCategoryResponse, error) {
	if !role.Can(actor.Role, role.ManageCategories) {
		return nil, domain.ErrForbidden
	}
	category, err := uc.categories.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil || category.CompanyID != actor.CompanyID {
		return nil, domain.ErrNotFound
	}
	category.Name = in.Name
	category.LowerLimit = in.MinAmount
	category.UpperLimit = nil
	if in.MaxAmount.IsPositive() {
		upper := in.MaxAmount
		category.UpperLimit = &upper
	}
	if err := uc.validateRange(category, category.ID); err != nil {
		return nil, err
	}
	category.Contacts = nil
	for _, c := range in.Contacts {
		category.Contacts = append(category.Contacts, &entity.B2BCategoryContact{
			ID:         uuid.New().String(),
			CategoryID: category.ID,
			Name:       c.Name,
			Email:      c.Email,
			Notify:     true,
		})
	}
	category.UpdatedAt = uc.now()
	if err := uc.categories.Update(category); err != nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

// Delete elimina un tramo de la empresa.
func (uc *CategoryUseCase) Delete(actor Actor, id string) error {
	if !role.Can(actor.Role, role.ManageCategories) {
		return domain.ErrForbidden
	}
	category, err := uc.categories.GetByID(id)
	if err != nil {
		return err
	}
	if category == nil || category.CompanyID != actor.CompanyID {
		return domain.ErrNotFound
	}
	return uc.categories.Delete(id)
}

// List lista los tramos de la empresa.
func (uc *CategoryUseCase) List(actor Actor) ([]*dto.B2BCategoryResponse, error) {
	categories, err := uc.categories.ListByCompany(actor.CompanyID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.B2BCategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, toCategoryResponse(c))
	}
	return out, nil
}

// validateRange exige tope superior mayor al inferior y rechaza solapamiento
// con otros tramos activos de la misma empresa.
func (uc *CategoryUseCase) validateRange(category *entity.B2BCategory, excludeID string) error {
	if category.LowerLimit.IsNegative() {
		return domain.ErrInvalidInput
	}
	if category.UpperLimit != nil && !category.UpperLimit.GreaterThan(category.LowerLimit) {
		return domain.ErrInvalidInput
	}
	others, err := uc.categories.ListActiveByCompany(category.CompanyID)
	if err != nil {
		return err
	}
	for _, other := range others {
		if other.ID == excludeID {
			continue
		}
		if category.Overlaps(other) {
			return domain.ErrConflict
		}
	}
	return nil
}

func toCategoryResponse(c *entity.B2BCategory) *dto.B2BCategoryResponse {
	out := &dto.B2BCategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		MinAmount: c.LowerLimit,
		CreatedAt: c.CreatedAt,
	}
	if c.UpperLimit != nil {
		out.MaxAmount = *c.UpperLimit
	} else {
		out.MaxAmount = decimal.Zero
	}
	for _, contact := range c.Contacts {
		out.Contacts = append(out.Contacts, dto.B2BContactInput{Name: contact.Name, Email: contact.Email})
	}
	return out
}
