package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Solicitudes-api/internal/application/dto"
	"github.com/jhoicas/Solicitudes-api/internal/domain"
	"github.com/jhoicas/Solicitudes-api/internal/domain/entity"
	"github.com/jhoicas/Solicitudes-api/internal/domain/repository"
	"github.com/jhoicas/Solicitudes-api/internal/domain/role"
)

// WarehouseUseCase casos de uso CRUD para bodegas, incluida la asignación de
// responsables (jefe de proyecto y bodeguero).
type WarehouseUseCase struct {
	repo  repository.WarehouseRepository
	users repository.UserRepository
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(repo repository.WarehouseRepository, users repository.UserRepository) *WarehouseUseCase {
	return &WarehouseUseCase{repo: repo, users: users}
}

// Create crea una nueva bodega con sus responsables.
func (uc *WarehouseUseCase) Create(companyID string, in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	if in.Code == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.checkAssignee(companyID, in.StorekeeperID, role.Storekeeper); err != nil {
		return nil, err
	}
	if err := uc.checkAssignee(companyID, in.ManagerID, ""); err != nil {
		return nil, err
	}
	now := time.Now()
	warehouse := &entity.Warehouse{
		ID:            uuid.New().String(),
		CompanyID:     companyID,
		Code:          in.Code,
		Name:          in.Name,
		Address:       in.Address,
		ManagerID:     in.ManagerID,
		StorekeeperID: in.StorekeeperID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(warehouse); err != nil {
		return nil, err
	}
	return toWarehouseResponse(warehouse), nil
}

// GetByID obtiene una bodega por ID.
func (uc *WarehouseUseCase) GetByID(id string) (*dto.WarehouseResponse, error) {
	warehouse, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, nil
	}
	return toWarehouseResponse(warehouse), nil
}

// Update actualiza los campos presentes de la bodega.
func (uc *WarehouseUseCase) Update(id string, in dto.UpdateWarehouseRequest) (*dto.WarehouseResponse, error) {
	warehouse, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, nil
	}
	if in.Name != nil {
		warehouse.Name = *in.Name
	}
	if in.Address != nil {
		warehouse.Address = *in.Address
	}
	if in.ManagerID != nil {
		if err := uc.checkAssignee(warehouse.CompanyID, in.ManagerID, ""); err != nil {
			return nil, err
		}
		warehouse.ManagerID = in.ManagerID
	}
	if in.StorekeeperID != nil {
		if err := uc.checkAssignee(warehouse.CompanyID, in.StorekeeperID, role.Storekeeper); err != nil {
			return nil, err
		}
		warehouse.StorekeeperID = in.StorekeeperID
	}
	warehouse.UpdatedAt = time.Now()
	if err := uc.repo.Update(warehouse); err != nil {
		return nil, err
	}
	return toWarehouseResponse(warehouse), nil
}

// List lista bodegas de la empresa con paginación.
func (uc *WarehouseUseCase) List(companyID string, limit, offset int) (*dto.WarehouseListResponse, error) {
	warehouses, err := uc.repo.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := &dto.WarehouseListResponse{
		Items: make([]dto.WarehouseResponse, 0, len(warehouses)),
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}
	for _, w := range warehouses {
		out.Items = append(out.Items, *toWarehouseResponse(w))
	}
	return out, nil
}

// checkAssignee valida que el responsable exista en la empresa y, si se exige
// un rol, que lo tenga.
func (uc *WarehouseUseCase) checkAssignee(companyID string, userID *string, required role.Role) error {
	if userID == nil || *userID == "" {
		return nil
	}
	user, err := uc.users.GetByID(*userID)
	if err != nil {
		return err
	}
	if user == nil || user.CompanyID != companyID {
		return domain.ErrUserNotFound
	}
	if required != "" && user.Role != required {
		return domain.ErrInvalidInput
	}
	return nil
}

func toWarehouseResponse(w *entity.Warehouse) *dto.WarehouseResponse {
	return &dto.WarehouseResponse{
		ID:            w.ID,
		CompanyID:     w.CompanyID,
		Code:          w.Code,
		Name:          w.Name,
		Address:       w.Address,
		ManagerID:     w.ManagerID,
		StorekeeperID: w.StorekeeperID,
		CreatedAt:     w.CreatedAt,
	}
}
