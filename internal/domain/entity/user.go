package entity

import (
	"time"

	"github.com/jhoicas/Solicitudes-api/internal/domain/role"
)

// User representa un usuario del sistema (pertenece a una Company).
type User struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         role.Role // admin, manager, requester, storekeeper
	Status       string    // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
