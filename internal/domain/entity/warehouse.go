package entity

import "time"

// Warehouse representa una bodega donde se almacena inventario.
// ManagerID y StorekeeperID asignan responsables: el jefe de proyecto que
// solicita para esta bodega y el bodeguero que valida sus transferencias.
type Warehouse struct {
	ID            string
	CompanyID     string
	Code          string
	Name          string
	Address       string
	ManagerID     *string // usuario con rol requester asignado a la bodega
	StorekeeperID *string // usuario con rol storekeeper asignado a la bodega
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
