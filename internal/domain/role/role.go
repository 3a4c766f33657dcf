// Package role define los roles de la aplicación y sus capacidades como un
// tipo enumerado verificable en tests, sin capa de seguridad externa.
package role

// Role rol de un usuario dentro de una empresa.
type Role string

const (
	Admin       Role = "admin"       // administrador de solicitudes: todo permitido
	Manager     Role = "manager"     // jefe de bodega: aprueba y valida, no crea solicitudes
	Requester   Role = "requester"   // jefe de proyecto: crea solicitudes (sujeto a cupo semanal)
	Storekeeper Role = "storekeeper" // bodeguero: solo lectura, valida transferencias a su bodega
)

// Capability acción de negocio sujeta a rol.
type Capability string

const (
	CreateRequest       Capability = "create_request"
	ApproveRequest      Capability = "approve_request"
	RejectRequest       Capability = "reject_request"
	HoldRequest         Capability = "hold_request"
	ValidateTransferAny Capability = "validate_transfer_any" // validar cualquier transferencia interna
	ManageCategories    Capability = "manage_categories"
	ManagePettyCash     Capability = "manage_petty_cash"
)

// capabilities por rol. Admin se trata aparte: siempre puede.
var capabilities = map[Role]map[Capability]bool{
	Manager: {
		ApproveRequest:      true,
		RejectRequest:       true,
		HoldRequest:         true,
		ValidateTransferAny: true,
	},
	Requester: {
		CreateRequest: true,
		HoldRequest:   true,
	},
	Storekeeper: {},
}

// Valid indica si el string corresponde a un rol conocido.
func Valid(r Role) bool {
	switch r {
	case Admin, Manager, Requester, Storekeeper:
		return true
	}
	return false
}

// Can responde si el rol tiene la capacidad dada.
func Can(r Role, c Capability) bool {
	if r == Admin {
		return true
	}
	caps, ok := capabilities[r]
	if !ok {
		return false
	}
	return caps[c]
}
