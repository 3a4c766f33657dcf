package repository

import "github.com/jhoicas/Solicitudes-api/internal/domain/entity"

// B2BCategoryRepository define el puerto de persistencia para tramos B2B (DIP).
// GetByID y los listados cargan los contactos de notificación.
type B2BCategoryRepository interface {
	Create(category *entity.B2BCategory) error
	GetByID(id string) (*entity.B2BCategory, error)
	Update(category *entity.B2BCategory) error
	Delete(id string) error
	// ListActiveByCompany devuelve los tramos activos ordenados por límite inferior.
	ListActiveByCompany(companyID string) ([]*entity.B2BCategory, error)
	ListByCompany(companyID string) ([]*entity.B2BCategory, error)
}

// B2BNotificationLogRepository registra notificaciones de umbral enviadas,
// una por (cliente, tramo, ventana).
type B2BNotificationLogRepository interface {
	Exists(customerID, categoryID, windowKey string) (bool, error)
	Create(log *entity.B2BNotificationLog) error
}
