package request

import (
	"context"

	"github.com/jhoicas/Solicitudes-api/internal/domain/repository"
)

// TxRepos agrupa los repositorios atados a una misma transacción. El flujo de
// solicitudes toca demasiadas tablas para pasarlos posicionalmente.
type TxRepos struct {
	Requests      repository.PurchaseRequestRepository
	Lines         repository.RequestLineRepository
	Allocations   repository.AllocationRepository
	Pickings      repository.PickingRepository
	Moves         repository.StockMoveRepository
	PurchaseLines repository.PurchaseLineRepository
	Stocks        repository.StockRepository
	Notes         repository.RequestNoteRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el flujo de
// solicitudes: estado, líneas y asignaciones cambian juntos o no cambian.
type TxRunner interface {
	Run(ctx context.Context, fn func(r TxRepos) error) error
}

// Mailer envía correos de notificación. Los envíos son best-effort y ocurren
// después del commit: un fallo solo se registra en el log.
type Mailer interface {
	Send(to []string, subject, body string) error
}
