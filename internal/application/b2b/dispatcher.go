package b2b

import (
	"context"
	"time"

	"github.com/jhoicas/Solicitudes-api/internal/domain/repository"
	"github.com/jhoicas/Solicitudes-api/pkg/logger"
)

// Dispatcher corre la categorización B2B en loop para todas las empresas,
// cancelable por contexto. Se lanza como goroutine desde main y se detiene
// cancelando el contexto en el shutdown.
type Dispatcher struct {
	job       *CategorizeUseCase
	companies repository.CompanyRepository
	log       *logger.Logger

	Interval time.Duration
}

// NewDispatcher construye el dispatcher con el intervalo dado.
func NewDispatcher(job *CategorizeUseCase, companies repository.CompanyRepository, log *logger.Logger, interval time.Duration) *Dispatcher {
	if log == nil {
		log = logger.Nop()
	}
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &Dispatcher{job: job, companies: companies, log: log, Interval: interval}
}

// Run itera hasta que el contexto se cancele: una pasada por todas las
// empresas, luego espera el intervalo.
func (d *Dispatcher) Run(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		d.runOnce(ctx)
		select {
		case <-ctx.Done():
			return
		case <-time.After(d.Interval):
		}
	}
}

func (d *Dispatcher) runOnce(ctx context.Context) {
	const pageSize = 100
	offset := 0
	for {
		companies, err := d.companies.List(pageSize, offset)
		if err != nil {
			d.log.Error().Err(err).Msg("no se pudieron listar empresas para la corrida b2b")
			return
		}
		if len(companies) == 0 {
			return
		}
		for _, company := range companies {
			if ctx.Err() != nil {
				return
			}
			if _, err := d.job.RunOnce(ctx, company.ID); err != nil {
				d.log.Error().Err(err).Str("company", company.ID).Msg("corrida b2b fallida")
			}
		}
		offset += pageSize
	}
}
