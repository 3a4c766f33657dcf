package b2b

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Solicitudes-api/internal/application/dto"
	"github.com/jhoicas/Solicitudes-api/internal/domain/entity"
	"github.com/jhoicas/Solicitudes-api/internal/domain/repository"
	"github.com/jhoicas/Solicitudes-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// Modos de evaluación de la ventana de gasto.
const (
	EvalModeMTD      = "mtd"
	EvalModeYTD      = "ytd"
	EvalModeLastDays = "last_x_days"
)

// Mailer envía correos de notificación de umbral. Best-effort.
type Mailer interface {
	Send(to []string, subject, body string) error
}

// CategorizeUseCase asigna a cada cliente B2B el tramo de gasto que le
// corresponde según su facturación en la ventana vigente, y notifica a los
// contactos del tramo cuando el avance supera el umbral configurado (una vez
// por cliente, tramo y ventana).
type CategorizeUseCase struct {
	customers  repository.CustomerRepository
	categories repository.B2BCategoryRepository
	spend      repository.CustomerSpendRepository
	notifyLog  repository.B2BNotificationLogRepository
	settings   repository.SettingsRepository
	mailer     Mailer
	log        *logger.Logger
	now        func() time.Time
}

// NewCategorizeUseCase construye el job. Mailer puede ser nil.
func NewCategorizeUseCase(
	customers repository.CustomerRepository,
	categories repository.B2BCategoryRepository,
	spend repository.CustomerSpendRepository,
	notifyLog repository.B2BNotificationLogRepository,
	settings repository.SettingsRepository,
	mailer Mailer,
	log *logger.Logger,
) *CategorizeUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &CategorizeUseCase{
		customers:  customers,
		categories: categories,
		spend:      spend,
		notifyLog:  notifyLog,
		settings:   settings,
		mailer:     mailer,
		log:        log,
		now:        time.Now,
	}
}

// WithClock fija el reloj del job (para tests de ventanas).
func (uc *CategorizeUseCase) WithClock(now func() time.Time) *CategorizeUseCase {
	uc.now = now
	return uc
}

// evalWindow resuelve la ventana de evaluación y su clave de dedup.
func (uc *CategorizeUseCase) evalWindow(now time.Time) (from, to time.Time, key string, err error) {
	mode, err := uc.settings.GetString(repository.ParamB2BEvalMode, EvalModeMTD)
	if err != nil {
		return time.Time{}, time.Time{}, "", err
	}
	switch mode {
	case EvalModeMTD:
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		key = fmt.Sprintf("MTD-%04d-%02d", now.Year(), int(now.Month()))
	case EvalModeYTD:
		from = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
		key = fmt.Sprintf("YTD-%04d", now.Year())
	case EvalModeLastDays:
		days, err := uc.settings.GetInt(repository.ParamB2BLastXDays, 30)
		if err != nil {
			return time.Time{}, time.Time{}, "", err
		}
		if days <= 0 {
			days = 30
		}
		from = now.AddDate(0, 0, -days)
		key = fmt.Sprintf("LAST-%d-%s", days, now.Format("2006-01-02"))
	default:
		return time.Time{}, time.Time{}, "", fmt.Errorf("modo de evaluación b2b desconocido: %q", mode)
	}
	return from, now, key, nil
}

// RunOnce ejecuta una corrida de categorización para la empresa.
func (uc *CategorizeUseCase) RunOnce(ctx context.Context, companyID string) (*dto.B2BRunSummary, error) {
	now := uc.now()
	from, to, windowKey, err := uc.evalWindow(now)
	if err != nil {
		return nil, err
	}
	thresholdPct, err := uc.settings.GetInt(repository.ParamB2BThresholdPct, 80)
	if err != nil {
		return nil, err
	}
	threshold := decimal.NewFromInt(int64(thresholdPct))

	totals, err := uc.spend.TotalsByCustomer(companyID, from, to)
	if err != nil {
		return nil, err
	}
	categories, err := uc.categories.ListActiveByCompany(companyID)
	if err != nil {
		return nil, err
	}
	customers, err := uc.customers.ListB2BByCompany(companyID)
	if err != nil {
		return nil, err
	}

	summary := &dto.B2BRunSummary{WindowFrom: from, WindowTo: to}
	for _, customer := range customers {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}
		summary.Evaluated++

		spend := totals[customer.ID]
		customer.B2BTotalSpend = spend
		customer.B2BCategoryID = nil
		customer.B2BProgressPct = decimal.Zero

		var tier *entity.B2BCategory
		if spend.IsPositive() {
			for _, category := range categories {
				if category.Contains(spend) {
					tier = category
					break
				}
			}
		}
		if tier == nil {
			summary.Uncategorized++
		} else {
			tierID := tier.ID
			customer.B2BCategoryID = &tierID
			customer.B2BProgressPct = tier.ProgressPct(spend)
			summary.Categorized++

			if customer.B2BProgressPct.GreaterThanOrEqual(threshold) {
				notified, err := uc.notifyThreshold(customer, tier, windowKey, now)
				if err != nil {
					uc.log.Warn().Err(err).Str("customer", customer.Name).Msg("no se pudo notificar umbral b2b")
				} else if notified {
					summary.Notified++
				}
			}
		}
		customer.UpdatedAt = now
		if err := uc.customers.Update(customer); err != nil {
			return nil, err
		}
	}

	uc.log.Info().
		Str("company", companyID).
		Str("window", windowKey).
		Int("evaluated", summary.Evaluated).
		Int("categorized", summary.Categorized).
		Int("notified", summary.Notified).
		Msg("corrida de categorización b2b terminada")
	return summary, nil
}

// notifyThreshold envía el correo de umbral a los contactos activos del tramo,
// una sola vez por (cliente, tramo, ventana).
func (uc *CategorizeUseCase) notifyThreshold(customer *entity.Customer, tier *entity.B2BCategory, windowKey string, now time.Time) (bool, error) {
	exists, err := uc.notifyLog.Exists(customer.ID, tier.ID, windowKey)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	var recipients []string
	for _, contact := range tier.Contacts {
		if contact.Notify && contact.Email != "" {
			recipients = append(recipients, contact.Email)
		}
	}
	if len(recipients) == 0 || uc.mailer == nil {
		return false, nil
	}
	subject := fmt.Sprintf("Cliente %s cerca del límite del tramo %s", customer.Name, tier.Name)
	body := fmt.Sprintf(
		"El cliente %s lleva %s de gasto en la ventana vigente (%s%% del tramo %s).",
		customer.Name, customer.B2BTotalSpend.StringFixed(2),
		customer.B2BProgressPct.StringFixed(0), tier.Name,
	)
	if err := uc.mailer.Send(recipients, subject, body); err != nil {
		return false, err
	}
	if err := uc.notifyLog.Create(&entity.B2BNotificationLog{
		ID:         uuid.New().String(),
		CustomerID: customer.ID,
		CategoryID: tier.ID,
		WindowKey:  windowKey,
		CreatedAt:  now,
	}); err != nil {
		return false, err
	}
	customer.B2BLastNotifiedAt = &now
	return true, nil
}
