package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Solicitudes-api/internal/domain/entity"
	"github.com/jhoicas/Solicitudes-api/internal/domain/repository"
)

var _ repository.PettyCashRepository = (*PettyCashRepo)(nil)

// PettyCashRepo implementación de PettyCashRepository (usable con pool o tx).
// Los montos derivados no se persisten: se recalculan desde las líneas.
type PettyCashRepo struct {
	q Querier
}

// NewPettyCashRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPettyCashRepository(q Querier) *PettyCashRepo {
	return &PettyCashRepo{q: q}
}

const pettyCashColumns = `id, company_id, name, state, custodian_id, journal_name, active, created_at, updated_at`

// Create persiste una caja menor.
func (r *PettyCashRepo) Create(pettyCash *entity.PettyCash) error {
	query := `
		INSERT INTO petty_cash (` + pettyCashColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		pettyCash.ID, pettyCash.CompanyID, pettyCash.Name, pettyCash.State,
		pettyCash.CustodianID, pettyCash.JournalName, pettyCash.Active,
		pettyCash.CreatedAt, pettyCash.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert petty cash: %w", err)
	}
	return nil
}

// GetByID obtiene la caja con sus líneas de asignación y gasto.
func (r *PettyCashRepo) GetByID(id string) (*entity.PettyCash, error) {
	query := `SELECT ` + pettyCashColumns + ` FROM petty_cash WHERE id = $1`
	box, err := scanPettyCash(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get petty cash: %w", err)
	}
	if err := r.loadLines(box); err != nil {
		return nil, err
	}
	return box, nil
}

// Update actualiza la cabecera de la caja.
func (r *PettyCashRepo) Update(pettyCash *entity.PettyCash) error {
	query := `
		UPDATE petty_cash SET name = $2, state = $3, custodian_id = $4, journal_name = $5,
			active = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		pettyCash.ID, pettyCash.Name, pettyCash.State, pettyCash.CustodianID,
		pettyCash.JournalName, pettyCash.Active, pettyCash.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update petty cash: %w", err)
	}
	return nil
}

// ListByCompany lista las cajas de la empresa con sus líneas.
func (r *PettyCashRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.PettyCash, error) {
	query := `SELECT ` + pettyCashColumns + `
		FROM petty_cash WHERE company_id = $1 ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list petty cash: %w", err)
	}
	defer rows.Close()
	var list []*entity.PettyCash
	for rows.Next() {
		box, err := scanPettyCash(rows)
		if err != nil {
			return nil, fmt.Errorf("scan petty cash: %w", err)
		}
		list = append(list, box)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, box := range list {
		if err := r.loadLines(box); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// AddLine persiste una línea de asignación o gasto.
func (r *PettyCashRepo) AddLine(line *entity.PettyCashLine) error {
	query := `
		INSERT INTO petty_cash_lines (id, petty_cash_id, kind, date, amount, description, reference, created_by_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.PettyCashID, line.Kind, line.Date, line.Amount,
		line.Description, line.Reference, line.CreatedByID, line.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert petty cash line: %w", err)
	}
	return nil
}

// ListLines filtra líneas para el reporte: custodianID y year en cero significan sin filtro.
func (r *PettyCashRepo) ListLines(companyID, custodianID string, year int) ([]*entity.PettyCashLine, error) {
	query := `
		SELECT l.id, l.petty_cash_id, l.kind, l.date, l.amount, l.description, l.reference, l.created_by_id, l.created_at
		FROM petty_cash_lines l
		JOIN petty_cash p ON p.id = l.petty_cash_id
		WHERE p.company_id = $1
			AND ($2 = '' OR p.custodian_id = $2)
			AND ($3 = 0 OR EXTRACT(YEAR FROM l.date) = $3)
		ORDER BY l.date, l.created_at`
	rows, err := r.q.Query(context.Background(), query, companyID, custodianID, year)
	if err != nil {
		return nil, fmt.Errorf("list petty cash lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.PettyCashLine
	for rows.Next() {
		line, err := scanPettyCashLine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan petty cash line: %w", err)
		}
		list = append(list, line)
	}
	return list, rows.Err()
}

func (r *PettyCashRepo) loadLines(box *entity.PettyCash) error {
	rows, err := r.q.Query(context.Background(), `
		SELECT id, petty_cash_id, kind, date, amount, description, reference, created_by_id, created_at
		FROM petty_cash_lines WHERE petty_cash_id = $1 ORDER BY date, created_at`, box.ID)
	if err != nil {
		return fmt.Errorf("list petty cash lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		line, err := scanPettyCashLine(rows)
		if err != nil {
			return fmt.Errorf("scan petty cash line: %w", err)
		}
		if line.Kind == entity.PettyCashLineAllocation {
			box.AllocationLines = append(box.AllocationLines, line)
		} else {
			box.ExpenseLines = append(box.ExpenseLines, line)
		}
	}
	return rows.Err()
}

func scanPettyCash(row pgx.Row) (*entity.PettyCash, error) {
	var p entity.PettyCash
	err := row.Scan(
		&p.ID, &p.CompanyID, &p.Name, &p.State, &p.CustodianID, &p.JournalName,
		&p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanPettyCashLine(row pgx.Row) (*entity.PettyCashLine, error) {
	var l entity.PettyCashLine
	err := row.Scan(
		&l.ID, &l.PettyCashID, &l.Kind, &l.Date, &l.Amount, &l.Description,
		&l.Reference, &l.CreatedByID, &l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
