package pettycash

import (
	"time"

	"github.com/jhoicas/Solicitudes-api/internal/domain"
	"github.com/jhoicas/Solicitudes-api/internal/domain/entity"
	"github.com/jhoicas/Solicitudes-api/internal/domain/role"
	"github.com/shopspring/decimal"
)

// ReportRow una línea del libro de caja menor para el reporte.
type ReportRow struct {
	Date        time.Time
	Custodian   string
	BoxName     string
	Kind        string
	Description string
	Reference   string
	Allocated   decimal.Decimal
	Expensed    decimal.Decimal
}

// ReportData libro de caja menor filtrado, listo para exportar.
type ReportData struct {
	CustodianID    string
	Year           int
	Rows           []ReportRow
	TotalAllocated decimal.Decimal
	TotalExpensed  decimal.Decimal
}

// Report arma el libro de movimientos de caja menor, filtrado por custodio
// y/o año (cero = sin filtro). La capa de exportación lo vuelca a xlsx.
func (uc *UseCase) Report(actor Actor, custodianID string, year int) (*ReportData, error) {
	if !role.Can(actor.Role, role.ManagePettyCash) {
		return nil, domain.ErrForbidden
	}
	lines, err := uc.pettyCash.ListLines(actor.CompanyID, custodianID, year)
	if err != nil {
		return nil, err
	}

	data := &ReportData{CustodianID: custodianID, Year: year}
	boxNames := map[string]string{}
	custodians := map[string]string{}
	for _, line := range lines {
		boxName, ok := boxNames[line.PettyCashID]
		custodian := custodians[line.PettyCashID]
		if !ok {
			if box, err := uc.pettyCash.GetByID(line.PettyCashID); err == nil && box != nil {
				boxName = box.Name
				if user, err := uc.users.GetByID(box.CustodianID); err == nil && user != nil {
					custodian = user.Name
				}
			}
			boxNames[line.PettyCashID] = boxName
			custodians[line.PettyCashID] = custodian
		}
		row := ReportRow{
			Date:        line.Date,
			Custodian:   custodian,
			BoxName:     boxName,
			Kind:        line.Kind,
			Description: line.Description,
			Reference:   line.Reference,
		}
		switch line.Kind {
		case entity.PettyCashLineAllocation:
			row.Allocated = line.Amount
			data.TotalAllocated = data.TotalAllocated.Add(line.Amount)
		case entity.PettyCashLineExpense:
			row.Expensed = line.Amount
			data.TotalExpensed = data.TotalExpensed.Add(line.Amount)
		}
		data.Rows = append(data.Rows, row)
	}
	return data, nil
}
