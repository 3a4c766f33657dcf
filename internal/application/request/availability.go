package request

import (
	"github.com/jhoicas/Solicitudes-api/internal/application/dto"
	"github.com/jhoicas/Solicitudes-api/internal/domain"
	"github.com/jhoicas/Solicitudes-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// AvailabilityRow una fila (línea, ubicación) del chequeo de disponibilidad.
// LocationID vacío significa que ningún lugar tiene stock del producto; la
// fila existe para que la línea siga visible.
type AvailabilityRow struct {
	LineID         string
	ProductID      string
	ProductName    string
	LocationID     string
	LocationName   string
	RequestedQty   decimal.Decimal
	UnfulfilledQty decimal.Decimal
	AvailableQty   decimal.Decimal
	TransferQty    decimal.Decimal
}

// AvailabilityWizard chequeo de disponibilidad en memoria: filas (línea,
// ubicación) sobre las que el usuario propone cantidades a transferir. Es un
// struct transitorio; no se persiste.
type AvailabilityWizard struct {
	RequestID      string
	DestLocationID string
	Rows           []AvailabilityRow
}

// SetTransferQty fija la cantidad propuesta de la fila i aplicando los dos
// topes: el disponible de la fila y el pendiente de la línea sumando las
// demás filas de la misma línea. El exceso se trunca hacia abajo.
func (w *AvailabilityWizard) SetTransferQty(i int, qty decimal.Decimal) {
	if i < 0 || i >= len(w.Rows) {
		return
	}
	if qty.IsNegative() {
		qty = decimal.Zero
	}
	row := &w.Rows[i]
	if qty.GreaterThan(row.AvailableQty) {
		qty = row.AvailableQty
	}
	othersSum := decimal.Zero
	for j := range w.Rows {
		if j != i && w.Rows[j].LineID == row.LineID {
			othersSum = othersSum.Add(w.Rows[j].TransferQty)
		}
	}
	lineCap := row.UnfulfilledQty.Sub(othersSum)
	if lineCap.IsNegative() {
		lineCap = decimal.Zero
	}
	if qty.GreaterThan(lineCap) {
		qty = lineCap
	}
	row.TransferQty = qty
}

// Validate re-valida los topes de todas las filas y exige al menos una con
// cantidad positiva. Nombra el producto que viola el tope.
func (w *AvailabilityWizard) Validate() error {
	anyPositive := false
	perLine := map[string]decimal.Decimal{}
	for i := range w.Rows {
		row := &w.Rows[i]
		if row.TransferQty.IsNegative() {
			return domain.ErrInvalidInput
		}
		if !row.TransferQty.IsPositive() {
			continue
		}
		anyPositive = true
		if row.TransferQty.GreaterThan(row.AvailableQty) {
			return &domain.AllocationValidationError{
				Product: row.ProductName,
				Kind:    domain.AllocationCapAvailable,
				Qty:     row.TransferQty,
				Cap:     row.AvailableQty,
			}
		}
		perLine[row.LineID] = perLine[row.LineID].Add(row.TransferQty)
		if perLine[row.LineID].GreaterThan(row.UnfulfilledQty) {
			return &domain.AllocationValidationError{
				Product: row.ProductName,
				Kind:    domain.AllocationCapUnfulfilled,
				Qty:     perLine[row.LineID],
				Cap:     row.UnfulfilledQty,
			}
		}
		if row.LocationID == "" {
			return domain.ErrInvalidInput
		}
	}
	if !anyPositive {
		return domain.ErrInvalidInput
	}
	return nil
}

// BuildAvailability arma el chequeo de disponibilidad de una solicitud: por
// cada línea activa con cantidad pendiente, las ubicaciones internas de la
// empresa con stock disponible del producto, excluyendo la ubicación destino
// de la solicitud y sus descendientes.
func (uc *UseCase) BuildAvailability(actor Actor, requestID string) (*AvailabilityWizard, error) {
	req, err := uc.getOwned(actor, requestID)
	if err != nil {
		return nil, err
	}
	dest, err := uc.requestDestination(req)
	if err != nil {
		return nil, err
	}

	wizard := &AvailabilityWizard{RequestID: req.ID, DestLocationID: dest.ID}
	for _, line := range req.ActiveLines() {
		if !line.UnfulfilledQty.IsPositive() {
			continue
		}
		productName := uc.productName(line)
		stocks, err := uc.stocks.ListWithStockByProduct(req.CompanyID, line.ProductID)
		if err != nil {
			return nil, err
		}
		found := 0
		for _, stock := range stocks {
			loc, err := uc.locations.GetByID(stock.LocationID)
			if err != nil {
				return nil, err
			}
			if loc == nil || loc.Usage != entity.LocationUsageInternal {
				continue
			}
			if loc.IsDescendantOf(dest) {
				continue
			}
			available := stock.Available()
			if !available.IsPositive() {
				continue
			}
			wizard.Rows = append(wizard.Rows, AvailabilityRow{
				LineID:         line.ID,
				ProductID:      line.ProductID,
				ProductName:    productName,
				LocationID:     loc.ID,
				LocationName:   loc.Name,
				RequestedQty:   line.ProductQty,
				UnfulfilledQty: line.UnfulfilledQty,
				AvailableQty:   available,
			})
			found++
		}
		if found == 0 {
			// sin stock en ninguna parte: fila vacía para que la línea se vea
			wizard.Rows = append(wizard.Rows, AvailabilityRow{
				LineID:         line.ID,
				ProductID:      line.ProductID,
				ProductName:    productName,
				RequestedQty:   line.ProductQty,
				UnfulfilledQty: line.UnfulfilledQty,
				AvailableQty:   decimal.Zero,
			})
		}
	}
	return wizard, nil
}

// Availability versión DTO del chequeo, para la capa HTTP.
func (uc *UseCase) Availability(actor Actor, requestID string) (*dto.AvailabilityResponse, error) {
	wizard, err := uc.BuildAvailability(actor, requestID)
	if err != nil {
		return nil, err
	}
	out := &dto.AvailabilityResponse{RequestID: wizard.RequestID}
	for _, row := range wizard.Rows {
		out.Rows = append(out.Rows, dto.AvailabilityRow{
			LineID:       row.LineID,
			ProductID:    row.ProductID,
			ProductName:  row.ProductName,
			LocationID:   row.LocationID,
			LocationName: row.LocationName,
			RequestedQty: row.RequestedQty,
			AvailableQty: row.AvailableQty,
			AllocatedQty: row.TransferQty,
		})
	}
	return out, nil
}

// requestDestination resuelve la ubicación destino de la solicitud desde su
// tipo de operación de entrada.
func (uc *UseCase) requestDestination(req *entity.PurchaseRequest) (*entity.Location, error) {
	opType, err := uc.opTypes.GetByID(req.OperationTypeID)
	if err != nil {
		return nil, err
	}
	if opType == nil {
		return nil, domain.ErrNotFound
	}
	dest, err := uc.locations.GetByID(opType.DefaultDestLocationID)
	if err != nil {
		return nil, err
	}
	if dest == nil {
		return nil, domain.ErrNotFound
	}
	return dest, nil
}
