package request

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/Solicitudes-api/internal/application/dto"
	"github.com/jhoicas/Solicitudes-api/internal/domain"
	"github.com/jhoicas/Solicitudes-api/internal/domain/entity"
	"github.com/jhoicas/Solicitudes-api/internal/domain/role"
	"github.com/shopspring/decimal"
)

// CreateTransfer confirma el chequeo de disponibilidad: valida los topes de
// cada fila, resuelve destino y tipo de operación interna, y crea en una sola
// transacción un documento de transferencia con un movimiento por fila y una
// asignación por movimiento. Si la solicitud estaba aprobada pasa a
// in_progress. Los correos a bodegueros se envían después del commit.
func (uc *UseCase) CreateTransfer(ctx context.Context, actor Actor, requestID string, in dto.CreateTransferRequest) (*dto.TransferResponse, error) {
	if len(in.Rows) == 0 {
		return nil, domain.ErrInvalidInput
	}
	req, err := uc.getOwned(actor, requestID)
	if err != nil {
		return nil, err
	}
	dest, err := uc.requestDestination(req)
	if err != nil {
		return nil, err
	}

	linesByID := make(map[string]*entity.PurchaseRequestLine, len(req.Lines))
	for _, line := range req.Lines {
		linesByID[line.ID] = line
	}

	// Validación de topes por fila y por línea antes de escribir nada.
	type plannedRow struct {
		line   *entity.PurchaseRequestLine
		source *entity.Location
		qty    decimal.Decimal
	}
	planned := make([]plannedRow, 0, len(in.Rows))
	perLine := map[string]decimal.Decimal{}
	for _, row := range in.Rows {
		line, ok := linesByID[row.LineID]
		if !ok || line.Cancelled {
			return nil, domain.ErrNotFound
		}
		if !row.Qty.IsPositive() {
			return nil, domain.ErrInvalidInput
		}
		productName := uc.productName(line)
		source, err := uc.locations.GetByID(row.SourceLocationID)
		if err != nil {
			return nil, err
		}
		if source == nil || source.CompanyID != actor.CompanyID || source.Usage != entity.LocationUsageInternal {
			return nil, domain.ErrNotFound
		}
		if source.IsDescendantOf(dest) {
			return nil, &domain.AllocationValidationError{
				Product: productName,
				Kind:    domain.AllocationCapDestination,
				Qty:     row.Qty,
			}
		}
		available := decimal.Zero
		if stock, err := uc.stocks.Get(line.ProductID, source.ID); err != nil {
			return nil, err
		} else if stock != nil {
			available = stock.Available()
		}
		if row.Qty.GreaterThan(available) {
			return nil, &domain.AllocationValidationError{
				Product: productName,
				Kind:    domain.AllocationCapAvailable,
				Qty:     row.Qty,
				Cap:     available,
			}
		}
		perLine[line.ID] = perLine[line.ID].Add(row.Qty)
		if perLine[line.ID].GreaterThan(line.UnfulfilledQty) {
			return nil, &domain.AllocationValidationError{
				Product: productName,
				Kind:    domain.AllocationCapUnfulfilled,
				Qty:     perLine[line.ID],
				Cap:     line.UnfulfilledQty,
			}
		}
		planned = append(planned, plannedRow{line: line, source: source, qty: row.Qty})
	}

	opType, sourceWarehouseID, err := uc.resolveInternalOperationType(actor.CompanyID, planned[0].source, in.OperationTypeID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	picking := &entity.Picking{
		ID:               uuid.New().String(),
		CompanyID:        actor.CompanyID,
		OperationTypeID:  opType.ID,
		SourceLocationID: planned[0].source.ID,
		DestLocationID:   dest.ID,
		Origin:           req.Name,
		State:            entity.PickingStateDraft,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	err = uc.tx.Run(ctx, func(r TxRepos) error {
		name, err := r.Pickings.NextName()
		if err != nil {
			return err
		}
		picking.Name = name
		if err := r.Pickings.Create(picking); err != nil {
			return err
		}
		for _, p := range planned {
			lineID := p.line.ID
			move := &entity.StockMove{
				ID:               uuid.New().String(),
				PickingID:        picking.ID,
				CompanyID:        actor.CompanyID,
				ProductID:        p.line.ProductID,
				Description:      p.line.Description,
				Qty:              p.qty,
				UnitOfMeasure:    p.line.UnitOfMeasure,
				SourceLocationID: p.source.ID,
				DestLocationID:   dest.ID,
				State:            entity.MoveStateDraft,
				RequestLineID:    &lineID,
				CreatedAt:        now,
				UpdatedAt:        now,
			}
			if err := r.Moves.Create(move); err != nil {
				return err
			}
			picking.Moves = append(picking.Moves, move)

			moveID := move.ID
			alloc := &entity.Allocation{
				ID:                     uuid.New().String(),
				RequestLineID:          p.line.ID,
				CompanyID:              actor.CompanyID,
				StockMoveID:            &moveID,
				RequestedProductUomQty: p.qty,
				CreatedAt:              now,
				UpdatedAt:              now,
			}
			if err := r.Allocations.Create(alloc); err != nil {
				return err
			}

			if err := uc.reserveStock(r, p.line.ProductID, p.source.ID, p.qty); err != nil {
				return err
			}
			if err := uc.recomputeLine(r, p.line); err != nil {
				return err
			}
		}
		if req.State == entity.RequestStateApproved {
			req.State = entity.RequestStateInProgress
			req.UpdatedAt = now
			if err := r.Requests.Update(req); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("picking", picking.Name).Str("request", req.Name).Msg("transferencia creada")
	uc.notifyStorekeepers(req, picking, sourceWarehouseID, dest.WarehouseID)
	return toTransferResponse(picking), nil
}

// resolveInternalOperationType busca el tipo de operación interna: primero en
// la bodega de la ubicación origen, luego en cualquier bodega de la empresa.
func (uc *UseCase) resolveInternalOperationType(companyID string, source *entity.Location, explicitID string) (*entity.OperationType, string, error) {
	if explicitID != "" {
		opType, err := uc.opTypes.GetByID(explicitID)
		if err != nil {
			return nil, "", err
		}
		if opType == nil || opType.CompanyID != companyID || opType.Code != entity.OperationCodeInternal {
			return nil, "", domain.ErrNoInternalOperationType
		}
		return opType, opType.WarehouseID, nil
	}
	if source.WarehouseID != "" {
		opType, err := uc.opTypes.FindByWarehouseAndCode(source.WarehouseID, entity.OperationCodeInternal)
		if err != nil {
			return nil, "", err
		}
		if opType != nil {
			return opType, source.WarehouseID, nil
		}
	}
	warehouse, err := uc.warehouses.FirstByCompany(companyID)
	if err != nil {
		return nil, "", err
	}
	if warehouse != nil {
		opType, err := uc.opTypes.FindByWarehouseAndCode(warehouse.ID, entity.OperationCodeInternal)
		if err != nil {
			return nil, "", err
		}
		if opType != nil {
			return opType, warehouse.ID, nil
		}
	}
	return nil, "", domain.ErrNoInternalOperationType
}

// ValidateTransfer realiza una transferencia: marca los movimientos como
// hechos, mueve el stock, fija la cantidad entregada de cada asignación y
// recalcula las líneas. Un bodeguero solo puede validar transferencias cuya
// bodega destino tiene a ese bodeguero asignado; admin y jefes siempre pueden.
func (uc *UseCase) ValidateTransfer(ctx context.Context, actor Actor, pickingID string) (*dto.TransferResponse, error) {
	picking, err := uc.pickings.GetByID(pickingID)
	if err != nil {
		return nil, err
	}
	if picking == nil || picking.CompanyID != actor.CompanyID {
		return nil, domain.ErrNotFound
	}
	if picking.State != entity.PickingStateDraft {
		return nil, domain.ErrConflict
	}
	if err := uc.checkValidationGate(actor, picking); err != nil {
		return nil, err
	}

	err = uc.tx.Run(ctx, func(r TxRepos) error {
		moves, err := r.Moves.ListByPicking(picking.ID)
		if err != nil {
			return err
		}
		now := uc.now()
		for _, move := range moves {
			if move.State != entity.MoveStateDraft {
				continue
			}
			move.State = entity.MoveStateDone
			move.UpdatedAt = now
			if err := r.Moves.Update(move); err != nil {
				return err
			}
			if err := uc.settleStock(r, move); err != nil {
				return err
			}
			allocs, err := r.Allocations.ListByStockMove(move.ID)
			if err != nil {
				return err
			}
			for _, alloc := range allocs {
				alloc.AllocatedProductQty = alloc.RequestedProductUomQty
				alloc.UpdatedAt = now
				if err := r.Allocations.Update(alloc); err != nil {
					return err
				}
			}
			if err := uc.recomputeMoveLine(r, move); err != nil {
				return err
			}
		}
		picking.State = entity.PickingStateDone
		picking.UpdatedAt = now
		picking.Moves = moves
		return r.Pickings.Update(picking)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("picking", picking.Name).Msg("transferencia validada")
	return toTransferResponse(picking), nil
}

// CancelTransfer cancela una transferencia pendiente: los movimientos quedan
// cancelados, la reserva se libera y las asignaciones dejan de cubrir.
func (uc *UseCase) CancelTransfer(ctx context.Context, actor Actor, pickingID string) (*dto.TransferResponse, error) {
	picking, err := uc.pickings.GetByID(pickingID)
	if err != nil {
		return nil, err
	}
	if picking == nil || picking.CompanyID != actor.CompanyID {
		return nil, domain.ErrNotFound
	}
	if picking.State != entity.PickingStateDraft {
		return nil, domain.ErrConflict
	}
	if err := uc.checkValidationGate(actor, picking); err != nil {
		return nil, err
	}

	err = uc.tx.Run(ctx, func(r TxRepos) error {
		moves, err := r.Moves.ListByPicking(picking.ID)
		if err != nil {
			return err
		}
		now := uc.now()
		for _, move := range moves {
			if move.State != entity.MoveStateDraft {
				continue
			}
			move.State = entity.MoveStateCancel
			move.UpdatedAt = now
			if err := r.Moves.Update(move); err != nil {
				return err
			}
			if err := uc.releaseStock(r, move.ProductID, move.SourceLocationID, move.Qty); err != nil {
				return err
			}
			if err := uc.recomputeMoveLine(r, move); err != nil {
				return err
			}
		}
		picking.State = entity.PickingStateCancel
		picking.UpdatedAt = now
		picking.Moves = moves
		return r.Pickings.Update(picking)
	})
	if err != nil {
		return nil, err
	}
	return toTransferResponse(picking), nil
}

// checkValidationGate decide quién puede validar o cancelar la transferencia.
func (uc *UseCase) checkValidationGate(actor Actor, picking *entity.Picking) error {
	if role.Can(actor.Role, role.ValidateTransferAny) {
		return nil
	}
	if actor.Role != role.Storekeeper {
		return domain.ErrForbidden
	}
	dest, err := uc.locations.GetByID(picking.DestLocationID)
	if err != nil {
		return err
	}
	if dest == nil || dest.WarehouseID == "" {
		return domain.ErrForbidden
	}
	warehouse, err := uc.warehouses.GetByID(dest.WarehouseID)
	if err != nil {
		return err
	}
	if warehouse == nil || warehouse.StorekeeperID == nil || *warehouse.StorekeeperID != actor.ID {
		return domain.ErrForbidden
	}
	return nil
}

// recomputeMoveLine recalcula la línea de solicitud vinculada a un movimiento
// y aplica las transiciones automáticas de su solicitud.
func (uc *UseCase) recomputeMoveLine(r TxRepos, move *entity.StockMove) error {
	if move.RequestLineID == nil {
		return nil
	}
	line, err := r.Lines.GetByID(*move.RequestLineID)
	if err != nil {
		return err
	}
	if line == nil {
		return nil
	}
	if err := uc.recomputeLine(r, line); err != nil {
		return err
	}
	req, err := r.Requests.GetByID(line.RequestID)
	if err != nil {
		return err
	}
	if req == nil {
		return nil
	}
	return uc.applyAutoTransitions(r, req)
}

// reserveStock compromete cantidad en la ubicación origen.
func (uc *UseCase) reserveStock(r TxRepos, productID, locationID string, qty decimal.Decimal) error {
	stock, err := r.Stocks.Get(productID, locationID)
	if err != nil {
		return err
	}
	if stock == nil {
		stock = &entity.Stock{ProductID: productID, LocationID: locationID}
	}
	stock.ReservedQuantity = stock.ReservedQuantity.Add(qty)
	stock.UpdatedAt = uc.now()
	return r.Stocks.Upsert(stock)
}

// releaseStock libera una reserva sin mover cantidad.
func (uc *UseCase) releaseStock(r TxRepos, productID, locationID string, qty decimal.Decimal) error {
	stock, err := r.Stocks.Get(productID, locationID)
	if err != nil {
		return err
	}
	if stock == nil {
		return nil
	}
	stock.ReservedQuantity = stock.ReservedQuantity.Sub(qty)
	if stock.ReservedQuantity.IsNegative() {
		stock.ReservedQuantity = decimal.Zero
	}
	stock.UpdatedAt = uc.now()
	return r.Stocks.Upsert(stock)
}

// settleStock consuma el movimiento: descuenta origen (cantidad y reserva) y
// suma en destino.
func (uc *UseCase) settleStock(r TxRepos, move *entity.StockMove) error {
	now := uc.now()
	source, err := r.Stocks.Get(move.ProductID, move.SourceLocationID)
	if err != nil {
		return err
	}
	if source == nil {
		source = &entity.Stock{ProductID: move.ProductID, LocationID: move.SourceLocationID}
	}
	source.Quantity = source.Quantity.Sub(move.Qty)
	source.ReservedQuantity = source.ReservedQuantity.Sub(move.Qty)
	if source.ReservedQuantity.IsNegative() {
		source.ReservedQuantity = decimal.Zero
	}
	source.UpdatedAt = now
	if err := r.Stocks.Upsert(source); err != nil {
		return err
	}

	dest, err := r.Stocks.Get(move.ProductID, move.DestLocationID)
	if err != nil {
		return err
	}
	if dest == nil {
		dest = &entity.Stock{ProductID: move.ProductID, LocationID: move.DestLocationID}
	}
	dest.Quantity = dest.Quantity.Add(move.Qty)
	dest.UpdatedAt = now
	return r.Stocks.Upsert(dest)
}

// notifyStorekeepers envía correo a los bodegueros de la bodega origen y
// destino (sin duplicados). Best-effort: un fallo solo se registra.
func (uc *UseCase) notifyStorekeepers(req *entity.PurchaseRequest, picking *entity.Picking, warehouseIDs ...string) {
	if uc.mailer == nil {
		return
	}
	seen := map[string]bool{}
	var recipients []string
	for _, warehouseID := range warehouseIDs {
		if warehouseID == "" {
			continue
		}
		warehouse, err := uc.warehouses.GetByID(warehouseID)
		if err != nil || warehouse == nil || warehouse.StorekeeperID == nil {
			continue
		}
		keeper, err := uc.users.GetByID(*warehouse.StorekeeperID)
		if err != nil || keeper == nil || keeper.Email == "" || seen[keeper.Email] {
			continue
		}
		seen[keeper.Email] = true
		recipients = append(recipients, keeper.Email)
	}
	if len(recipients) == 0 {
		return
	}
	subject := fmt.Sprintf("Transferencia %s creada", picking.Name)
	body := fmt.Sprintf(
		"Se creó la transferencia %s para la solicitud de compra %s. Por favor valide la recepción en su bodega.",
		picking.Name, req.Name,
	)
	if err := uc.mailer.Send(recipients, subject, body); err != nil {
		uc.log.Warn().Err(err).Str("picking", picking.Name).Msg("no se pudo notificar a los bodegueros")
	}
}

func (uc *UseCase) productName(line *entity.PurchaseRequestLine) string {
	if product, err := uc.products.GetByID(line.ProductID); err == nil && product != nil {
		return product.Name
	}
	return line.Description
}

func toTransferResponse(p *entity.Picking) *dto.TransferResponse {
	out := &dto.TransferResponse{
		ID:              p.ID,
		Name:            p.Name,
		Origin:          p.Origin,
		State:           p.State,
		OperationTypeID: p.OperationTypeID,
	}
	for _, move := range p.Moves {
		out.Moves = append(out.Moves, dto.TransferMoveResponse{
			ID:            move.ID,
			ProductID:     move.ProductID,
			Qty:           move.Qty,
			SourceID:      move.SourceLocationID,
			DestinationID: move.DestLocationID,
			State:         move.State,
			RequestLineID: move.RequestLineID,
		})
	}
	return out
}
