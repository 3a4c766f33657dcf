package request

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/Solicitudes-api/internal/domain"
	"github.com/jhoicas/Solicitudes-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// El ledger mantiene las cantidades derivadas de cada línea consistentes con
// sus asignaciones. Toda mutación de asignaciones pasa por aquí y termina en
// recomputeLine + applyAutoTransitions, dentro de la misma transacción.

// AllocatePurchase vincula una línea de solicitud con una línea de orden de
// compra mediante una asignación nueva. Nunca reutiliza una asignación
// existente para otra acción.
func (uc *UseCase) AllocatePurchase(ctx context.Context, actor Actor, lineID, purchaseLineID string, qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return domain.ErrInvalidInput
	}
	line, err := uc.lines.GetByID(lineID)
	if err != nil {
		return err
	}
	if line == nil {
		return domain.ErrNotFound
	}
	req, err := uc.getOwned(actor, line.RequestID)
	if err != nil {
		return err
	}
	pol, err := uc.purchaseLines.GetByID(purchaseLineID)
	if err != nil {
		return err
	}
	if pol == nil || pol.CompanyID != actor.CompanyID {
		return domain.ErrNotFound
	}
	if pol.State == entity.PurchaseLineStateCancel {
		return domain.ErrConflict
	}
	return uc.tx.Run(ctx, func(r TxRepos) error {
		now := uc.now()
		polID := pol.ID
		alloc := &entity.Allocation{
			ID:                     uuid.New().String(),
			RequestLineID:          line.ID,
			CompanyID:              actor.CompanyID,
			PurchaseLineID:         &polID,
			RequestedProductUomQty: qty,
			CreatedAt:              now,
			UpdatedAt:              now,
		}
		if err := r.Allocations.Create(alloc); err != nil {
			return err
		}
		if err := uc.recomputeLine(r, line); err != nil {
			return err
		}
		return uc.refreshRequest(r, req)
	})
}

// ReceivePurchase registra una recepción sobre una línea de orden de compra:
// reparte la cantidad recibida entre sus asignaciones abiertas, publica una
// nota en cada solicitud afectada y recalcula las líneas.
func (uc *UseCase) ReceivePurchase(ctx context.Context, actor Actor, purchaseLineID string, qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return domain.ErrInvalidInput
	}
	pol, err := uc.purchaseLines.GetByID(purchaseLineID)
	if err != nil {
		return err
	}
	if pol == nil || pol.CompanyID != actor.CompanyID {
		return domain.ErrNotFound
	}
	if pol.State == entity.PurchaseLineStateCancel || pol.State == entity.PurchaseLineStateDone {
		return domain.ErrConflict
	}
	return uc.tx.Run(ctx, func(r TxRepos) error {
		now := uc.now()
		pol.QtyReceived = pol.QtyReceived.Add(qty)
		pol.UpdatedAt = now
		if err := r.PurchaseLines.Update(pol); err != nil {
			return err
		}

		allocs, err := r.Allocations.ListByPurchaseLine(pol.ID)
		if err != nil {
			return err
		}
		remaining := qty
		for _, alloc := range allocs {
			if !remaining.IsPositive() {
				break
			}
			open := alloc.OpenQty(pol.State)
			if !open.IsPositive() {
				continue
			}
			take := decimal.Min(open, remaining)
			alloc.AllocatedProductQty = alloc.AllocatedProductQty.Add(take)
			alloc.UpdatedAt = now
			if err := r.Allocations.Update(alloc); err != nil {
				return err
			}
			remaining = remaining.Sub(take)

			line, err := r.Lines.GetByID(alloc.RequestLineID)
			if err != nil {
				return err
			}
			if line == nil {
				continue
			}
			if err := uc.recomputeLine(r, line); err != nil {
				return err
			}
			if err := uc.postReceptionNote(r, line, take); err != nil {
				return err
			}
			req, err := r.Requests.GetByID(line.RequestID)
			if err != nil {
				return err
			}
			if req != nil {
				if err := uc.applyAutoTransitions(r, req); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// SetPurchaseLineState cambia el estado de una línea de orden de compra. Al
// cancelarla o cerrarla, sus asignaciones dejan de tener cantidad abierta y
// las líneas de solicitud vinculadas se recalculan.
func (uc *UseCase) SetPurchaseLineState(ctx context.Context, actor Actor, purchaseLineID, state string) error {
	switch state {
	case entity.PurchaseLineStateDraft, entity.PurchaseLineStatePurchase,
		entity.PurchaseLineStateDone, entity.PurchaseLineStateCancel:
	default:
		return domain.ErrInvalidInput
	}
	pol, err := uc.purchaseLines.GetByID(purchaseLineID)
	if err != nil {
		return err
	}
	if pol == nil || pol.CompanyID != actor.CompanyID {
		return domain.ErrNotFound
	}
	return uc.tx.Run(ctx, func(r TxRepos) error {
		pol.State = state
		pol.UpdatedAt = uc.now()
		if err := r.PurchaseLines.Update(pol); err != nil {
			return err
		}
		allocs, err := r.Allocations.ListByPurchaseLine(pol.ID)
		if err != nil {
			return err
		}
		touched := map[string]bool{}
		for _, alloc := range allocs {
			line, err := r.Lines.GetByID(alloc.RequestLineID)
			if err != nil {
				return err
			}
			if line == nil || touched[line.ID] {
				continue
			}
			touched[line.ID] = true
			if err := uc.recomputeLine(r, line); err != nil {
				return err
			}
			req, err := r.Requests.GetByID(line.RequestID)
			if err != nil {
				return err
			}
			if req != nil {
				if err := uc.applyAutoTransitions(r, req); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// recomputeLine recalcula en orden QtyInTransfer, UnfulfilledQty y
// PurchasedQty de la línea a partir de sus asignaciones, y la persiste.
func (uc *UseCase) recomputeLine(r TxRepos, line *entity.PurchaseRequestLine) error {
	allocs, err := r.Allocations.ListByLine(line.ID)
	if err != nil {
		return err
	}

	inTransfer := decimal.Zero
	purchased := decimal.Zero
	covered := decimal.Zero

	for _, alloc := range allocs {
		switch {
		case alloc.StockMoveID != nil:
			move, err := r.Moves.GetByID(*alloc.StockMoveID)
			if err != nil {
				return err
			}
			if move == nil {
				continue
			}
			switch move.State {
			case entity.MoveStateDraft:
				inTransfer = inTransfer.Add(alloc.RequestedProductUomQty)
				covered = covered.Add(alloc.RequestedProductUomQty)
			case entity.MoveStateDone:
				covered = covered.Add(alloc.AllocatedProductQty)
			}
			// cancelado: no aporta nada
		case alloc.PurchaseLineID != nil:
			pol, err := r.PurchaseLines.GetByID(*alloc.PurchaseLineID)
			if err != nil {
				return err
			}
			if pol == nil || pol.State == entity.PurchaseLineStateCancel {
				continue
			}
			purchased = purchased.Add(alloc.RequestedProductUomQty)
			if pol.State == entity.PurchaseLineStateDone {
				covered = covered.Add(alloc.AllocatedProductQty)
			} else {
				covered = covered.Add(alloc.RequestedProductUomQty)
			}
		}
	}

	line.QtyInTransfer = inTransfer
	unfulfilled := line.ProductQty.Sub(covered)
	if unfulfilled.IsNegative() {
		unfulfilled = decimal.Zero
	}
	line.UnfulfilledQty = unfulfilled
	line.PurchasedQty = purchased
	line.UpdatedAt = uc.now()
	return r.Lines.Update(line)
}

// refreshRequest recarga las líneas de la solicitud y aplica las transiciones
// automáticas.
func (uc *UseCase) refreshRequest(r TxRepos, req *entity.PurchaseRequest) error {
	lines, err := r.Lines.ListByRequest(req.ID)
	if err != nil {
		return err
	}
	req.Lines = lines
	return uc.applyAutoTransitions(r, req)
}

func (uc *UseCase) postReceptionNote(r TxRepos, line *entity.PurchaseRequestLine, qty decimal.Decimal) error {
	note := &entity.RequestNote{
		ID:        uuid.New().String(),
		RequestID: line.RequestID,
		Body:      fmt.Sprintf("De la última recepción: %s %s de %s asignadas a esta solicitud", qty, line.UnitOfMeasure, uc.productName(line)),
		CreatedAt: uc.now(),
	}
	return r.Notes.Create(note)
}

// Notes devuelve el hilo de notas de una solicitud.
func (uc *UseCase) Notes(actor Actor, requestID string, limit, offset int) ([]*entity.RequestNote, error) {
	if _, err := uc.getOwned(actor, requestID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	return uc.notes.ListByRequest(requestID, limit, offset)
}
