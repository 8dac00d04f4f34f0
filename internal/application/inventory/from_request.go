package inventory

import (
	"context"

	"github.com/jhoicas/lims-api/internal/application/dto"
	"github.com/jhoicas/lims-api/internal/domain/entity"
)

// PrepareMediaFromRequest adapta el request HTTP al caso de uso PrepareMedia(ctx, PreparationInput).
func (uc *UseCase) PrepareMediaFromRequest(ctx context.Context, actorID string, in dto.PrepareMediaRequest) (*dto.PreparationResponse, error) {
	input := PreparationInput{
		MediaTypeID: in.MediaTypeID,
		Lot:         in.Lot,
		TotalVolume: in.TotalVolume,
		VolumeUnit:  in.VolumeUnit,
		InternalLot: in.InternalLot,
		Expires:     in.Expires,
	}
	for _, c := range in.Consumptions {
		input.Consumptions = append(input.Consumptions, ConsumptionInput{StockID: c.StockID, Quantity: c.Quantity, Unit: c.Unit})
	}
	order, err := uc.PrepareMedia(ctx, input, actorID)
	if err != nil {
		return nil, err
	}
	return ToPreparationResponse(order), nil
}

// ReceiveLotFromRequest adapta el request HTTP al caso de uso ReceiveLot.
func (uc *UseCase) ReceiveLotFromRequest(ctx context.Context, actorID string, in dto.ReceiveLotRequest) (*dto.PowderLotResponse, error) {
	lot, bal, err := uc.ReceiveLot(ctx, LotInput{
		PowderTypeID: in.PowderTypeID,
		SupplierLot:  in.SupplierLot,
		Expires:      in.Expires,
		Quantity:     in.Quantity,
		Unit:         in.Unit,
	}, actorID)
	if err != nil {
		return nil, err
	}
	return &dto.PowderLotResponse{
		ID:           lot.ID,
		PowderTypeID: lot.PowderTypeID,
		SupplierLot:  lot.SupplierLot,
		Expires:      lot.Expires,
		Quantity:     lot.Quantity,
		Unit:         lot.Unit,
		ReceivedBy:   lot.ReceivedBy,
		ReceivedAt:   lot.ReceivedAt,
		Stock:        ToStockResponse(bal),
	}, nil
}

// ToStockResponse convierte el saldo a DTO.
func ToStockResponse(b *entity.StockBalance) dto.StockResponse {
	return dto.StockResponse{ID: b.ID, LotID: b.LotID, Quantity: b.Quantity, UpdatedAt: b.UpdatedAt}
}

// ToPreparationResponse convierte la orden (con consumos y lote) a DTO.
func ToPreparationResponse(o *entity.MediaPreparationOrder) *dto.PreparationResponse {
	out := &dto.PreparationResponse{
		ID:           o.ID,
		MediaTypeID:  o.MediaTypeID,
		Lot:          o.Lot,
		TotalVolume:  o.TotalVolume,
		VolumeUnit:   o.VolumeUnit,
		OperatorID:   o.OperatorID,
		CreatedAt:    o.CreatedAt,
		Consumptions: make([]dto.ConsumptionResponse, 0, len(o.Consumptions)),
	}
	for _, c := range o.Consumptions {
		out.Consumptions = append(out.Consumptions, dto.ConsumptionResponse{ID: c.ID, StockID: c.StockID, Quantity: c.Quantity, Unit: c.Unit})
	}
	if o.Batch != nil {
		out.Batch = &dto.MediaBatchResponse{
			ID:          o.Batch.ID,
			OrderID:     o.Batch.OrderID,
			InternalLot: o.Batch.InternalLot,
			Expires:     o.Batch.Expires,
			QCStateID:   o.Batch.QCStateID,
		}
	}
	return out
}
