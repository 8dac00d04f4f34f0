// Package inventory motor de consumo de stock: recepción de lotes de polvo, preparación de
// medios de cultivo con descuento atómico de varios lotes y revisión QC del lote preparado.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/lims-api/internal/application/ports"
	"github.com/jhoicas/lims-api/internal/domain"
	"github.com/jhoicas/lims-api/internal/domain/audit"
	"github.com/jhoicas/lims-api/internal/domain/entity"
	"github.com/jhoicas/lims-api/internal/domain/inventory"
	"github.com/jhoicas/lims-api/internal/domain/repository"
)

// UseCase registra recepciones y preparaciones de forma transaccional, con bloqueo de fila
// (SELECT FOR UPDATE) sobre cada saldo consumido y Commit/Rollback del TxRunner.
type UseCase struct {
	txRunner repository.TxRunner
	stock    repository.StockRepository
	media    repository.MediaRepository
	clock    domain.Clock
	events   ports.EventPublisher
	metrics  ports.Metrics
	log      zerolog.Logger
}

// NewUseCase construye el caso de uso. clock, events y metrics pueden ser nil.
func NewUseCase(
	txRunner repository.TxRunner,
	stock repository.StockRepository,
	media repository.MediaRepository,
	clock domain.Clock,
	events ports.EventPublisher,
	metrics ports.Metrics,
	log zerolog.Logger,
) *UseCase {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	if events == nil {
		events = ports.NoopPublisher{}
	}
	if metrics == nil {
		metrics = ports.NoopMetrics{}
	}
	return &UseCase{
		txRunner: txRunner,
		stock:    stock,
		media:    media,
		clock:    clock,
		events:   events,
		metrics:  metrics,
		log:      log,
	}
}

// LotInput recepción de un lote de polvo o suplemento.
type LotInput struct {
	PowderTypeID string
	SupplierLot  string
	Expires      time.Time
	Quantity     decimal.Decimal
	Unit         string
}

// ConsumptionInput una línea de consumo de la preparación.
type ConsumptionInput struct {
	StockID  string
	Quantity decimal.Decimal
	Unit     string
}

// PreparationInput orden de preparación de medio con sus consumos.
// Si Expires es nil el lote preparado vence con el primer lote de polvo que vence.
type PreparationInput struct {
	MediaTypeID  string
	Lot          string
	TotalVolume  decimal.Decimal
	VolumeUnit   string
	InternalLot  string
	Expires      *time.Time
	Consumptions []ConsumptionInput
}

// ReceiveLot registra el lote recibido y su saldo inicial en una transacción.
func (uc *UseCase) ReceiveLot(ctx context.Context, in LotInput, actorID string) (*entity.PowderLot, *entity.StockBalance, error) {
	switch {
	case actorID == "":
		return nil, nil, domain.Invalid("actor_id")
	case in.PowderTypeID == "":
		return nil, nil, domain.Invalid("powder_type_id")
	case in.SupplierLot == "":
		return nil, nil, domain.Invalid("supplier_lot")
	case in.Expires.IsZero():
		return nil, nil, domain.Invalid("expires")
	case in.Unit == "":
		return nil, nil, domain.Invalid("unit")
	case !in.Quantity.GreaterThan(decimal.Zero):
		return nil, nil, fmt.Errorf("%w: quantity debe ser mayor a cero", domain.ErrInvalidInput)
	case !inventory.FitsScale(in.Quantity):
		return nil, nil, fmt.Errorf("%w: quantity admite hasta %d decimales", domain.ErrInvalidInput, inventory.QuantityScale)
	}
	now := uc.clock.Now()
	lot := &entity.PowderLot{
		ID:           uuid.New().String(),
		PowderTypeID: in.PowderTypeID,
		SupplierLot:  in.SupplierLot,
		Expires:      in.Expires,
		Quantity:     in.Quantity,
		Unit:         in.Unit,
		ReceivedBy:   actorID,
		ReceivedAt:   now,
	}
	bal := &entity.StockBalance{
		ID:        uuid.New().String(),
		LotID:     lot.ID,
		Quantity:  in.Quantity,
		UpdatedAt: now,
	}
	err := uc.txRunner.Run(ctx, func(tx repository.Repos) error {
		if err := tx.Lots.Create(ctx, lot); err != nil {
			return err
		}
		if err := tx.Stock.Create(ctx, bal); err != nil {
			return err
		}
		return tx.Audit.Append(ctx, audit.Created("powder_lots", lot.ID,
			"lote "+lot.SupplierLot+" "+lot.Quantity.String()+" "+lot.Unit, actorID, now))
	})
	if err != nil {
		return nil, nil, err
	}
	uc.log.Info().Str("lot_id", lot.ID).Str("supplier_lot", lot.SupplierLot).
		Str("quantity", lot.Quantity.String()).Str("actor_id", actorID).Msg("lote recibido")
	return lot, bal, nil
}

// GetStock saldo actual de un lote; ErrNotFound si no existe.
func (uc *UseCase) GetStock(ctx context.Context, lotID string) (*entity.StockBalance, error) {
	bal, err := uc.stock.GetByLot(ctx, lotID)
	if err != nil {
		return nil, err
	}
	if bal == nil {
		return nil, domain.ErrNotFound
	}
	return bal, nil
}

// PrepareMedia crea la orden, sus consumos y el lote de medio en QC Pendiente, en una sola
// transacción. Antes de escribir nada bloquea cada saldo (orden ascendente de ID) y verifica
// que alcance; si algún ítem no alcanza devuelve *domain.InsufficientStockError y no persiste nada.
func (uc *UseCase) PrepareMedia(ctx context.Context, in PreparationInput, actorID string) (*entity.MediaPreparationOrder, error) {
	if err := validatePreparation(in, actorID); err != nil {
		return nil, err
	}
	lines := make([]inventory.Line, 0, len(in.Consumptions))
	for _, c := range in.Consumptions {
		lines = append(lines, inventory.Line{StockID: c.StockID, Quantity: c.Quantity})
	}
	demand := inventory.Aggregate(lines)
	now := uc.clock.Now()

	order := &entity.MediaPreparationOrder{
		ID:          uuid.New().String(),
		MediaTypeID: in.MediaTypeID,
		Lot:         in.Lot,
		TotalVolume: in.TotalVolume,
		VolumeUnit:  in.VolumeUnit,
		OperatorID:  actorID,
		CreatedAt:   now,
	}
	err := uc.txRunner.Run(ctx, func(tx repository.Repos) error {
		// Bloquea y verifica todos los saldos antes de la primera escritura.
		var earliest time.Time
		for _, d := range demand {
			bal, err := tx.Stock.GetForUpdate(ctx, d.StockID)
			if err != nil {
				return err
			}
			if bal == nil {
				return &domain.InsufficientStockError{StockID: d.StockID, Requested: d.Quantity, Available: decimal.Zero}
			}
			if !inventory.Sufficient(bal.Quantity, d.Quantity) {
				return &domain.InsufficientStockError{StockID: d.StockID, Requested: d.Quantity, Available: bal.Quantity}
			}
			lot, err := tx.Lots.GetByID(ctx, bal.LotID)
			if err != nil {
				return err
			}
			if lot != nil && (earliest.IsZero() || lot.Expires.Before(earliest)) {
				earliest = lot.Expires
			}
		}
		pending, err := tx.Catalog.GetByName(ctx, entity.KindQC, entity.QCStatePending)
		if err != nil {
			return err
		}
		if pending == nil {
			return fmt.Errorf("%w: estado QC %q no existe en el catálogo", domain.ErrNotFound, entity.QCStatePending)
		}

		if err := tx.Media.CreateOrder(ctx, order); err != nil {
			return err
		}
		for _, c := range in.Consumptions {
			rec := &entity.PowderConsumption{
				ID:       uuid.New().String(),
				StockID:  c.StockID,
				OrderID:  order.ID,
				Quantity: c.Quantity,
				Unit:     c.Unit,
			}
			if err := tx.Media.CreateConsumption(ctx, rec); err != nil {
				return err
			}
			order.Consumptions = append(order.Consumptions, rec)
		}
		for _, d := range demand {
			if err := tx.Stock.Decrement(ctx, d.StockID, d.Quantity, now); err != nil {
				if errors.Is(err, domain.ErrInsufficientStock) {
					return &domain.InsufficientStockError{StockID: d.StockID, Requested: d.Quantity}
				}
				return err
			}
		}

		batch := &entity.PreparedMediaBatch{
			ID:          uuid.New().String(),
			OrderID:     order.ID,
			InternalLot: in.InternalLot,
			Expires:     earliest,
			QCStateID:   pending.ID,
		}
		if batch.InternalLot == "" {
			batch.InternalLot = in.Lot
		}
		if in.Expires != nil {
			batch.Expires = *in.Expires
		}
		if err := tx.Media.CreateBatch(ctx, batch); err != nil {
			return err
		}
		order.Batch = batch
		return tx.Audit.Append(ctx,
			audit.Created("media_preparation_orders", order.ID, "orden "+order.Lot+" "+order.TotalVolume.String()+" "+order.VolumeUnit, actorID, now),
			audit.Created("prepared_media_batches", batch.ID, "lote "+batch.InternalLot+" "+entity.QCStatePending, actorID, now),
		)
	})
	if err != nil {
		var short *domain.InsufficientStockError
		if errors.As(err, &short) {
			uc.metrics.MediaPrepared(ports.OutcomeInsufficientStock)
			uc.log.Warn().Str("stock_id", short.StockID).Str("requested", short.Requested.String()).
				Str("available", short.Available.String()).Str("actor_id", actorID).Msg("preparación rechazada por stock insuficiente")
			return nil, err
		}
		uc.metrics.MediaPrepared(ports.OutcomeError)
		return nil, err
	}

	uc.metrics.MediaPrepared(ports.OutcomeOK)
	uc.log.Info().Str("order_id", order.ID).Str("batch_id", order.Batch.ID).
		Int("consumptions", len(order.Consumptions)).Str("actor_id", actorID).Msg("medio preparado")
	ev := ports.MediaPreparedEvent{
		OrderID:     order.ID,
		BatchID:     order.Batch.ID,
		Lot:         order.Lot,
		TotalVolume: order.TotalVolume,
		ActorID:     actorID,
		OccurredAt:  now,
	}
	if err := uc.events.PublishMediaPrepared(ctx, ev); err != nil {
		uc.log.Warn().Err(err).Str("order_id", order.ID).Msg("no se pudo publicar el evento de preparación")
	}
	return order, nil
}

// GetOrder orden de preparación con consumos y lote; ErrNotFound si no existe.
func (uc *UseCase) GetOrder(ctx context.Context, orderID string) (*entity.MediaPreparationOrder, error) {
	o, err := uc.media.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	if o.Consumptions, err = uc.media.ListConsumptions(ctx, orderID); err != nil {
		return nil, err
	}
	if o.Batch, err = uc.media.GetBatchByOrder(ctx, orderID); err != nil {
		return nil, err
	}
	return o, nil
}

// ListConsumptions consumos de una orden; ErrNotFound si la orden no existe.
func (uc *UseCase) ListConsumptions(ctx context.Context, orderID string) ([]*entity.PowderConsumption, error) {
	o, err := uc.media.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	return uc.media.ListConsumptions(ctx, orderID)
}

// GetBatchForOrder lote de medio producido por la orden.
func (uc *UseCase) GetBatchForOrder(ctx context.Context, orderID string) (*entity.PreparedMediaBatch, error) {
	b, err := uc.media.GetBatchByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	return b, nil
}

// ReviewBatch registra la revisión QC del lote: actualiza su estado QC, agrega la aprobación
// y el audit trail del cambio.
func (uc *UseCase) ReviewBatch(ctx context.Context, batchID, qcStateID, actorID, observation string) (*entity.MediaApproval, error) {
	switch {
	case actorID == "":
		return nil, domain.Invalid("actor_id")
	case batchID == "":
		return nil, domain.Invalid("batch_id")
	case qcStateID == "":
		return nil, domain.Invalid("qc_state_id")
	}
	now := uc.clock.Now()
	approval := &entity.MediaApproval{
		ID:          uuid.New().String(),
		BatchID:     batchID,
		QCStateID:   qcStateID,
		Date:        now,
		OperatorID:  actorID,
		Observation: observation,
	}
	err := uc.txRunner.Run(ctx, func(tx repository.Repos) error {
		st, err := tx.Catalog.GetByID(ctx, entity.KindQC, qcStateID)
		if err != nil {
			return err
		}
		if st == nil {
			return fmt.Errorf("%w: estado QC %s no existe", domain.ErrInvalidInput, qcStateID)
		}
		b, err := tx.Media.GetBatchForUpdate(ctx, batchID)
		if err != nil {
			return err
		}
		if b == nil {
			return domain.ErrNotFound
		}
		if err := tx.Media.UpdateBatchQC(ctx, batchID, qcStateID); err != nil {
			return err
		}
		if err := tx.Media.CreateApproval(ctx, approval); err != nil {
			return err
		}
		entries := audit.Diff(entity.KindQC.Table(), batchID,
			audit.Snapshot{"estado_qc_id": audit.Value(b.QCStateID)},
			audit.Snapshot{"estado_qc_id": audit.Value(qcStateID)},
			entity.AuditUpdate, actorID, now)
		entries = append(entries, audit.Created("media_approvals", approval.ID, st.Name, actorID, now))
		return tx.Audit.Append(ctx, entries...)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("batch_id", batchID).Str("qc_state_id", qcStateID).Str("actor_id", actorID).Msg("lote de medio revisado")
	return approval, nil
}

func validatePreparation(in PreparationInput, actorID string) error {
	switch {
	case actorID == "":
		return domain.Invalid("actor_id")
	case in.MediaTypeID == "":
		return domain.Invalid("media_type_id")
	case in.Lot == "":
		return domain.Invalid("lot")
	case in.VolumeUnit == "":
		return domain.Invalid("volume_unit")
	case !in.TotalVolume.GreaterThan(decimal.Zero):
		return fmt.Errorf("%w: total_volume debe ser mayor a cero", domain.ErrInvalidInput)
	case !inventory.FitsScale(in.TotalVolume):
		return fmt.Errorf("%w: total_volume admite hasta %d decimales", domain.ErrInvalidInput, inventory.QuantityScale)
	case len(in.Consumptions) == 0:
		return domain.Invalid("consumptions")
	}
	for i, c := range in.Consumptions {
		if c.StockID == "" {
			return fmt.Errorf("%w: consumo %d sin stock_id", domain.ErrInvalidInput, i)
		}
		if !c.Quantity.GreaterThan(decimal.Zero) {
			return fmt.Errorf("%w: consumo %d debe ser mayor a cero", domain.ErrInvalidInput, i)
		}
		if !inventory.FitsScale(c.Quantity) {
			return fmt.Errorf("%w: consumo %d admite hasta %d decimales", domain.ErrInvalidInput, i, inventory.QuantityScale)
		}
	}
	return nil
}
