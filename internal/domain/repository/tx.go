package repository

import "context"

// Repos agrupa los repositorios del Ledger Store. Dentro de TxRunner.Run todos
// quedan atados a la misma transacción.
type Repos struct {
	States         StateRepository
	History        HistoryRepository
	Catalog        CatalogRepository
	Audit          AuditTrailRepository
	Equipment      EquipmentRepository
	Manufacturing  ManufacturingRepository
	Sampling       SamplingRepository
	Analysis       AnalysisRepository
	Specifications SpecificationRepository
	Lots           PowderLotRepository
	Stock          StockRepository
	Media          MediaRepository
	Users          UserRepository
	Dashboard      DashboardRepository
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn devuelve nil, Rollback si no.
// Garantiza atomicidad de puntero de estado + histórico y de los consumos de stock.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx Repos) error) error
}
