package entity

import "github.com/google/uuid"

// DefaultCatalogs nombres de estados sembrados por defecto, por tipo.
var DefaultCatalogs = map[StateKind][]string{
	KindEquipment:       {"Operativo", "En mantenimiento", "Fuera de servicio", "En calibración"},
	KindManufacturing:   {"Pendiente", "En proceso", "En pausa", "Terminado"},
	KindSamplingRequest: {"Solicitada", "En muestreo", "Completada", "Cancelada"},
	KindAnalysis:        {"Pendiente", "En incubación", "En lectura", "Finalizado", "Anulado"},
	KindQC:              {QCStatePending, QCStateApproved, QCStateRejected},
}

// SeedStateID ID determinístico (UUID v5) de un estado sembrado, igual en todos los stores.
func SeedStateID(kind StateKind, name string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("lims:"+string(kind)+":"+name)).String()
}
