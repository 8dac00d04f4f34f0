package ports

import "context"

// CatalogCache caché de nombres de estados. Un miss devuelve ("", false, nil).
type CatalogCache interface {
	GetName(ctx context.Context, kind, id string) (string, bool, error)
	SetName(ctx context.Context, kind, id, name string) error
	Invalidate(ctx context.Context, kind, id string) error
}

// NoCache siempre hace miss; los nombres se leen del catálogo en cada consulta.
type NoCache struct{}

func (NoCache) GetName(context.Context, string, string) (string, bool, error) { return "", false, nil }
func (NoCache) SetName(context.Context, string, string, string) error        { return nil }
func (NoCache) Invalidate(context.Context, string, string) error             { return nil }
