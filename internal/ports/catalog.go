package ports

import (
	"context"

	"github.com/AlexLin625/cyber-tarot/internal/domain"
)

// CatalogStore provides access to the tarot card catalog.
type CatalogStore interface {
	GetCatalog(ctx context.Context) (domain.Catalog, error)
}
