package catalog

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/AlexLin625/cyber-tarot/internal/domain"
)

//go:embed data/*.json
var catalogFS embed.FS

const catalogFile = "data/cards.json"

// cardJSON mirrors the catalog document: a mapping from card ID to the card's
// display name and its two orientation-specific meanings.
type cardJSON struct {
	Name     string   `json:"name"`
	Upright  sideJSON `json:"upright"`
	Reversed sideJSON `json:"reversed"`
}

type sideJSON struct {
	Keywords []string `json:"keywords"`
	Full     string   `json:"full"`
}

// EmbeddedStore loads the card catalog from the embedded JSON document,
// exactly once. The catalog is sorted by card ID so callers see a stable
// order regardless of JSON map iteration.
type EmbeddedStore struct {
	once    sync.Once
	catalog domain.Catalog
	err     error
}

func NewEmbeddedStore() *EmbeddedStore {
	return &EmbeddedStore{}
}

func (s *EmbeddedStore) init() {
	raw, err := catalogFS.ReadFile(catalogFile)
	if err != nil {
		s.err = fmt.Errorf("%w: read embedded catalog: %w", domain.ErrCatalogUnavailable, err)
		return
	}

	var entries map[string]cardJSON
	if err := json.Unmarshal(raw, &entries); err != nil {
		s.err = fmt.Errorf("%w: parse embedded catalog: %w", domain.ErrCatalogUnavailable, err)
		return
	}

	cards := make([]domain.Card, 0, len(entries))
	for id, entry := range entries {
		cards = append(cards, domain.Card{
			ID:       id,
			Name:     entry.Name,
			Upright:  domain.Meaning{Keywords: entry.Upright.Keywords, Full: entry.Upright.Full},
			Reversed: domain.Meaning{Keywords: entry.Reversed.Keywords, Full: entry.Reversed.Full},
		})
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].ID < cards[j].ID })

	s.catalog = domain.Catalog{Cards: cards}
}

func (s *EmbeddedStore) GetCatalog(_ context.Context) (domain.Catalog, error) {
	s.once.Do(s.init)
	if s.err != nil {
		return domain.Catalog{}, s.err
	}
	return s.catalog, nil
}
