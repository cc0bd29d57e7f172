package domain

// SpreadSize is the number of slots in a reading spread.
const SpreadSize = 3

// DrawCards deals SpreadSize unique cards from the catalog using the provided
// RNG. The whole catalog is Fisher-Yates shuffled and the first SpreadSize
// cards become the spread, so no card can repeat. Each card's orientation is
// sampled independently: reversed with probability 0.3, upright otherwise.
func DrawCards(catalog Catalog, rng RNG) ([]DrawnCard, error) {
	if len(catalog.Cards) < SpreadSize {
		return nil, ErrInsufficientCatalog
	}

	indices := make([]int, len(catalog.Cards))
	for i := range indices {
		indices[i] = i
	}
	for i := len(indices) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		indices[i], indices[j] = indices[j], indices[i]
	}

	cards := make([]DrawnCard, SpreadSize)
	for i := range SpreadSize {
		orientation := Upright
		if rng.Intn(10) < 3 {
			orientation = Reversed
		}
		cards[i] = DrawnCard{
			Card:        catalog.Cards[indices[i]],
			Orientation: orientation,
		}
	}

	return cards, nil
}
