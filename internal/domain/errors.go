package domain

import "errors"

var (
	ErrCatalogUnavailable  = errors.New("card catalog unavailable")
	ErrInsufficientCatalog = errors.New("catalog must contain at least 3 cards")
	ErrCardNotFound        = errors.New("card not found")
	ErrSessionNotFound     = errors.New("reading session not found")
	ErrInvalidPosition     = errors.New("flip position out of range")
	ErrRelayCall           = errors.New("relay call failed")
)
