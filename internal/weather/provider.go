package weather

import (
	"context"
	"encoding/json"
)

// Provider abstracts a historical weather data source (e.g. weatherstack).
// The returned payload is the provider's JSON body, untouched.
type Provider interface {
	Name() string
	FetchHistorical(ctx context.Context, location, date string) (json.RawMessage, error)
}

// Store is the contract the in-memory store must satisfy.
type Store interface {
	Save(record Record) error
	Get(id string) (Record, error)
	Len() int
}
