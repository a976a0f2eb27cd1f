package weather

import "encoding/json"

// Record is a stored combination of request metadata and the provider's
// historical weather payload. Records are never mutated after Save.
type Record struct {
	ID       string          `json:"id"`
	Date     string          `json:"date"`
	Location string          `json:"location"`
	Notes    string          `json:"notes"`
	Weather  json.RawMessage `json:"weather"`
}

// CreateRequest is the input for Service.Create.
type CreateRequest struct {
	Date     string `json:"date" validate:"required"`
	Location string `json:"location" validate:"required"`
	Notes    string `json:"notes"`
}

// Clone returns a copy that shares no memory with r.
func (r Record) Clone() Record {
	out := r
	if r.Weather != nil {
		out.Weather = append(json.RawMessage(nil), r.Weather...)
	}
	return out
}
