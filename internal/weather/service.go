package weather

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/i474232898/weather-records/internal/logger"
	"github.com/i474232898/weather-records/internal/observability"
)

var validate = validator.New()

// Service fetches historical weather from the provider and keeps the
// resulting records in the store.
type Service struct {
	store    Store
	provider Provider
	metrics  *observability.Metrics
	log      logger.Logger
}

// NewService creates a new Service.
func NewService(store Store, provider Provider, metrics *observability.Metrics, log logger.Logger) *Service {
	return &Service{
		store:    store,
		provider: provider,
		metrics:  metrics,
		log:      log.WithField("component", "weather_service"),
	}
}

// Create fetches weather for the request and stores a new record, returning its id.
// Nothing is stored when the provider call fails.
func (s *Service) Create(ctx context.Context, req CreateRequest) (string, error) {
	if err := validateCreate(req); err != nil {
		return "", err
	}

	payload, err := s.provider.FetchHistorical(ctx, req.Location, req.Date)
	if err != nil {
		var perr *ProviderError
		if errors.As(err, &perr) {
			s.log.Infof("provider %s rejected %q on %s: %s", s.provider.Name(), req.Location, req.Date, perr.Error())
		} else {
			s.log.Errorf("provider %s fetch failed for %q on %s: %v", s.provider.Name(), req.Location, req.Date, err)
		}
		return "", err
	}

	record := Record{
		ID:       uuid.NewString(),
		Date:     req.Date,
		Location: req.Location,
		Notes:    req.Notes,
		Weather:  payload,
	}
	if err := s.store.Save(record); err != nil {
		return "", fmt.Errorf("save record %s: %w", record.ID, err)
	}

	s.metrics.RecordsCreated.Inc()
	s.metrics.RecordsStored.Inc()
	s.log.Debugf("stored record %s for %q on %s", record.ID, req.Location, req.Date)

	return record.ID, nil
}

// Get returns the record stored under id.
func (s *Service) Get(id string) (Record, error) {
	return s.store.Get(id)
}

// Count returns the number of stored records.
func (s *Service) Count() int {
	return s.store.Len()
}

func validateCreate(req CreateRequest) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ValidationError{Message: err.Error()}
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, strings.ToLower(fe.Field()))
	}
	return &ValidationError{
		Field:   strings.Join(fields, ", "),
		Message: "field required",
	}
}
