package jogging

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/jogging-weather/internal/observability"
)

// Service runs the create and list pipelines.
type Service struct {
	store    Store
	enricher Enricher
	logger   *slog.Logger
}

// NewService creates a new Service.
func NewService(store Store, enricher Enricher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:    store,
		enricher: enricher,
		logger:   logger,
	}
}

// Create validates the payload, looks up the weather and persists one record
// owned by ownerID. Each step only starts once the previous one succeeded.
func (s *Service) Create(ctx context.Context, ownerID string, p Payload) (Record, error) {
	c, err := Validate(p)
	if err != nil {
		observability.RecordCreate(observability.OutcomeRejected)
		return Record{}, err
	}

	snapshot, err := s.enricher.Enrich(ctx, c.Latitude, c.Longitude, c.Date)
	if err != nil {
		s.logger.Warn("weather lookup failed",
			"owner_id", ownerID,
			"location", c.Location,
			"date", c.Date.Format(DateLayout),
			"error", err)
		observability.RecordCreate(observability.OutcomeUnavailable)
		return Record{}, fmt.Errorf("%w: %v", ErrConditionUnavailable, err)
	}

	// The caller is gone; nothing has been written yet, so nothing is saved.
	if err := ctx.Err(); err != nil {
		observability.RecordCreate(observability.OutcomeCancelled)
		return Record{}, err
	}

	rec := Record{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Location:  c.Location,
		Date:      c.Date,
		Distance:  c.Distance,
		Duration:  c.Duration,
		Weather:   snapshot,
		CreatedAt: time.Now().UTC(),
	}

	id, err := s.store.Save(ctx, rec)
	if err != nil {
		s.logger.Error("failed to save jogging result",
			"owner_id", ownerID,
			"record_id", rec.ID,
			"error", err)
		observability.RecordCreate(observability.OutcomeStoreFailed)
		return Record{}, fmt.Errorf("%w: %v", ErrStoreFailure, err)
	}
	rec.ID = id

	s.logger.Debug("jogging result saved", "owner_id", ownerID, "record_id", id)
	observability.RecordCreate(observability.OutcomeCreated)
	return rec, nil
}

// List returns one page of the records owned by ownerID.
func (s *Service) List(ctx context.Context, ownerID string, p Params) ([]Record, error) {
	q, err := Plan(ownerID, p)
	if err != nil {
		return nil, err
	}

	records, err := s.store.List(ctx, q)
	if err != nil {
		if IsClientError(err) {
			return nil, err
		}
		s.logger.Error("failed to list jogging results",
			"owner_id", ownerID,
			"page", q.Page,
			"limit", q.Limit,
			"error", err)
		return nil, fmt.Errorf("%w: %v", ErrStoreFailure, err)
	}
	return records, nil
}
