package meetup

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Store is what the policy layer needs from persistence. Implementations
// hold no business rules; field validity is guaranteed by the caller.
type Store interface {
	// CreateMeetup persists m and assigns its ID.
	CreateMeetup(ctx context.Context, m *Meetup) error

	// FindMeetupByID returns ErrNotFound when no meetup has that id.
	FindMeetupByID(ctx context.Context, id string) (*Meetup, error)

	// ListMeetups returns meetups whose date falls within the filter
	// bounds (inclusive), in stable date order, one page at a time,
	// with Owner populated.
	ListMeetups(ctx context.Context, filter ListFilter) ([]*Meetup, error)

	// UpdateMeetup applies the non-nil fields of in and returns the
	// updated meetup. The owner is never an updatable field.
	UpdateMeetup(ctx context.Context, id string, in UpdateMeetupInput) (*Meetup, error)

	DeleteMeetup(ctx context.Context, id string) error
}

// Cache is an optional read-through cache for point lookups.
type Cache interface {
	Get(ctx context.Context, id string) (*Meetup, error)
	Set(ctx context.Context, m *Meetup) error
	Remove(ctx context.Context, id string) error
}

// Publisher emits integration events after successful writes.
type Publisher interface {
	Publish(eventName string, data interface{}) error
}

// Service enforces the meetup lifecycle rules: who may change what, and
// when. Every operation takes the authenticated caller's id explicitly.
type Service struct {
	store     Store
	cache     Cache
	publisher Publisher
	validate  *validator.Validate
	logger    *zap.Logger

	// now returns the current time. Swapped out in tests.
	now func() time.Time
}

func NewService(store Store, cache Cache, publisher Publisher, logger *zap.Logger) *Service {
	return &Service{
		store:     store,
		cache:     cache,
		publisher: publisher,
		validate:  validator.New(),
		logger:    logger,
		now:       time.Now,
	}
}

// List returns one page of meetups. When date is non-empty it must be a
// YYYY-MM-DD calendar day and the listing is narrowed to that day's
// inclusive window. Listing is shared: no ownership filtering is applied,
// any authenticated caller sees everyone's meetups.
func (s *Service) List(ctx context.Context, date string, page int) ([]*Meetup, error) {
	filter := ListFilter{Page: page}
	if filter.Page < 1 {
		filter.Page = 1
	}

	if date != "" {
		day, err := time.ParseInLocation("2006-01-02", date, s.now().Location())
		if err != nil {
			return nil, &ValidationError{Err: err}
		}
		from, to := DayWindow(day)
		filter.From = &from
		filter.To = &to
	}

	meetups, err := s.store.ListMeetups(ctx, filter)
	if err != nil {
		s.logger.Error("listing meetups", zap.Error(err))
		return nil, err
	}

	return meetups, nil
}

// Find returns a single meetup by id, serving from the cache when it can.
func (s *Service) Find(ctx context.Context, id string) (*Meetup, error) {
	if s.cache != nil {
		m, err := s.cache.Get(ctx, id)
		if err == nil {
			return m, nil
		}
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn("reading meetup from cache", zap.String("id", id), zap.Error(err))
		}
	}

	m, err := s.store.FindMeetupByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.fillCache(ctx, m)

	return m, nil
}

// Create validates the payload, refuses dates that are not strictly in
// the future, and pins the new meetup's owner to the caller regardless of
// the payload.
func (s *Service) Create(ctx context.Context, callerID string, in CreateMeetupInput) (*Meetup, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, &ValidationError{Err: err}
	}

	if !in.Date.After(s.now()) {
		return nil, ErrInvalidDate
	}

	m := &Meetup{
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		Date:        in.Date,
		OwnerID:     callerID,
		CreatedAt:   s.now(),
	}

	if err := s.store.CreateMeetup(ctx, m); err != nil {
		s.logger.Error("creating meetup", zap.Error(err))
		return nil, err
	}

	s.fillCache(ctx, m)
	s.publish("meetup.created", m)

	return m, nil
}

// Update applies a partial update to a meetup the caller owns. Checks run
// in a fixed order: payload validation, existence, ownership, the
// future-date rule when a new date is supplied, and finally the past
// guard — a meetup that has already happened is immutable no matter what
// the payload contains.
func (s *Service) Update(ctx context.Context, callerID, id string, in UpdateMeetupInput) (*Meetup, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, &ValidationError{Err: err}
	}

	m, err := s.store.FindMeetupByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if m.OwnerID != callerID {
		return nil, ErrNotAuthorized
	}

	if in.Date != nil && !in.Date.After(s.now()) {
		return nil, ErrInvalidDate
	}

	if m.IsPast(s.now()) {
		return nil, ErrPastMeetup
	}

	updated, err := s.store.UpdateMeetup(ctx, id, in)
	if err != nil {
		s.logger.Error("updating meetup", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.fillCache(ctx, updated)
	s.publish("meetup.updated", updated)

	return updated, nil
}

// Cancel deletes a meetup the caller owns, provided it has not already
// happened. Deletion is final.
func (s *Service) Cancel(ctx context.Context, callerID, id string) error {
	m, err := s.store.FindMeetupByID(ctx, id)
	if err != nil {
		return err
	}

	if m.OwnerID != callerID {
		return ErrNotAuthorized
	}

	if m.IsPast(s.now()) {
		return ErrPastMeetup
	}

	if err := s.store.DeleteMeetup(ctx, id); err != nil {
		s.logger.Error("deleting meetup", zap.String("id", id), zap.Error(err))
		return err
	}

	if s.cache != nil {
		if err := s.cache.Remove(ctx, id); err != nil {
			s.logger.Warn("evicting meetup from cache", zap.String("id", id), zap.Error(err))
		}
	}
	s.publish("meetup.canceled", m)

	return nil
}

func (s *Service) fillCache(ctx context.Context, m *Meetup) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, m); err != nil {
		s.logger.Warn("caching meetup", zap.String("id", m.ID), zap.Error(err))
	}
}

// publish emits an integration event. The row is already durable, so a
// broker failure is logged rather than failing the request.
func (s *Service) publish(eventName string, m *Meetup) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(eventName, m); err != nil {
		s.logger.Warn("publishing "+eventName, zap.String("id", m.ID), zap.Error(err))
	}
}

// IsValidation reports whether err is a schema validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsStoreFailure reports whether err came from the persistence layer.
func IsStoreFailure(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
