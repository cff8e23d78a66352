package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Tayyab-RIT/Campus-Connect-Backend/internal/models"
	"github.com/Tayyab-RIT/Campus-Connect-Backend/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	slotDateLayout = "2006-01-02"
	slotTimeLayout = "15:04"
)

// SlotInput holds the fields of a new tutoring slot
type SlotInput struct {
	Topic       string
	Date        string
	Time        string
	Duration    int
	MaxStudents int
}

// TutorService handles the tutoring marketplace and tutor role elevation
type TutorService struct {
	profiles ProfileStore
	slots    SlotStore
	bookings BookingStore
	cache    ProfileCache
}

// NewTutorService creates a new tutor service; cache may be nil
func NewTutorService(profiles ProfileStore, slots SlotStore, bookings BookingStore, cache ProfileCache) *TutorService {
	return &TutorService{
		profiles: profiles,
		slots:    slots,
		bookings: bookings,
		cache:    cache,
	}
}

// ListSlots returns every slot with its tutor, soonest first
func (s *TutorService) ListSlots(ctx context.Context) ([]*models.SlotView, error) {
	slots, err := s.slots.List(ctx)
	if err != nil {
		return nil, err
	}
	if slots == nil {
		slots = []*models.SlotView{}
	}
	return slots, nil
}

// CreateSlot opens a new slot owned by the caller, who must be a tutor
func (s *TutorService) CreateSlot(ctx context.Context, userID string, in SlotInput) (*models.TutorSlot, error) {
	if err := s.requireTutor(ctx, userID); err != nil {
		return nil, err
	}

	slot, err := newSlot(userID, in)
	if err != nil {
		return nil, err
	}

	if err := s.slots.Create(ctx, slot); err != nil {
		return nil, err
	}
	return slot, nil
}

// newSlot validates the input and builds an empty slot
func newSlot(tutorID string, in SlotInput) (*models.TutorSlot, error) {
	topic := strings.TrimSpace(in.Topic)
	if topic == "" {
		return nil, invalidInput("topic is required")
	}

	date, err := time.Parse(slotDateLayout, strings.TrimSpace(in.Date))
	if err != nil {
		return nil, invalidInput("date must be formatted as YYYY-MM-DD")
	}

	clock, err := parseClock(strings.TrimSpace(in.Time))
	if err != nil {
		return nil, invalidInput("time must be formatted as HH:MM")
	}

	if in.Duration <= 0 {
		return nil, invalidInput("duration must be a positive number of minutes")
	}
	if in.MaxStudents <= 0 {
		return nil, invalidInput("max_students must be positive")
	}

	return &models.TutorSlot{
		ID:              uuid.New().String(),
		TutorID:         tutorID,
		Topic:           topic,
		Date:            date.Format(slotDateLayout),
		Time:            clock.Format(slotTimeLayout),
		Duration:        in.Duration,
		MaxStudents:     in.MaxStudents,
		CurrentStudents: 0,
		CreatedAt:       time.Now().UTC(),
	}, nil
}

// parseClock accepts HH:MM and HH:MM:SS
func parseClock(v string) (time.Time, error) {
	t, err := time.Parse(slotTimeLayout, v)
	if err == nil {
		return t, nil
	}
	return time.Parse("15:04:05", v)
}

// BookSlot takes one seat of the slot for the student
func (s *TutorService) BookSlot(ctx context.Context, studentID, slotID string) (*models.TutorBooking, error) {
	slotID = strings.TrimSpace(slotID)
	if slotID == "" {
		return nil, invalidInput("slot_id is required")
	}

	booking := &models.TutorBooking{
		ID:        uuid.New().String(),
		SlotID:    slotID,
		StudentID: studentID,
		BookedAt:  time.Now().UTC(),
	}

	err := s.bookings.Book(ctx, booking)
	switch {
	case err == nil:
		bookingsTotal.WithLabelValues("booked").Inc()
		return booking, nil
	case errors.Is(err, repository.ErrSlotFull):
		bookingsTotal.WithLabelValues("full").Inc()
		return nil, ErrCapacityExceeded
	case errors.Is(err, repository.ErrNotFound):
		bookingsTotal.WithLabelValues("not_found").Inc()
		return nil, fmt.Errorf("slot %w", ErrNotFound)
	default:
		bookingsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
}

// ListBookings returns the bookings of every slot the tutor owns, newest first
func (s *TutorService) ListBookings(ctx context.Context, tutorID string) ([]*models.BookingView, error) {
	if err := s.requireTutor(ctx, tutorID); err != nil {
		return nil, err
	}

	bookings, err := s.bookings.ListByTutor(ctx, tutorID)
	if err != nil {
		return nil, err
	}
	if bookings == nil {
		bookings = []*models.BookingView{}
	}
	return bookings, nil
}

// DeleteSlot removes a slot the caller owns, provided nobody has booked it
func (s *TutorService) DeleteSlot(ctx context.Context, userID, slotID string) error {
	slot, err := s.slots.GetByID(ctx, slotID)
	if err != nil {
		return fromRepository(err, "slot")
	}
	if slot.CurrentStudents > 0 {
		return fmt.Errorf("%w: cannot delete a slot with bookings", ErrConflict)
	}
	if slot.TutorID != userID {
		return fmt.Errorf("%w: only the slot's tutor can delete it", ErrForbidden)
	}

	deleted, err := s.slots.DeleteIfEmpty(ctx, slotID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		// a booking landed between the read and the delete
		return fmt.Errorf("%w: cannot delete a slot with bookings", ErrConflict)
	}
	return nil
}

// BecomeTutor grants the tutor role to the caller; repeating it changes nothing
func (s *TutorService) BecomeTutor(ctx context.Context, userID string) (*models.Profile, error) {
	profile, err := s.profiles.SetTutor(ctx, userID)
	if err != nil {
		return nil, fromRepository(err, "profile")
	}

	if s.cache != nil && profile.Username != nil {
		if err := s.cache.Invalidate(ctx, *profile.Username); err != nil {
			log.Warn().Err(err).Str("user_id", userID).Msg("Failed to invalidate cached profile")
		}
	}
	return profile, nil
}

// requireTutor fails with ErrForbidden unless the user's profile is a tutor
func (s *TutorService) requireTutor(ctx context.Context, userID string) error {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: tutor role required", ErrForbidden)
		}
		return err
	}
	if !profile.IsTutor {
		return fmt.Errorf("%w: tutor role required", ErrForbidden)
	}
	return nil
}
