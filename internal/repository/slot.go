package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Tayyab-RIT/Campus-Connect-Backend/internal/models"

	"github.com/jackc/pgx/v5"
)

// SlotRepository handles database operations for tutoring slots
type SlotRepository struct {
	db DB
}

// NewSlotRepository creates a new slot repository
func NewSlotRepository(db DB) *SlotRepository {
	return &SlotRepository{db: db}
}

// Create creates a new slot with no bookings
func (r *SlotRepository) Create(ctx context.Context, slot *models.TutorSlot) error {
	query := `
		INSERT INTO tutor_slots (id, tutor_id, topic, slot_date, slot_time, duration, max_students, current_students, created_at)
		VALUES ($1, $2, $3, $4::text::date, $5::text::time, $6, $7, 0, $8)
	`
	_, err := r.db.Exec(ctx, query,
		slot.ID, slot.TutorID, slot.Topic, slot.Date, slot.Time,
		slot.Duration, slot.MaxStudents, slot.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create slot: %w", err)
	}
	slot.CurrentStudents = 0
	return nil
}

// GetByID retrieves a slot by ID
func (r *SlotRepository) GetByID(ctx context.Context, id string) (*models.TutorSlot, error) {
	query := `
		SELECT id, tutor_id, topic, to_char(slot_date, 'YYYY-MM-DD'), to_char(slot_time, 'HH24:MI'),
		       duration, max_students, current_students, created_at
		FROM tutor_slots
		WHERE id = $1
	`
	var slot models.TutorSlot
	err := r.db.QueryRow(ctx, query, id).Scan(
		&slot.ID, &slot.TutorID, &slot.Topic, &slot.Date, &slot.Time,
		&slot.Duration, &slot.MaxStudents, &slot.CurrentStudents, &slot.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return nil, fmt.Errorf("slot not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get slot: %w", err)
	}
	return &slot, nil
}

// List retrieves every slot with its tutor, soonest first
func (r *SlotRepository) List(ctx context.Context) ([]*models.SlotView, error) {
	query := `
		SELECT s.id, s.tutor_id, s.topic, to_char(s.slot_date, 'YYYY-MM-DD'), to_char(s.slot_time, 'HH24:MI'),
		       s.duration, s.max_students, s.current_students, s.created_at, pr.full_name
		FROM tutor_slots s
		LEFT JOIN profiles pr ON pr.user_id = s.tutor_id
		ORDER BY s.slot_date ASC, s.slot_time ASC, s.id ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get slots: %w", err)
	}
	defer rows.Close()

	var slots []*models.SlotView
	for rows.Next() {
		var slot models.SlotView
		err := rows.Scan(
			&slot.ID, &slot.TutorID, &slot.Topic, &slot.Date, &slot.Time,
			&slot.Duration, &slot.MaxStudents, &slot.CurrentStudents, &slot.CreatedAt,
			&slot.Tutor.FullName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan slot: %w", err)
		}
		slots = append(slots, &slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating slots: %w", err)
	}

	return slots, nil
}

// DeleteIfEmpty deletes a slot owned by tutorID that has no bookings.
// It reports false when no row matched, e.g. because a booking landed first.
func (r *SlotRepository) DeleteIfEmpty(ctx context.Context, id, tutorID string) (bool, error) {
	query := `DELETE FROM tutor_slots WHERE id = $1 AND tutor_id = $2 AND current_students = 0`
	result, err := r.db.Exec(ctx, query, id, tutorID)
	if err != nil {
		if isInvalidID(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to delete slot: %w", err)
	}
	return result.RowsAffected() > 0, nil
}
