package repository

import (
	"context"
	"fmt"

	"github.com/Tayyab-RIT/Campus-Connect-Backend/internal/models"
)

// BookingRepository handles database operations for tutoring bookings
type BookingRepository struct {
	db DB
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(db DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Book takes one seat of the slot and records the booking in a single transaction.
// The seat is taken with a guarded increment, so concurrent bookings never exceed
// max_students. Returns ErrNotFound for a missing slot and ErrSlotFull when no seat is left.
func (r *BookingRepository) Book(ctx context.Context, booking *models.TutorBooking) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx, `
		UPDATE tutor_slots
		SET current_students = current_students + 1
		WHERE id = $1 AND current_students < max_students
	`, booking.SlotID)
	if err != nil {
		if isInvalidID(err) {
			return fmt.Errorf("slot not found: %w", ErrNotFound)
		}
		return fmt.Errorf("failed to reserve seat: %w", err)
	}

	if result.RowsAffected() == 0 {
		var exists bool
		err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM tutor_slots WHERE id = $1)`, booking.SlotID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check slot existence: %w", err)
		}
		if !exists {
			return fmt.Errorf("slot not found: %w", ErrNotFound)
		}
		return ErrSlotFull
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO tutor_bookings (id, slot_id, student_id, booked_at)
		VALUES ($1, $2, $3, $4)
	`, booking.ID, booking.SlotID, booking.StudentID, booking.BookedAt)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit booking: %w", err)
	}
	return nil
}

// ListByTutor retrieves the bookings of every slot owned by the tutor, newest first
func (r *BookingRepository) ListByTutor(ctx context.Context, tutorID string) ([]*models.BookingView, error) {
	query := `
		SELECT b.id, b.slot_id, b.student_id, b.booked_at,
		       s.topic, to_char(s.slot_date, 'YYYY-MM-DD'), to_char(s.slot_time, 'HH24:MI')
		FROM tutor_bookings b
		JOIN tutor_slots s ON s.id = b.slot_id
		WHERE s.tutor_id = $1
		ORDER BY b.booked_at DESC, b.id DESC
	`
	rows, err := r.db.Query(ctx, query, tutorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.BookingView
	for rows.Next() {
		var b models.BookingView
		err := rows.Scan(
			&b.ID, &b.SlotID, &b.StudentID, &b.BookedAt,
			&b.Slot.Topic, &b.Slot.Date, &b.Slot.Time,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bookings: %w", err)
	}

	return bookings, nil
}
