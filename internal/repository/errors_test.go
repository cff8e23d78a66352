package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Tayyab-RIT/Campus-Connect-Backend/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pgError(code string) error {
	return fmt.Errorf("query failed: %w", &pgconn.PgError{Code: code, Message: "raw database message"})
}

func TestSlotRepository_GetByIDMalformedID(t *testing.T) {
	mock := newMock(t)
	repo := NewSlotRepository(mock)

	mock.ExpectQuery(`FROM tutor_slots\s+WHERE id = \$1`).
		WithArgs("abc").
		WillReturnError(pgError("22P02"))

	_, err := repo.GetByID(context.Background(), "abc")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotContains(t, err.Error(), "raw database message")
}

func TestSlotRepository_DeleteIfEmptyMalformedID(t *testing.T) {
	mock := newMock(t)
	repo := NewSlotRepository(mock)

	mock.ExpectExec(`DELETE FROM tutor_slots`).
		WithArgs("abc", "t-1").
		WillReturnError(pgError("22P02"))

	deleted, err := repo.DeleteIfEmpty(context.Background(), "abc", "t-1")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestBookingRepository_BookMalformedSlotID(t *testing.T) {
	mock := newMock(t)
	repo := NewBookingRepository(mock)

	mock.ExpectBegin()
	mock.ExpectExec(reserveSeat).WithArgs("abc").WillReturnError(pgError("22P02"))
	mock.ExpectRollback()

	booking := newBooking()
	booking.SlotID = "abc"
	err := repo.Book(context.Background(), booking)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLikeAndCommentRepositories_MissingPost(t *testing.T) {
	for _, code := range []string{"22P02", "23503"} {
		t.Run(code, func(t *testing.T) {
			mock := newMock(t)

			mock.ExpectExec(`INSERT INTO likes`).
				WithArgs("l-1", "p-x", "u-1", pgxmock.AnyArg()).
				WillReturnError(pgError(code))
			mock.ExpectExec(`INSERT INTO comments`).
				WithArgs("c-1", "p-x", "u-1", "hi", pgxmock.AnyArg()).
				WillReturnError(pgError(code))

			err := NewLikeRepository(mock).Create(context.Background(),
				&models.Like{ID: "l-1", PostID: "p-x", UserID: "u-1", CreatedAt: time.Now()})
			assert.ErrorIs(t, err, ErrNotFound)

			err = NewCommentRepository(mock).Create(context.Background(),
				&models.Comment{ID: "c-1", PostID: "p-x", UserID: "u-1", Content: "hi", CreatedAt: time.Now()})
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestDeletesWithMalformedIDRemoveNothing(t *testing.T) {
	mock := newMock(t)

	mock.ExpectExec(`DELETE FROM likes`).
		WithArgs("abc", "u-1").
		WillReturnError(pgError("22P02"))
	mock.ExpectExec(`DELETE FROM posts WHERE id = \$1`).
		WithArgs("abc").
		WillReturnError(pgError("22P02"))

	n, err := NewLikeRepository(mock).Delete(context.Background(), "abc", "u-1")
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, NewPostRepository(mock).Delete(context.Background(), "abc"))
}

func TestOtherDatabaseErrorsPassThrough(t *testing.T) {
	mock := newMock(t)

	mock.ExpectExec(`INSERT INTO likes`).
		WithArgs("l-1", "p-1", "u-1", pgxmock.AnyArg()).
		WillReturnError(pgError("57014"))

	err := NewLikeRepository(mock).Create(context.Background(),
		&models.Like{ID: "l-1", PostID: "p-1", UserID: "u-1", CreatedAt: time.Now()})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "failed to create like")
}
