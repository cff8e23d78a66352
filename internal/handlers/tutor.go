package handlers

import (
	"context"
	"net/http"

	"github.com/Tayyab-RIT/Campus-Connect-Backend/internal/middleware"
	"github.com/Tayyab-RIT/Campus-Connect-Backend/internal/models"
	"github.com/Tayyab-RIT/Campus-Connect-Backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// TutorService is what TutorHandler needs
type TutorService interface {
	ListSlots(ctx context.Context) ([]*models.SlotView, error)
	CreateSlot(ctx context.Context, userID string, in services.SlotInput) (*models.TutorSlot, error)
	BookSlot(ctx context.Context, studentID, slotID string) (*models.TutorBooking, error)
	ListBookings(ctx context.Context, tutorID string) ([]*models.BookingView, error)
	DeleteSlot(ctx context.Context, userID, slotID string) error
	BecomeTutor(ctx context.Context, userID string) (*models.Profile, error)
}

// TutorHandler handles tutoring marketplace HTTP requests
type TutorHandler struct {
	tutorService TutorService
}

// NewTutorHandler creates a new tutor handler
func NewTutorHandler(tutorService TutorService) *TutorHandler {
	return &TutorHandler{
		tutorService: tutorService,
	}
}

// CreateSlotRequest is the body of POST /auth/tutor/slots
type CreateSlotRequest struct {
	Topic       string `json:"topic" validate:"required,max=200"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Time        string `json:"time" validate:"required"`
	Duration    int    `json:"duration" validate:"required,gt=0"`
	MaxStudents int    `json:"max_students" validate:"required,gt=0"`
}

// BookSlotRequest is the body of POST /auth/tutor/book
type BookSlotRequest struct {
	SlotID string `json:"slot_id" validate:"required"`
}

// ListSlots handles GET /auth/tutor/slots
func (h *TutorHandler) ListSlots(w http.ResponseWriter, r *http.Request) {
	slots, err := h.tutorService.ListSlots(r.Context())
	if err != nil {
		respondServiceError(w, r, err, "Failed to list slots")
		return
	}

	respondJSON(w, http.StatusOK, Response{Data: slots})
}

// CreateSlot handles POST /auth/tutor/slots
func (h *TutorHandler) CreateSlot(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req CreateSlotRequest
	if err := decodeJSON(r, &req); err != nil {
		respondServiceError(w, r, err, "Invalid create slot request")
		return
	}

	slot, err := h.tutorService.CreateSlot(r.Context(), userID, services.SlotInput{
		Topic:       req.Topic,
		Date:        req.Date,
		Time:        req.Time,
		Duration:    req.Duration,
		MaxStudents: req.MaxStudents,
	})
	if err != nil {
		respondServiceError(w, r, err, "Failed to create slot")
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("slot_id", slot.ID).
		Msg("Slot created")

	respondJSON(w, http.StatusCreated, Response{Message: "Slot created successfully", Data: slot})
}

// BookSlot handles POST /auth/tutor/book
func (h *TutorHandler) BookSlot(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req BookSlotRequest
	if err := decodeJSON(r, &req); err != nil {
		respondServiceError(w, r, err, "Invalid booking request")
		return
	}

	booking, err := h.tutorService.BookSlot(r.Context(), userID, req.SlotID)
	if err != nil {
		respondServiceError(w, r, err, "Failed to book slot")
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("slot_id", req.SlotID).
		Msg("Slot booked")

	respondJSON(w, http.StatusCreated, Response{Message: "Slot booked successfully", Data: booking})
}

// ListBookings handles GET /auth/tutor/bookings
func (h *TutorHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	bookings, err := h.tutorService.ListBookings(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err, "Failed to list bookings")
		return
	}

	respondJSON(w, http.StatusOK, Response{Data: bookings})
}

// DeleteSlot handles DELETE /auth/tutor/slots/{slotId}
func (h *TutorHandler) DeleteSlot(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	slotID := chi.URLParam(r, "slotId")

	if err := h.tutorService.DeleteSlot(r.Context(), userID, slotID); err != nil {
		respondServiceError(w, r, err, "Failed to delete slot")
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("slot_id", slotID).
		Msg("Slot deleted")

	respondJSON(w, http.StatusOK, Response{Message: "Slot deleted successfully"})
}

// BecomeTutor handles POST /auth/become-tutor
func (h *TutorHandler) BecomeTutor(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	profile, err := h.tutorService.BecomeTutor(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err, "Failed to become tutor")
		return
	}

	respondJSON(w, http.StatusOK, Response{Message: "You are now a tutor", Data: profile})
}
