package handlers

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/Gebril-Amor/HealMe/internal/models"
	"github.com/Gebril-Amor/HealMe/internal/repository"
	"github.com/gofiber/fiber/v2"
)

type sessionStore interface {
	Create(ctx context.Context, input repository.TherapySessionInput) (*models.TherapySession, error)
	GetByID(ctx context.Context, sessionID int64) (*models.TherapySession, error)
	List(ctx context.Context, filter repository.SessionListFilter) ([]models.TherapySession, error)
	Update(ctx context.Context, sessionID int64, input repository.TherapySessionInput) (*models.TherapySession, error)
	Delete(ctx context.Context, sessionID int64) (bool, error)
}

type SessionHandler struct {
	sessionRepo sessionStore
}

func NewSessionHandler(sessionRepo sessionStore) *SessionHandler {
	return &SessionHandler{sessionRepo: sessionRepo}
}

type sessionRequest struct {
	PatientID   int64  `json:"patient_id"`
	TherapistID int64  `json:"therapist_id"`
	SessionDate string `json:"session_date"`
	SessionType string `json:"session_type"`
}

func (r sessionRequest) toInput() (repository.TherapySessionInput, string) {
	if r.PatientID <= 0 || r.TherapistID <= 0 {
		return repository.TherapySessionInput{}, "patient_id and therapist_id are required"
	}
	sessionDate, err := parseSessionDate(r.SessionDate)
	if err != nil {
		return repository.TherapySessionInput{}, "session_date is required (RFC 3339)"
	}
	if strings.TrimSpace(r.SessionType) == "" {
		return repository.TherapySessionInput{}, "session_type is required"
	}
	return repository.TherapySessionInput{
		PatientID:   r.PatientID,
		TherapistID: r.TherapistID,
		SessionDate: sessionDate,
		SessionType: r.SessionType,
	}, ""
}

func (h *SessionHandler) CreateSession(c *fiber.Ctx) error {
	var req sessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	input, errMsg := req.toInput()
	if errMsg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": errMsg})
	}

	session, err := h.sessionRepo.Create(c.Context(), input)
	if err != nil {
		return mapResourceError(c, err, "therapy session")
	}
	return c.Status(fiber.StatusCreated).JSON(session)
}

func (h *SessionHandler) GetSession(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	session, err := h.sessionRepo.GetByID(c.Context(), id)
	if err != nil {
		return mapResourceError(c, err, "therapy session")
	}
	return c.JSON(session)
}

// ListSessions supports optional patient_id and therapist_id query filters;
// results come back in chronological order.
func (h *SessionHandler) ListSessions(c *fiber.Ctx) error {
	var filter repository.SessionListFilter
	if raw := c.Query("patient_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid patient_id filter"})
		}
		filter.PatientID = id
	}
	if raw := c.Query("therapist_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid therapist_id filter"})
		}
		filter.TherapistID = id
	}

	sessions, err := h.sessionRepo.List(c.Context(), filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list sessions"})
	}
	return c.JSON(sessions)
}

func (h *SessionHandler) UpdateSession(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	var req sessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	input, errMsg := req.toInput()
	if errMsg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": errMsg})
	}

	session, err := h.sessionRepo.Update(c.Context(), id, input)
	if err != nil {
		return mapResourceError(c, err, "therapy session")
	}
	return c.JSON(session)
}

func (h *SessionHandler) DeleteSession(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	deleted, err := h.sessionRepo.Delete(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete session"})
	}
	if !deleted {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// parseSessionDate accepts a full timestamp or a bare date for sessions
// scheduled without a time of day.
func parseSessionDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", value)
}
