package handlers

import (
	"context"

	"github.com/Gebril-Amor/HealMe/internal/models"
	"github.com/Gebril-Amor/HealMe/internal/repository"
	"github.com/gofiber/fiber/v2"
)

type therapistDirectory interface {
	ListTherapists(ctx context.Context, callerUserID int64) ([]models.TherapistSummary, error)
}

type therapistProfileStore interface {
	GetByID(ctx context.Context, id int64) (*models.TherapistProfile, error)
	Update(ctx context.Context, id int64, input repository.TherapistProfileInput) (*models.TherapistProfile, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type TherapistHandler struct {
	directory     therapistDirectory
	therapistRepo therapistProfileStore
}

func NewTherapistHandler(directory therapistDirectory, therapistRepo therapistProfileStore) *TherapistHandler {
	return &TherapistHandler{directory: directory, therapistRepo: therapistRepo}
}

// ListTherapists returns every therapist in the directory. When the caller
// is an authenticated patient each entry also carries that patient's unread
// count and last exchanged message; anonymous callers get zero defaults.
func (h *TherapistHandler) ListTherapists(c *fiber.Ctx) error {
	callerUserID, err := parseAuthUserID(c)
	if err != nil {
		callerUserID = 0
	}

	therapists, err := h.directory.ListTherapists(c.Context(), callerUserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list therapists"})
	}
	return c.JSON(therapists)
}

func (h *TherapistHandler) GetTherapist(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	profile, err := h.therapistRepo.GetByID(c.Context(), id)
	if err != nil {
		return mapResourceError(c, err, "therapist profile")
	}
	return c.JSON(profile)
}

func (h *TherapistHandler) UpdateTherapist(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	var input repository.TherapistProfileInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	profile, err := h.therapistRepo.Update(c.Context(), id, input)
	if err != nil {
		return mapResourceError(c, err, "therapist profile")
	}
	return c.JSON(profile)
}

func (h *TherapistHandler) DeleteTherapist(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	deleted, err := h.therapistRepo.Delete(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete therapist profile"})
	}
	if !deleted {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Therapist profile not found"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
