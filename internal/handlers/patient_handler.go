package handlers

import (
	"context"

	"github.com/Gebril-Amor/HealMe/internal/models"
	"github.com/Gebril-Amor/HealMe/internal/repository"
	"github.com/gofiber/fiber/v2"
)

type patientProfileStore interface {
	GetByID(ctx context.Context, id int64) (*models.PatientProfile, error)
	List(ctx context.Context) ([]models.PatientProfile, error)
	ListSummaries(ctx context.Context) ([]models.PatientSummary, error)
	Update(ctx context.Context, id int64, input repository.PatientProfileInput) (*models.PatientProfile, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type PatientHandler struct {
	patientRepo patientProfileStore
}

func NewPatientHandler(patientRepo patientProfileStore) *PatientHandler {
	return &PatientHandler{patientRepo: patientRepo}
}

// AllPatients returns the lightweight roster used by therapist-facing
// screens: profile id, username and email per patient.
func (h *PatientHandler) AllPatients(c *fiber.Ctx) error {
	patients, err := h.patientRepo.ListSummaries(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list patients"})
	}
	return c.JSON(patients)
}

func (h *PatientHandler) ListPatients(c *fiber.Ctx) error {
	patients, err := h.patientRepo.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list patients"})
	}
	return c.JSON(patients)
}

func (h *PatientHandler) GetPatient(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	profile, err := h.patientRepo.GetByID(c.Context(), id)
	if err != nil {
		return mapResourceError(c, err, "patient profile")
	}
	return c.JSON(profile)
}

func (h *PatientHandler) UpdatePatient(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	var req struct {
		Phone     *string `json:"phone"`
		BirthDate *string `json:"birth_date"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	input := repository.PatientProfileInput{Phone: req.Phone}
	if req.BirthDate != nil && *req.BirthDate != "" {
		parsed, err := parseEntryDate(*req.BirthDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "birth_date must be YYYY-MM-DD"})
		}
		input.BirthDate = &parsed
	}

	profile, err := h.patientRepo.Update(c.Context(), id, input)
	if err != nil {
		return mapResourceError(c, err, "patient profile")
	}
	return c.JSON(profile)
}

func (h *PatientHandler) DeletePatient(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	deleted, err := h.patientRepo.Delete(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete patient profile"})
	}
	if !deleted {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Patient profile not found"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
