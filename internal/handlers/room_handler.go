package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/Gebril-Amor/HealMe/internal/models"
	"github.com/Gebril-Amor/HealMe/internal/repository"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type roomStore interface {
	Create(ctx context.Context, input repository.RoomInput) (*models.Room, error)
	GetByID(ctx context.Context, roomID int64) (*models.Room, error)
	List(ctx context.Context) ([]models.Room, error)
	Update(ctx context.Context, roomID int64, input repository.RoomInput) (*models.Room, error)
	Delete(ctx context.Context, roomID int64) (bool, error)
	AddMember(ctx context.Context, roomID, patientID int64) error
	RemoveMember(ctx context.Context, roomID, patientID int64) (bool, error)
	ListMembers(ctx context.Context, roomID int64) ([]models.PatientSummary, error)
}

type RoomHandler struct {
	roomRepo roomStore
}

func NewRoomHandler(roomRepo roomStore) *RoomHandler {
	return &RoomHandler{roomRepo: roomRepo}
}

func (h *RoomHandler) CreateRoom(c *fiber.Ctx) error {
	var input repository.RoomInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if strings.TrimSpace(input.Name) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
	}

	room, err := h.roomRepo.Create(c.Context(), input)
	if err != nil {
		return mapResourceError(c, err, "room")
	}
	return c.Status(fiber.StatusCreated).JSON(room)
}

// GetRoom returns the room together with its patient membership roster.
func (h *RoomHandler) GetRoom(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	room, err := h.roomRepo.GetByID(c.Context(), id)
	if err != nil {
		return mapResourceError(c, err, "room")
	}

	members, err := h.roomRepo.ListMembers(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load room members"})
	}

	return c.JSON(models.RoomDetail{Room: *room, Members: members})
}

func (h *RoomHandler) ListRooms(c *fiber.Ctx) error {
	rooms, err := h.roomRepo.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list rooms"})
	}
	return c.JSON(rooms)
}

func (h *RoomHandler) UpdateRoom(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	var input repository.RoomInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if strings.TrimSpace(input.Name) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
	}

	room, err := h.roomRepo.Update(c.Context(), id, input)
	if err != nil {
		return mapResourceError(c, err, "room")
	}
	return c.JSON(room)
}

func (h *RoomHandler) DeleteRoom(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	deleted, err := h.roomRepo.Delete(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete room"})
	}
	if !deleted {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Room not found"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type roomMemberRequest struct {
	PatientID int64 `json:"patient_id"`
}

// AddMember enrolls a patient in a room. Re-adding an existing member is a
// no-op, not an error.
func (h *RoomHandler) AddMember(c *fiber.Ctx) error {
	roomID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	var req roomMemberRequest
	if err := c.BodyParser(&req); err != nil || req.PatientID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "patient_id is required"})
	}

	if err := h.roomRepo.AddMember(c.Context(), roomID, req.PatientID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Room or patient not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to add room member"})
	}
	return c.JSON(fiber.Map{"message": "Member added"})
}

func (h *RoomHandler) RemoveMember(c *fiber.Ctx) error {
	roomID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}
	patientID, err := parseIDParam(c, "patientID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid patient id"})
	}

	removed, err := h.roomRepo.RemoveMember(c.Context(), roomID, patientID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to remove room member"})
	}
	if !removed {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Membership not found"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *RoomHandler) ListMembers(c *fiber.Ctx) error {
	roomID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	if _, err := h.roomRepo.GetByID(c.Context(), roomID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Room not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load room"})
	}

	members, err := h.roomRepo.ListMembers(c.Context(), roomID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list room members"})
	}
	return c.JSON(members)
}
