package handlers

import (
	"context"
	"errors"
	"log"

	"github.com/Gebril-Amor/HealMe/internal/services"
	"github.com/gofiber/fiber/v2"
)

type insightApplicationService interface {
	MoodInsight(ctx context.Context, userID int64) (string, error)
	SleepInsight(ctx context.Context, userID int64) (string, error)
	JournalInsight(ctx context.Context, userID int64) (string, error)
	ChatReply(ctx context.Context, message string) (string, error)
}

type InsightHandler struct {
	service insightApplicationService
}

func NewInsightHandler(service insightApplicationService) *InsightHandler {
	return &InsightHandler{service: service}
}

func (h *InsightHandler) MoodInsight(c *fiber.Ctx) error {
	return h.insight(c, h.service.MoodInsight)
}

func (h *InsightHandler) SleepInsight(c *fiber.Ctx) error {
	return h.insight(c, h.service.SleepInsight)
}

func (h *InsightHandler) JournalInsight(c *fiber.Ctx) error {
	return h.insight(c, h.service.JournalInsight)
}

func (h *InsightHandler) insight(c *fiber.Ctx, generate func(ctx context.Context, userID int64) (string, error)) error {
	userID, err := parseIDParam(c, "userID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}

	text, err := generate(c.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
		}
		// Upstream failures stay opaque to the client.
		log.Printf("insight generation failed for user %d: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate insight"})
	}
	return c.JSON(fiber.Map{"insight": text})
}

type chatReplyRequest struct {
	Message string `json:"message"`
}

func (h *InsightHandler) ChatReply(c *fiber.Ctx) error {
	var req chatReplyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	reply, err := h.service.ChatReply(c.Context(), req.Message)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "message is required"})
		}
		log.Printf("chat reply failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate reply"})
	}
	return c.JSON(fiber.Map{"reply": reply})
}
