package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/Gebril-Amor/HealMe/internal/models"
	"github.com/Gebril-Amor/HealMe/internal/services"
	chatws "github.com/Gebril-Amor/HealMe/internal/websocket"
	"github.com/Gebril-Amor/HealMe/pkg/utils"
	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

type chatApplicationService interface {
	SendMessage(ctx context.Context, patientID, therapistID int64, content, senderRole string) (*services.ChatDelivery, error)
	ListConversation(ctx context.Context, patientID, therapistID int64) ([]models.Message, error)
	ListTherapistConversations(ctx context.Context, therapistID int64) ([]models.ConversationSummary, error)
	MarkConversationRead(ctx context.Context, patientID, therapistID int64, readerRole string) error
}

type messageLister interface {
	List(ctx context.Context, therapistID int64, limit, offset int) ([]models.Message, int, error)
}

type ChatHandler struct {
	service     chatApplicationService
	messageRepo messageLister
	hub         *chatws.Hub
	jwtSecret   string
}

func NewChatHandler(
	service chatApplicationService,
	messageRepo messageLister,
	hub *chatws.Hub,
	jwtSecret string,
) *ChatHandler {
	return &ChatHandler{
		service:     service,
		messageRepo: messageRepo,
		hub:         hub,
		jwtSecret:   jwtSecret,
	}
}

type sendMessageRequest struct {
	PatientID   int64  `json:"patient_id"`
	TherapistID int64  `json:"therapist_id"`
	Content     string `json:"content"`
	SenderRole  string `json:"sender_role"`
}

type markReadRequest struct {
	ReaderRole string `json:"reader_role"`
}

// SendMessage persists a message for a (patient, therapist) pair. Sender
// defaults to the patient side when omitted.
func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	var req sendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.PatientID <= 0 || req.TherapistID <= 0 || strings.TrimSpace(req.Content) == "" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "patient_id, therapist_id, and content are required"})
	}

	senderRole := req.SenderRole
	if senderRole == "" {
		senderRole = models.SenderPatient
	}
	if senderRole != models.SenderPatient && senderRole != models.SenderTherapist {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "sender_role must be either \"patient\" or \"therapist\""})
	}

	delivery, err := h.service.SendMessage(c.Context(), req.PatientID, req.TherapistID, req.Content, senderRole)
	if err != nil {
		return mapChatError(c, err)
	}

	h.hub.Publish(delivery)

	return c.Status(fiber.StatusCreated).JSON(delivery.Message)
}

// GetConversation returns all messages between a patient and a therapist,
// oldest first. Any authenticated caller may read any pair; per-pair
// authorization is not enforced yet.
func (h *ChatHandler) GetConversation(c *fiber.Ctx) error {
	patientID, therapistID, err := parsePairParams(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid conversation ids"})
	}

	messages, err := h.service.ListConversation(c.Context(), patientID, therapistID)
	if err != nil {
		return mapChatError(c, err)
	}

	return c.JSON(fiber.Map{"messages": messages})
}

// MarkConversationRead flips the unread flag on messages authored by the
// side opposite the declared reader.
func (h *ChatHandler) MarkConversationRead(c *fiber.Ctx) error {
	patientID, therapistID, err := parsePairParams(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid conversation ids"})
	}

	var req markReadRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.service.MarkConversationRead(c.Context(), patientID, therapistID, req.ReaderRole); err != nil {
		return mapChatError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Conversation marked as read"})
}

// TherapistConversations lists one summary per patient who has messaged
// with the therapist, most recently active first.
func (h *ChatHandler) TherapistConversations(c *fiber.Ctx) error {
	therapistID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || therapistID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid therapist id"})
	}

	summaries, err := h.service.ListTherapistConversations(c.Context(), therapistID)
	if err != nil {
		return mapChatError(c, err)
	}

	return c.JSON(fiber.Map{"conversations": summaries})
}

// ListMessages backs the messages resource collection with an optional
// therapist_id filter.
func (h *ChatHandler) ListMessages(c *fiber.Ctx) error {
	var therapistID int64
	if raw := c.Query("therapist_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid therapist_id"})
		}
		therapistID = parsed
	}

	page := parsePositiveInt(c.Query("page"), 1)
	limit := parsePositiveInt(c.Query("limit"), defaultPageLimit)
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	messages, total, err := h.messageRepo.List(c.Context(), therapistID, limit, (page-1)*limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list messages"})
	}

	return c.JSON(fiber.Map{
		"messages":   messages,
		"pagination": buildPaginationMeta(page, limit, total),
	})
}

func (h *ChatHandler) WebSocketAuth(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return c.Status(fiber.StatusUpgradeRequired).JSON(fiber.Map{"error": "WebSocket upgrade required"})
	}

	claims, err := h.parseWSClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
	}

	c.Locals("user_id", claims.UserID)
	c.Locals("role", claims.Role)
	return c.Next()
}

func (h *ChatHandler) HandleWebSocket(conn *websocket.Conn) {
	userID, _ := conn.Locals("user_id").(string)
	role, _ := conn.Locals("role").(string)
	client := chatws.NewClient(h.hub, conn, userID)

	h.hub.Register(client)
	go client.WritePump()
	client.ReadPump(h.service, role)
}

func (h *ChatHandler) parseWSClaims(c *fiber.Ctx) (*utils.Claims, error) {
	tokenString := strings.TrimSpace(c.Query("token"))
	if tokenString == "" {
		authHeader := strings.TrimSpace(c.Get("Authorization"))
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
	}

	if tokenString == "" {
		return nil, errors.New("missing token")
	}

	return utils.ValidateToken(tokenString, h.jwtSecret)
}

func parsePairParams(c *fiber.Ctx) (int64, int64, error) {
	patientID, err := strconv.ParseInt(c.Params("patientID"), 10, 64)
	if err != nil || patientID <= 0 {
		return 0, 0, errors.New("invalid patient id")
	}
	therapistID, err := strconv.ParseInt(c.Params("therapistID"), 10, 64)
	if err != nil || therapistID <= 0 {
		return 0, 0, errors.New("invalid therapist id")
	}
	return patientID, therapistID, nil
}

func mapChatError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	case errors.Is(err, services.ErrParticipantNotFound):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Patient or therapist not found"})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Conversation not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process chat request"})
	}
}
