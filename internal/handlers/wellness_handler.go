package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/Gebril-Amor/HealMe/internal/models"
	"github.com/Gebril-Amor/HealMe/internal/repository"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type moodStore interface {
	Create(ctx context.Context, input repository.MoodEntryInput) (*models.MoodEntry, error)
	GetByID(ctx context.Context, id int64) (*models.MoodEntry, error)
	List(ctx context.Context) ([]models.MoodEntry, error)
	ListByUser(ctx context.Context, userID int64) ([]models.MoodEntry, error)
	Update(ctx context.Context, id int64, input repository.MoodEntryInput) (*models.MoodEntry, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type sleepStore interface {
	Create(ctx context.Context, input repository.SleepEntryInput) (*models.SleepEntry, error)
	GetByID(ctx context.Context, id int64) (*models.SleepEntry, error)
	List(ctx context.Context) ([]models.SleepEntry, error)
	ListByUser(ctx context.Context, userID int64) ([]models.SleepEntry, error)
	Update(ctx context.Context, id int64, input repository.SleepEntryInput) (*models.SleepEntry, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type journalStore interface {
	Create(ctx context.Context, input repository.JournalEntryInput) (*models.JournalEntry, error)
	GetByID(ctx context.Context, id int64) (*models.JournalEntry, error)
	List(ctx context.Context) ([]models.JournalEntry, error)
	ListByUser(ctx context.Context, userID int64) ([]models.JournalEntry, error)
	Update(ctx context.Context, id int64, input repository.JournalEntryInput) (*models.JournalEntry, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type WellnessHandler struct {
	moodRepo    moodStore
	sleepRepo   sleepStore
	journalRepo journalStore
}

func NewWellnessHandler(moodRepo moodStore, sleepRepo sleepStore, journalRepo journalStore) *WellnessHandler {
	return &WellnessHandler{
		moodRepo:    moodRepo,
		sleepRepo:   sleepRepo,
		journalRepo: journalRepo,
	}
}

type moodRequest struct {
	UserID      int64  `json:"user_id"`
	EntryDate   string `json:"entry_date"`
	Level       int    `json:"level"`
	Description string `json:"description"`
}

type sleepRequest struct {
	UserID        int64   `json:"user_id"`
	EntryDate     string  `json:"entry_date"`
	DurationHours float64 `json:"duration_hours"`
	Quality       string  `json:"quality"`
}

type journalRequest struct {
	UserID    int64  `json:"user_id"`
	EntryDate string `json:"entry_date"`
	Content   string `json:"content"`
}

// GetUserMood returns all mood entries for a user, newest first. An empty
// list is a valid response, not an error.
func (h *WellnessHandler) GetUserMood(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "userID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}

	entries, err := h.moodRepo.ListByUser(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
	return c.JSON(entries)
}

func (h *WellnessHandler) GetUserSleep(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "userID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}

	entries, err := h.sleepRepo.ListByUser(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
	return c.JSON(entries)
}

func (h *WellnessHandler) GetUserJournal(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "userID")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}

	entries, err := h.journalRepo.ListByUser(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
	return c.JSON(entries)
}

func (h *WellnessHandler) ListMoods(c *fiber.Ctx) error {
	entries, err := h.moodRepo.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list moods"})
	}
	return c.JSON(entries)
}

func (h *WellnessHandler) CreateMood(c *fiber.Ctx) error {
	var req moodRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	input, errMsg := buildMoodInput(req)
	if errMsg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": errMsg})
	}

	entry, err := h.moodRepo.Create(c.Context(), input)
	if err != nil {
		return mapResourceError(c, err, "mood entry")
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

func (h *WellnessHandler) GetMood(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	entry, err := h.moodRepo.GetByID(c.Context(), id)
	if err != nil {
		return mapResourceError(c, err, "mood entry")
	}
	return c.JSON(entry)
}

func (h *WellnessHandler) UpdateMood(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	var req moodRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	input, errMsg := buildMoodInput(req)
	if errMsg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": errMsg})
	}

	entry, err := h.moodRepo.Update(c.Context(), id, input)
	if err != nil {
		return mapResourceError(c, err, "mood entry")
	}
	return c.JSON(entry)
}

func (h *WellnessHandler) DeleteMood(c *fiber.Ctx) error {
	return h.deleteEntry(c, func(ctx context.Context, id int64) (bool, error) {
		return h.moodRepo.Delete(ctx, id)
	}, "mood entry")
}

func (h *WellnessHandler) ListSleep(c *fiber.Ctx) error {
	entries, err := h.sleepRepo.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list sleep entries"})
	}
	return c.JSON(entries)
}

func (h *WellnessHandler) CreateSleep(c *fiber.Ctx) error {
	var req sleepRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	input, errMsg := buildSleepInput(req)
	if errMsg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": errMsg})
	}

	entry, err := h.sleepRepo.Create(c.Context(), input)
	if err != nil {
		return mapResourceError(c, err, "sleep entry")
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

func (h *WellnessHandler) GetSleep(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	entry, err := h.sleepRepo.GetByID(c.Context(), id)
	if err != nil {
		return mapResourceError(c, err, "sleep entry")
	}
	return c.JSON(entry)
}

func (h *WellnessHandler) UpdateSleep(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	var req sleepRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	input, errMsg := buildSleepInput(req)
	if errMsg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": errMsg})
	}

	entry, err := h.sleepRepo.Update(c.Context(), id, input)
	if err != nil {
		return mapResourceError(c, err, "sleep entry")
	}
	return c.JSON(entry)
}

func (h *WellnessHandler) DeleteSleep(c *fiber.Ctx) error {
	return h.deleteEntry(c, func(ctx context.Context, id int64) (bool, error) {
		return h.sleepRepo.Delete(ctx, id)
	}, "sleep entry")
}

func (h *WellnessHandler) ListJournals(c *fiber.Ctx) error {
	entries, err := h.journalRepo.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list journal entries"})
	}
	return c.JSON(entries)
}

func (h *WellnessHandler) CreateJournal(c *fiber.Ctx) error {
	var req journalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	input, errMsg := buildJournalInput(req)
	if errMsg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": errMsg})
	}

	entry, err := h.journalRepo.Create(c.Context(), input)
	if err != nil {
		return mapResourceError(c, err, "journal entry")
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

func (h *WellnessHandler) GetJournal(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	entry, err := h.journalRepo.GetByID(c.Context(), id)
	if err != nil {
		return mapResourceError(c, err, "journal entry")
	}
	return c.JSON(entry)
}

func (h *WellnessHandler) UpdateJournal(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	var req journalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	input, errMsg := buildJournalInput(req)
	if errMsg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": errMsg})
	}

	entry, err := h.journalRepo.Update(c.Context(), id, input)
	if err != nil {
		return mapResourceError(c, err, "journal entry")
	}
	return c.JSON(entry)
}

func (h *WellnessHandler) DeleteJournal(c *fiber.Ctx) error {
	return h.deleteEntry(c, func(ctx context.Context, id int64) (bool, error) {
		return h.journalRepo.Delete(ctx, id)
	}, "journal entry")
}

func (h *WellnessHandler) deleteEntry(
	c *fiber.Ctx,
	del func(ctx context.Context, id int64) (bool, error),
	kind string,
) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	deleted, err := del(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete " + kind})
	}
	if !deleted {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": titleFirst(kind) + " not found"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func buildMoodInput(req moodRequest) (repository.MoodEntryInput, string) {
	if req.UserID <= 0 {
		return repository.MoodEntryInput{}, "user_id is required"
	}
	entryDate, err := parseEntryDate(req.EntryDate)
	if err != nil {
		return repository.MoodEntryInput{}, "entry_date is required (YYYY-MM-DD)"
	}
	return repository.MoodEntryInput{
		UserID:      req.UserID,
		EntryDate:   entryDate,
		Level:       req.Level,
		Description: req.Description,
	}, ""
}

func buildSleepInput(req sleepRequest) (repository.SleepEntryInput, string) {
	if req.UserID <= 0 {
		return repository.SleepEntryInput{}, "user_id is required"
	}
	entryDate, err := parseEntryDate(req.EntryDate)
	if err != nil {
		return repository.SleepEntryInput{}, "entry_date is required (YYYY-MM-DD)"
	}
	if req.DurationHours < 0 {
		return repository.SleepEntryInput{}, "duration_hours must not be negative"
	}
	return repository.SleepEntryInput{
		UserID:        req.UserID,
		EntryDate:     entryDate,
		DurationHours: req.DurationHours,
		Quality:       req.Quality,
	}, ""
}

func buildJournalInput(req journalRequest) (repository.JournalEntryInput, string) {
	if req.UserID <= 0 {
		return repository.JournalEntryInput{}, "user_id is required"
	}
	entryDate, err := parseEntryDate(req.EntryDate)
	if err != nil {
		return repository.JournalEntryInput{}, "entry_date is required (YYYY-MM-DD)"
	}
	if strings.TrimSpace(req.Content) == "" {
		return repository.JournalEntryInput{}, "content is required"
	}
	return repository.JournalEntryInput{
		UserID:    req.UserID,
		EntryDate: entryDate,
		Content:   req.Content,
	}, ""
}

// parseEntryDate accepts a calendar date or a full RFC 3339 timestamp.
func parseEntryDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if parsed, err := time.Parse("2006-01-02", value); err == nil {
		return parsed, nil
	}
	return time.Parse(time.RFC3339, value)
}

func titleFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func parseIDParam(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// mapResourceError turns repository failures on single-record operations
// into the resource error contract: unknown id is 404, broken references
// are the caller's fault, anything else is a generic 500.
func mapResourceError(c *fiber.Ctx, err error, kind string) error {
	var pgErr *pgconn.PgError
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": titleFirst(kind) + " not found"})
	case errors.As(err, &pgErr) && pgErr.Code == "23503":
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Referenced record does not exist"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process " + kind})
	}
}
