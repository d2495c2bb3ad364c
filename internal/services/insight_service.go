package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Gebril-Amor/HealMe/internal/llm"
	"github.com/Gebril-Amor/HealMe/internal/models"
)

const (
	// Fixed responses returned without touching the remote API when a user
	// has no logged data yet.
	NoMoodDataMessage    = "No mood entries logged yet. Add a few mood check-ins to receive an insight."
	NoSleepDataMessage   = "No sleep entries logged yet. Track a few nights to receive an insight."
	NoJournalDataMessage = "No journal entries written yet. Write a few entries to receive an insight."

	companionSystemPrompt = "You are a supportive mental-wellness companion. " +
		"Respond with warmth and empathy, keep answers short, and never give " +
		"medical diagnoses or medication advice. Encourage the user to reach " +
		"out to their therapist for anything serious."
)

type moodReader interface {
	ListByUser(ctx context.Context, userID int64) ([]models.MoodEntry, error)
}

type sleepReader interface {
	ListByUser(ctx context.Context, userID int64) ([]models.SleepEntry, error)
}

type journalReader interface {
	ListByUser(ctx context.Context, userID int64) ([]models.JournalEntry, error)
}

// InsightService assembles prompts from stored wellness logs and forwards
// them to the text-generation API, returning the generated text verbatim.
type InsightService struct {
	moodRepo    moodReader
	sleepRepo   sleepReader
	journalRepo journalReader
	llm         llm.Client
}

func NewInsightService(
	moodRepo moodReader,
	sleepRepo sleepReader,
	journalRepo journalReader,
	client llm.Client,
) *InsightService {
	return &InsightService{
		moodRepo:    moodRepo,
		sleepRepo:   sleepRepo,
		journalRepo: journalRepo,
		llm:         client,
	}
}

func (s *InsightService) MoodInsight(ctx context.Context, userID int64) (string, error) {
	if userID <= 0 {
		return "", ErrInvalidInput
	}

	entries, err := s.moodRepo.ListByUser(ctx, userID)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return NoMoodDataMessage, nil
	}

	var b strings.Builder
	b.WriteString("Here are a user's recent mood check-ins (level is 1-10, newest first). ")
	b.WriteString("Summarize the overall trend in 2-3 supportive sentences and suggest one gentle next step.\n\n")
	for _, entry := range entries {
		fmt.Fprintf(&b, "- %s: level %d", entry.EntryDate.Format("2006-01-02"), entry.Level)
		if entry.Description != "" {
			fmt.Fprintf(&b, " (%s)", entry.Description)
		}
		b.WriteString("\n")
	}

	return s.llm.Generate(ctx, b.String())
}

func (s *InsightService) SleepInsight(ctx context.Context, userID int64) (string, error) {
	if userID <= 0 {
		return "", ErrInvalidInput
	}

	entries, err := s.sleepRepo.ListByUser(ctx, userID)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return NoSleepDataMessage, nil
	}

	var b strings.Builder
	b.WriteString("Here are a user's recent sleep logs, newest first. ")
	b.WriteString("Summarize the pattern in 2-3 supportive sentences and suggest one gentle improvement.\n\n")
	for _, entry := range entries {
		fmt.Fprintf(&b, "- %s: %.1f hours, quality %q\n",
			entry.EntryDate.Format("2006-01-02"), entry.DurationHours, entry.Quality)
	}

	return s.llm.Generate(ctx, b.String())
}

func (s *InsightService) JournalInsight(ctx context.Context, userID int64) (string, error) {
	if userID <= 0 {
		return "", ErrInvalidInput
	}

	entries, err := s.journalRepo.ListByUser(ctx, userID)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return NoJournalDataMessage, nil
	}

	var b strings.Builder
	b.WriteString("Here are a user's recent journal entries, newest first. ")
	b.WriteString("Reflect the recurring themes back in 2-3 empathetic sentences without judging.\n\n")
	for _, entry := range entries {
		fmt.Fprintf(&b, "%s:\n%s\n\n", entry.EntryDate.Format("2006-01-02"), entry.Content)
	}

	return s.llm.Generate(ctx, b.String())
}

// ChatReply forwards a free-form user message with the companion system
// prompt.
func (s *InsightService) ChatReply(ctx context.Context, message string) (string, error) {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return "", ErrInvalidInput
	}

	return s.llm.Chat(ctx, []llm.Message{
		{Role: "system", Content: companionSystemPrompt},
		{Role: "user", Content: trimmed},
	})
}
