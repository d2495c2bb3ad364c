package routes

import (
	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Gebril-Amor/HealMe/internal/config"
	"github.com/Gebril-Amor/HealMe/internal/handlers"
	"github.com/Gebril-Amor/HealMe/internal/llm"
	"github.com/Gebril-Amor/HealMe/internal/middleware"
	"github.com/Gebril-Amor/HealMe/internal/repository"
	"github.com/Gebril-Amor/HealMe/internal/services"
	chatws "github.com/Gebril-Amor/HealMe/internal/websocket"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool) {
	userRepo := repository.NewUserRepository(db)
	patientProfileRepo := repository.NewPatientProfileRepository(db)
	therapistProfileRepo := repository.NewTherapistProfileRepository(db)
	adminProfileRepo := repository.NewAdminProfileRepository(db)
	moodRepo := repository.NewMoodRepository(db)
	sleepRepo := repository.NewSleepRepository(db)
	journalRepo := repository.NewJournalRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	authHandler := handlers.NewAuthHandler(
		db,
		userRepo,
		patientProfileRepo,
		therapistProfileRepo,
		adminProfileRepo,
		cfg.JWTSecret,
	)
	patientHandler := handlers.NewPatientHandler(patientProfileRepo)
	wellnessHandler := handlers.NewWellnessHandler(moodRepo, sleepRepo, journalRepo)
	sessionHandler := handlers.NewSessionHandler(sessionRepo)
	roomHandler := handlers.NewRoomHandler(roomRepo)

	directoryService := services.NewDirectoryService(therapistProfileRepo, patientProfileRepo, messageRepo)
	therapistHandler := handlers.NewTherapistHandler(directoryService, therapistProfileRepo)

	insightClient := llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	insightService := services.NewInsightService(moodRepo, sleepRepo, journalRepo, insightClient)
	insightHandler := handlers.NewInsightHandler(insightService)

	chatHub := chatws.NewHub()
	go chatHub.Run()
	chatService := services.NewChatService(messageRepo)
	chatHandler := handlers.NewChatHandler(chatService, messageRepo, chatHub, cfg.JWTSecret)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/logout", authHandler.Logout)
	auth.Get("/check", middleware.AuthOptional(cfg.JWTSecret), authHandler.CheckAuth)

	// Therapist directory stays readable without a token; the optional auth
	// lets signed-in patients see their unread counts inline.
	api.Get("/therapists", middleware.AuthOptional(cfg.JWTSecret), therapistHandler.ListTherapists)

	// Registered ahead of the protected group: the upgrade request carries
	// its token in the query string, not an Authorization header.
	api.Use("/ws", chatHandler.WebSocketAuth)
	api.Get("/ws", websocket.New(chatHandler.HandleWebSocket))

	protected := api.Group("", middleware.AuthRequired(cfg.JWTSecret))

	users := protected.Group("/users")
	users.Get("/:userID/mood", wellnessHandler.GetUserMood)
	users.Get("/:userID/mood/insight", insightHandler.MoodInsight)
	users.Get("/:userID/sleep", wellnessHandler.GetUserSleep)
	users.Get("/:userID/sleep/insight", insightHandler.SleepInsight)
	users.Get("/:userID/journal", wellnessHandler.GetUserJournal)
	users.Get("/:userID/journal/insight", insightHandler.JournalInsight)

	moods := protected.Group("/moods")
	moods.Get("", wellnessHandler.ListMoods)
	moods.Post("", wellnessHandler.CreateMood)
	moods.Get("/:id", wellnessHandler.GetMood)
	moods.Put("/:id", wellnessHandler.UpdateMood)
	moods.Delete("/:id", wellnessHandler.DeleteMood)

	sleep := protected.Group("/sleep")
	sleep.Get("", wellnessHandler.ListSleep)
	sleep.Post("", wellnessHandler.CreateSleep)
	sleep.Get("/:id", wellnessHandler.GetSleep)
	sleep.Put("/:id", wellnessHandler.UpdateSleep)
	sleep.Delete("/:id", wellnessHandler.DeleteSleep)

	journals := protected.Group("/journals")
	journals.Get("", wellnessHandler.ListJournals)
	journals.Post("", wellnessHandler.CreateJournal)
	journals.Get("/:id", wellnessHandler.GetJournal)
	journals.Put("/:id", wellnessHandler.UpdateJournal)
	journals.Delete("/:id", wellnessHandler.DeleteJournal)

	patients := protected.Group("/patients")
	patients.Get("", patientHandler.ListPatients)
	patients.Get("/:id", patientHandler.GetPatient)
	patients.Put("/:id", patientHandler.UpdatePatient)
	patients.Delete("/:id", patientHandler.DeletePatient)
	protected.Get("/all-patients", patientHandler.AllPatients)

	therapists := protected.Group("/therapists")
	therapists.Get("/:id", therapistHandler.GetTherapist)
	therapists.Put("/:id", therapistHandler.UpdateTherapist)
	therapists.Delete("/:id", therapistHandler.DeleteTherapist)

	sessions := protected.Group("/sessions")
	sessions.Get("", sessionHandler.ListSessions)
	sessions.Post("", sessionHandler.CreateSession)
	sessions.Get("/:id", sessionHandler.GetSession)
	sessions.Put("/:id", sessionHandler.UpdateSession)
	sessions.Delete("/:id", sessionHandler.DeleteSession)

	rooms := protected.Group("/rooms")
	rooms.Get("", roomHandler.ListRooms)
	rooms.Post("", roomHandler.CreateRoom)
	rooms.Get("/:id", roomHandler.GetRoom)
	rooms.Put("/:id", roomHandler.UpdateRoom)
	rooms.Delete("/:id", roomHandler.DeleteRoom)
	rooms.Get("/:id/members", roomHandler.ListMembers)
	rooms.Post("/:id/members", roomHandler.AddMember)
	rooms.Delete("/:id/members/:patientID", roomHandler.RemoveMember)

	protected.Post("/send-message", chatHandler.SendMessage)
	protected.Get("/conversation/:patientID/:therapistID", chatHandler.GetConversation)
	protected.Post("/conversation/:patientID/:therapistID/read", chatHandler.MarkConversationRead)
	protected.Get("/therapist/:id/conversations", chatHandler.TherapistConversations)
	protected.Get("/messages", chatHandler.ListMessages)

	protected.Post("/chat/reply", insightHandler.ChatReply)
}
