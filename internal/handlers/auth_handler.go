package handlers

import (
	"errors"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/Gebril-Amor/HealMe/internal/models"
	"github.com/Gebril-Amor/HealMe/internal/repository"
	"github.com/Gebril-Amor/HealMe/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AuthHandler struct {
	db                   *pgxpool.Pool
	userRepo             *repository.UserRepository
	patientProfileRepo   *repository.PatientProfileRepository
	therapistProfileRepo *repository.TherapistProfileRepository
	adminProfileRepo     *repository.AdminProfileRepository
	jwtSecret            string
}

func NewAuthHandler(
	db *pgxpool.Pool,
	userRepo *repository.UserRepository,
	patientProfileRepo *repository.PatientProfileRepository,
	therapistProfileRepo *repository.TherapistProfileRepository,
	adminProfileRepo *repository.AdminProfileRepository,
	jwtSecret string,
) *AuthHandler {
	return &AuthHandler{
		db:                   db,
		userRepo:             userRepo,
		patientProfileRepo:   patientProfileRepo,
		therapistProfileRepo: therapistProfileRepo,
		adminProfileRepo:     adminProfileRepo,
		jwtSecret:            jwtSecret,
	}
}

// profileData carries the optional role-specific attributes accepted at
// registration. Only the fields matching the declared role are read.
type profileData struct {
	Phone      *string `json:"phone"`
	BirthDate  *string `json:"birth_date"`
	Specialty  *string `json:"specialty"`
	Department *string `json:"department"`
}

type registerRequest struct {
	Username    string      `json:"username"`
	Email       string      `json:"email"`
	Password    string      `json:"password"`
	Role        string      `json:"role"`
	ProfileData profileData `json:"profile_data"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "username is required"})
	}

	parsedEmail, err := mail.ParseAddress(strings.TrimSpace(req.Email))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid email format"})
	}
	req.Email = strings.ToLower(parsedEmail.Address)
	if len(req.Password) < 8 {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "Password must be at least 8 characters"})
	}
	if req.Role != models.RolePatient && req.Role != models.RoleTherapist && req.Role != models.RoleAdmin {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid role"})
	}

	var birthDate *time.Time
	if req.ProfileData.BirthDate != nil {
		parsed, err := parseEntryDate(*req.ProfileData.BirthDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid birth_date"})
		}
		birthDate = &parsed
	}

	existing, err := h.userRepo.GetByUsername(c.Context(), req.Username)
	if err == nil && existing != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Username already exists"})
	}
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to check username"})
	}

	existing, err = h.userRepo.GetByEmail(c.Context(), req.Email)
	if err == nil && existing != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email already exists"})
	}
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to check email"})
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to hash password"})
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashed,
		Role:         req.Role,
	}

	tx, err := h.db.Begin(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to start registration transaction"})
	}
	defer func() {
		_ = tx.Rollback(c.Context())
	}()

	txUserRepo := repository.NewUserRepository(tx)
	if err := txUserRepo.CreateUser(c.Context(), user); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return c.Status(fiber.StatusConflict).
				JSON(fiber.Map{"error": "Username or email already exists"})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to create user"})
	}

	var profile any
	switch req.Role {
	case models.RolePatient:
		profile, err = repository.NewPatientProfileRepository(tx).Create(c.Context(), user.ID, repository.PatientProfileInput{
			Phone:     req.ProfileData.Phone,
			BirthDate: birthDate,
		})
	case models.RoleTherapist:
		profile, err = repository.NewTherapistProfileRepository(tx).Create(c.Context(), user.ID, repository.TherapistProfileInput{
			Specialty: req.ProfileData.Specialty,
			Phone:     req.ProfileData.Phone,
		})
	case models.RoleAdmin:
		profile, err = repository.NewAdminProfileRepository(tx).Create(c.Context(), user.ID, repository.AdminProfileInput{
			Department: req.ProfileData.Department,
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to create profile"})
	}

	if err := tx.Commit(c.Context()); err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to finalize registration"})
	}

	token, err := utils.GenerateToken(strconv.FormatInt(user.ID, 10), user.Role, h.jwtSecret)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to generate token"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Registration successful",
		"token":   token,
		"user":    user,
		"profile": profile,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	parsedEmail, err := mail.ParseAddress(strings.TrimSpace(req.Email))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Email and password are required"})
	}
	req.Email = strings.ToLower(parsedEmail.Address)

	user, err := h.userRepo.GetByEmail(c.Context(), req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusUnauthorized).
				JSON(fiber.Map{"error": "Invalid email or password"})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to lookup user"})
	}

	if !utils.CheckPassword(req.Password, user.PasswordHash) {
		return c.Status(fiber.StatusUnauthorized).
			JSON(fiber.Map{"error": "Invalid email or password"})
	}

	profile, err := h.loadProfile(c, user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to fetch profile"})
	}

	token, err := utils.GenerateToken(strconv.FormatInt(user.ID, 10), user.Role, h.jwtSecret)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to generate token"})
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
		"user":    user,
		"profile": profile,
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	// Tokens are stateless; logout is an acknowledgement for the client to
	// drop its copy.
	return c.JSON(fiber.Map{"message": "Successfully logged out"})
}

// CheckAuth is the authentication probe. It sits behind optional auth and
// reports rather than rejects.
func (h *AuthHandler) CheckAuth(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.JSON(fiber.Map{"authenticated": false})
	}

	user, err := h.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(fiber.Map{"authenticated": false})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to fetch user"})
	}

	profile, err := h.loadProfile(c, user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to fetch profile"})
	}

	return c.JSON(fiber.Map{
		"authenticated": true,
		"user":          user,
		"profile":       profile,
	})
}

// loadProfile fetches the role-specific profile; a missing profile is not an
// error (onboarding may not have created it yet).
func (h *AuthHandler) loadProfile(c *fiber.Ctx, user *models.User) (any, error) {
	var (
		profile any
		err     error
	)
	switch user.Role {
	case models.RolePatient:
		profile, err = h.patientProfileRepo.GetByUserID(c.Context(), user.ID)
	case models.RoleTherapist:
		profile, err = h.therapistProfileRepo.GetByUserID(c.Context(), user.ID)
	case models.RoleAdmin:
		profile, err = h.adminProfileRepo.GetByUserID(c.Context(), user.ID)
	default:
		return nil, nil
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return profile, nil
}

func parseAuthUserID(c *fiber.Ctx) (int64, error) {
	userIDStr, ok := c.Locals("user_id").(string)
	if !ok {
		return 0, errors.New("missing user id")
	}
	return strconv.ParseInt(userIDStr, 10, 64)
}
