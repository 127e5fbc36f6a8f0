package handler

import (
	"errors"
	"net/http"
	"regexp"

	"github.com/labstack/echo/v4"

	"github.com/hanbit/makerspace-reservation/internal/config"
	"github.com/hanbit/makerspace-reservation/internal/model"
	"github.com/hanbit/makerspace-reservation/internal/repository"
	"github.com/hanbit/makerspace-reservation/internal/utils"
)

// Members start with this many laser slots per week and per day; the
// external reset job writes the same values back on its schedule.
const (
	defaultLaserQuotaWeek = 4
	defaultLaserQuotaDay  = 2
)

var yearPattern = regexp.MustCompile(`^[1-5]$`)

// AuthHandler owns registration, the token lifecycle and the member's
// own profile view.
type AuthHandler struct {
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
	Cfg    *config.Config
}

func NewAuthHandler(users *repository.UserRepo, tokens *repository.TokenRepo, cfg *config.Config) *AuthHandler {
	if users == nil || tokens == nil || cfg == nil {
		panic("nil dependency passed to NewAuthHandler")
	}
	return &AuthHandler{Users: users, Tokens: tokens, Cfg: cfg}
}

type registerRequest struct {
	StudentID string `json:"student_id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Year      string `json:"year"`
}

// Register creates a student account. Staff accounts are provisioned
// out of band, so the role is never client-controlled.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.StudentID == "" || req.Username == "" || req.Email == "" || len(req.Password) < 8 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "student_id, username, email and a password of 8+ characters are required"})
	}
	if !yearPattern.MatchString(req.Year) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "year must be 1-5"})
	}

	u := model.User{
		StudentID:      req.StudentID,
		Username:       req.Username,
		Email:          req.Email,
		Role:           model.RoleStudent,
		Year:           req.Year,
		LaserQuotaWeek: defaultLaserQuotaWeek,
		LaserQuotaDay:  defaultLaserQuotaDay,
		IsActive:       true,
	}
	id, err := h.Users.Create(c.Request().Context(), &u, req.Password, h.Cfg.BcryptCost)
	if errors.Is(err, repository.ErrEmailExists) || errors.Is(err, repository.ErrStudentExists) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "email or student id already registered"})
	}
	if err != nil {
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies the password and issues an access/refresh token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	u, err := h.Users.GetByEmail(c.Request().Context(), req.Email)
	if errors.Is(err, repository.ErrUserNotFound) || (err == nil && !utils.VerifyPassword(u.PasswordHash, req.Password)) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if err != nil {
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if !u.IsActive {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "account disabled"})
	}
	return h.issueTokens(c, u)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh rotates the refresh token and issues a new access token.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token is required"})
	}
	ctx := c.Request().Context()

	hash := utils.HashRefreshRaw(req.RefreshToken)
	userID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
	}
	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
	}

	// Rotate: the presented token dies with this exchange.
	if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return h.issueTokens(c, u)
}

// Logout revokes every refresh token the member holds.
func (h *AuthHandler) Logout(c echo.Context) error {
	p := principal(c)
	if err := h.Tokens.RevokeAllForUser(c.Request().Context(), p.UserID); err != nil {
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the caller's own record, counters included.
func (h *AuthHandler) Me(c echo.Context) error {
	p := principal(c)
	u, err := h.Users.GetByID(c.Request().Context(), p.UserID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	if err != nil {
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":               u.ID,
		"student_id":       u.StudentID,
		"username":         u.Username,
		"email":            u.Email,
		"role":             u.Role,
		"year":             u.Year,
		"training_passed":  u.TrainingPassed,
		"warning_count":    u.WarningCount,
		"laser_quota_week": u.LaserQuotaWeek,
		"laser_quota_day":  u.LaserQuotaDay,
	})
}

func (h *AuthHandler) issueTokens(c echo.Context, u model.User) error {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if err := h.Tokens.StoreRefresh(c.Request().Context(), u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access_token":  access.Token,
		"expires_at":    access.Exp,
		"refresh_token": refresh.Raw,
	})
}
