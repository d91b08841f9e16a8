package handler

import (
	"net/http"
	"time"

	"tinytreats/internal/model"
	"tinytreats/pkg/config"
	"tinytreats/pkg/jwtutil"
	"tinytreats/pkg/logger"
	"tinytreats/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// LoginRequest is the admin login payload
type LoginRequest struct {
	Password string `json:"password"`
}

// ChangePasswordRequest rotates the admin password given the old one
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ResetPasswordRequest rotates the admin password given the master key
type ResetPasswordRequest struct {
	MasterKey   string `json:"master_key"`
	NewPassword string `json:"new_password"`
}

// AdminHandler serves the back-office authentication endpoints
type AdminHandler struct {
	DB        *gorm.DB
	JWT       *jwtutil.JWTUtil
	MasterKey string
}

// NewAdminHandler creates an AdminHandler from configuration
func NewAdminHandler(db *gorm.DB, jwt *jwtutil.JWTUtil, cfg *config.Config) *AdminHandler {
	return &AdminHandler{DB: db, JWT: jwt, MasterKey: cfg.Admin.MasterKey}
}

// Login verifies the admin password and returns a session token
func (h *AdminHandler) Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.AuthAttemptsCounter.Inc()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	stored, err := h.storedPassword()
	if err != nil || bcrypt.CompareHashAndPassword([]byte(stored), []byte(req.Password)) != nil {
		log.Warn("Invalid admin password")
		prometheus.AuthErrorsCounter.Inc()
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid password"})
	}

	token, err := h.JWT.GenerateAdminToken()
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	prometheus.AuthSuccessCounter.Inc()
	log.Info("Admin logged in")
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Login successful",
		"token":   token,
	})
}

// ChangePassword rotates the admin password given the current one
func (h *AdminHandler) ChangePassword(c echo.Context) error {
	log := logger.FromContext(c)

	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse change-password request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	stored, err := h.storedPassword()
	if err != nil || bcrypt.CompareHashAndPassword([]byte(stored), []byte(req.OldPassword)) != nil {
		log.Warn("Invalid old password on change-password")
		prometheus.AuthErrorsCounter.Inc()
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid old password"})
	}

	if err := h.storePassword(req.NewPassword); err != nil {
		log.Error("Failed to store new password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update password"})
	}

	log.Info("Admin password updated")
	return c.JSON(http.StatusOK, echo.Map{"message": "Password updated successfully"})
}

// ResetPassword rotates the admin password given the master key,
// without knowing the current password
func (h *AdminHandler) ResetPassword(c echo.Context) error {
	log := logger.FromContext(c)

	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse reset-password request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.MasterKey != h.MasterKey {
		log.Warn("Invalid master key on reset-password")
		prometheus.AuthErrorsCounter.Inc()
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid Master Key"})
	}

	if err := h.storePassword(req.NewPassword); err != nil {
		log.Error("Failed to store new password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to reset password"})
	}

	log.Info("Admin password reset via master key")
	return c.JSON(http.StatusOK, echo.Map{"message": "Password reset successfully"})
}

func (h *AdminHandler) storedPassword() (string, error) {
	var cfg model.AdminConfig
	result := h.DB.First(&cfg, "key = ?", model.AdminPasswordKey)
	if result.Error != nil {
		return "", result.Error
	}
	return cfg.Value, nil
}

func (h *AdminHandler) storePassword(password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	cfg := model.AdminConfig{Key: model.AdminPasswordKey, Value: string(hashed)}
	return h.DB.Save(&cfg).Error
}
