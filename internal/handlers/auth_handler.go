package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barberbook/internal/config"
	"github.com/BruksfildServices01/barberbook/internal/httperr"
	"github.com/BruksfildServices01/barberbook/internal/infra/repository"
	"github.com/BruksfildServices01/barberbook/internal/middleware"
	"github.com/BruksfildServices01/barberbook/internal/models"
	"github.com/BruksfildServices01/barberbook/internal/timezone"
	"github.com/BruksfildServices01/barberbook/internal/validators"
)

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{db: db, config: cfg}
}

// --------- Requests ---------

type BarberRegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`

	ShopName       string `json:"shop_name"`
	Specialization string `json:"specialization"`
	Address        string `json:"shop_address"`
	City           string `json:"city"`
	State          string `json:"state"`
	ZipCode        string `json:"zip_code"`
	Timezone       string `json:"timezone"`
}

type ClientRegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
	City     string `json:"city"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Barbers ---------

func (h *AuthHandler) RegisterBarber(c *gin.Context) {
	var req BarberRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	email, err := h.checkNewEmail(c, req.Email, &models.Barber{})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Could not create the account.")
		return
	}

	tz := strings.TrimSpace(req.Timezone)
	if !timezone.IsValid(tz) {
		tz = timezone.DefaultTimezone
	}

	barber := models.Barber{
		Name:           strings.TrimSpace(req.Name),
		ShopName:       strings.TrimSpace(req.ShopName),
		Email:          email,
		PasswordHash:   string(hashed),
		Phone:          strings.TrimSpace(req.Phone),
		Specialization: strings.TrimSpace(req.Specialization),
		Address:        strings.TrimSpace(req.Address),
		City:           strings.TrimSpace(req.City),
		State:          strings.TrimSpace(req.State),
		ZipCode:        strings.TrimSpace(req.ZipCode),
		Timezone:       tz,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&barber).Error; err != nil {
		if repository.IsUniqueViolation(err) {
			httperr.Respond(c, httperr.Conflict("email_taken"))
			return
		}
		httperr.Respond(c, err)
		return
	}

	h.respondWithToken(c, http.StatusCreated, barber.ID, middleware.RoleBarber, barber)
}

func (h *AuthHandler) LoginBarber(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	var barber models.Barber
	if !h.authenticate(c, req, &barber) {
		return
	}

	h.respondWithToken(c, http.StatusOK, barber.ID, middleware.RoleBarber, barber)
}

// --------- Clients ---------

func (h *AuthHandler) RegisterClient(c *gin.Context) {
	var req ClientRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	email, err := h.checkNewEmail(c, req.Email, &models.Client{})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Could not create the account.")
		return
	}

	client := models.Client{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        strings.TrimSpace(req.Phone),
		City:         strings.TrimSpace(req.City),
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&client).Error; err != nil {
		if repository.IsUniqueViolation(err) {
			httperr.Respond(c, httperr.Conflict("email_taken"))
			return
		}
		httperr.Respond(c, err)
		return
	}

	h.respondWithToken(c, http.StatusCreated, client.ID, middleware.RoleClient, client)
}

func (h *AuthHandler) LoginClient(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	var client models.Client
	if !h.authenticate(c, req, &client) {
		return
	}

	h.respondWithToken(c, http.StatusOK, client.ID, middleware.RoleClient, client)
}

// --------- Helpers ---------

// checkNewEmail normalizes email and rejects addresses that are malformed,
// already registered for model, or on a domain with no mail records.
func (h *AuthHandler) checkNewEmail(c *gin.Context, raw string, model any) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if !validators.IsEmailSyntaxValid(email) {
		return "", httperr.InvalidInput("invalid_email")
	}

	var count int64
	if err := h.db.WithContext(c.Request.Context()).
		Model(model).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return "", err
	}
	if count > 0 {
		return "", httperr.Conflict("email_taken")
	}

	if !validators.IsEmailDomainValid(c.Request.Context(), email) {
		return "", httperr.InvalidInput("invalid_email_domain")
	}
	return email, nil
}

func (h *AuthHandler) authenticate(c *gin.Context, req LoginRequest, account any) bool {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if err := h.db.WithContext(c.Request.Context()).
		Where("email = ?", email).
		First(account).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "Wrong email or password.")
			return false
		}
		httperr.Respond(c, err)
		return false
	}

	var hash string
	switch a := account.(type) {
	case *models.Barber:
		hash = a.PasswordHash
	case *models.Client:
		hash = a.PasswordHash
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		zap.L().Info("login rejected", zap.String("email", email))
		httperr.Unauthorized(c, "invalid_credentials", "Wrong email or password.")
		return false
	}
	return true
}

func (h *AuthHandler) respondWithToken(c *gin.Context, status int, id uint, role string, user any) {
	token, err := middleware.GenerateToken(h.config.JWTSecret, id, role)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Could not sign in.")
		return
	}

	c.JSON(status, gin.H{
		"user":  user,
		"role":  role,
		"token": token,
	})
}
