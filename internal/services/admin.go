package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Riyasingh139/DigitalReviverBackend/internal/config"
	"github.com/Riyasingh139/DigitalReviverBackend/internal/models"
	"github.com/Riyasingh139/DigitalReviverBackend/internal/utils"
	"github.com/Riyasingh139/DigitalReviverBackend/internal/utils/logger"
)

const (
	bcryptCost       = 10
	resetTokenExpiry = time.Hour
)

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expiresAt"`
	Admin     *models.Admin `json:"admin"`
}

// AdminService manages admin accounts and issues their tokens.
type AdminService struct {
	db        *gorm.DB
	jwt       config.JWTConfig
	mailer    Mailer
	timeout   time.Duration
	resetLink string
	now       func() time.Time
	log       *logger.Logger
}

// NewAdminService returns the account service. resetLink, when set, is the
// page the reset mail points at; the token is appended as ?token=.
func NewAdminService(db *gorm.DB, jwt config.JWTConfig, mailer Mailer, timeout time.Duration, resetLink string) *AdminService {
	return &AdminService{
		db:        db,
		jwt:       jwt,
		mailer:    mailer,
		timeout:   timeout,
		resetLink: resetLink,
		now:       time.Now,
		log:       logger.New("ADMIN"),
	}
}

// Register creates an admin. The first account can be created by anyone;
// after that only an authenticated admin may add accounts.
func (s *AdminService) Register(ctx context.Context, req RegisterRequest, requester *utils.Claims) (*models.Admin, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := ValidateStruct(req); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Admin{}).Count(&count).Error; err != nil {
		return nil, internal("count admins", err)
	}
	if count > 0 && !requester.IsAdmin() {
		return nil, ErrForbidden
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, internal("hash password", err)
	}

	admin := &models.Admin{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hash),
		Role:     models.RoleAdmin,
	}
	if err := s.db.WithContext(ctx).Create(admin).Error; err != nil {
		if errors.Is(storeError(err), ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: username or email already registered", ErrConflict)
		}
		return nil, internal("create admin", err)
	}

	s.log.Success("Registered admin %s", admin.Username)
	return admin, nil
}

// Login checks the credentials and returns a signed token.
func (s *AdminService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if err := ValidateStruct(req); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	admin, err := s.findBy(ctx, "username = ?", strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := utils.GenerateJWT(admin, s.jwt.Secret, s.jwt.Issuer, s.jwt.Expiry)
	if err != nil {
		return nil, internal("issue token", err)
	}

	s.log.Info("Admin %s logged in", admin.Username)
	return &LoginResponse{Token: token, ExpiresAt: expiresAt, Admin: admin}, nil
}

// Get returns the admin with the given id.
func (s *AdminService) Get(ctx context.Context, id string) (*models.Admin, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	admin, err := s.findBy(ctx, "id = ?", id)
	if errors.Is(err, ErrNotFound) {
		return nil, notFound("admin", id)
	}
	return admin, err
}

// RequestPasswordReset mails a reset token to the account with that email.
// Unknown addresses and mail delivery failures both succeed silently, so the
// response never reveals whether an account exists.
func (s *AdminService) RequestPasswordReset(ctx context.Context, req PasswordResetRequest) error {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := ValidateStruct(req); err != nil {
		return err
	}
	if s.mailer == nil {
		return internal("send reset mail", errors.New("mailer is not configured"))
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	admin, err := s.findBy(ctx, "email = ?", req.Email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.log.Debug("Password reset requested for unknown email %s", req.Email)
			return nil
		}
		return err
	}

	token, hash, err := utils.NewResetToken()
	if err != nil {
		return internal("reset token", err)
	}
	expires := s.now().Add(resetTokenExpiry)

	err = s.db.WithContext(ctx).Model(admin).Updates(map[string]interface{}{
		"reset_password_token":   hash,
		"reset_password_expires": expires,
	}).Error
	if err != nil {
		return internal("store reset token", err)
	}

	body := "A password reset was requested for your admin account.\n\n"
	if s.resetLink != "" {
		body += "Reset your password: " + s.resetLink + "?token=" + token + "\n"
	} else {
		body += "Reset token: " + token + "\n"
	}
	body += "\nThe token expires at " + expires.Format(time.RFC1123) + ". If you did not ask for this, ignore this email."

	if err := s.mailer.Send(ctx, utils.Mail{
		To:      []string{admin.Email},
		Subject: "Admin password reset",
		Body:    body,
	}); err != nil {
		s.log.Error("Failed to mail password reset to "+admin.Username, err)
		return nil
	}

	s.log.Info("Password reset mailed to %s", admin.Username)
	return nil
}

// ResetPassword sets a new password for the account holding a valid token.
func (s *AdminService) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	if err := ValidateStruct(req); err != nil {
		return err
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	admin, err := s.findBy(ctx, "reset_password_token = ? AND reset_password_expires > ?",
		utils.HashToken(strings.TrimSpace(req.Token)), s.now())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Validation("reset token is invalid or has expired")
		}
		return err
	}

	return s.setPassword(ctx, admin, req.Password)
}

// SetPassword replaces the password of username without a token. It backs
// the reset-admin-password command.
func (s *AdminService) SetPassword(ctx context.Context, username, password string) error {
	if len(password) < 8 {
		return Validation("password must be at least 8 characters")
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	admin, err := s.findBy(ctx, "username = ?", username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return notFound("admin", username)
		}
		return err
	}
	return s.setPassword(ctx, admin, password)
}

// PurgeExpiredResets clears reset tokens past their expiry.
func (s *AdminService) PurgeExpiredResets(ctx context.Context) (int64, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	res := s.db.WithContext(ctx).Model(&models.Admin{}).
		Where("reset_password_expires IS NOT NULL AND reset_password_expires <= ?", s.now()).
		Updates(map[string]interface{}{
			"reset_password_token":   nil,
			"reset_password_expires": nil,
		})
	if res.Error != nil {
		return 0, internal("purge reset tokens", res.Error)
	}
	return res.RowsAffected, nil
}

func (s *AdminService) setPassword(ctx context.Context, admin *models.Admin, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return internal("hash password", err)
	}

	err = s.db.WithContext(ctx).Model(admin).Updates(map[string]interface{}{
		"password":               string(hash),
		"reset_password_token":   nil,
		"reset_password_expires": nil,
	}).Error
	if err != nil {
		return internal("update password", err)
	}

	s.log.Success("Password updated for %s", admin.Username)
	return nil
}

func (s *AdminService) findBy(ctx context.Context, query string, args ...interface{}) (*models.Admin, error) {
	var admin models.Admin
	if err := s.db.WithContext(ctx).Where(query, args...).First(&admin).Error; err != nil {
		if err = storeError(err); errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, internal("load admin", err)
	}
	return &admin, nil
}
