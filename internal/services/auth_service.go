package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/session"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minBcryptCost = 10

type AuthService struct {
	db       *gorm.DB
	cfg      *config.Config
	sessions session.Store
	now      func() time.Time
}

func NewAuthService(db *gorm.DB, cfg *config.Config, sessions session.Store) *AuthService {
	return &AuthService{
		db:       db,
		cfg:      cfg,
		sessions: sessions,
		now:      time.Now,
	}
}

// validAdminToken is false whenever no admin token is configured.
func (s *AuthService) validAdminToken(given string) bool {
	if s.cfg.AdminToken == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(given), []byte(s.cfg.AdminToken)) == 1
}

// Register creates a citizen account. Any other role requires adminToken to
// match the configured admin token.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest, adminToken string) (*dto.AuthResponse, error) {
	rut := NormalizeRUT(req.RUT)
	nombre := strings.TrimSpace(req.Nombre)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if rut == "" || nombre == "" || email == "" || req.Password == "" {
		return nil, ErrMissingFields
	}
	if !ValidRUT(rut) {
		return nil, ErrInvalidRUT
	}
	if len(req.Password) < 6 {
		return nil, ErrWeakPassword
	}

	role := req.Role
	if role == "" {
		role = models.RoleCiudadano
	}
	if !models.ValidRoles[role] {
		return nil, ErrInvalidRole
	}
	if role != models.RoleCiudadano && !s.validAdminToken(adminToken) {
		return nil, ErrRoleNotAllowed
	}

	db := s.db.WithContext(ctx)
	if err := s.checkAvailable(db, rut, email); err != nil {
		return nil, err
	}

	cost := s.cfg.BcryptCost
	if cost < minBcryptCost {
		cost = minBcryptCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		RUT:          rut,
		Nombre:       nombre,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a race with a concurrent registration.
			if err := s.checkAvailable(db, rut, email); err != nil {
				return nil, err
			}
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.startSession(ctx, &user, "Usuario registrado correctamente.")
}

func (s *AuthService) checkAvailable(db *gorm.DB, rut, email string) error {
	var count int64
	if err := db.Model(&models.User{}).Where("rut = ?", rut).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check rut: %w", err)
	}
	if count > 0 {
		return ErrRUTTaken
	}
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return ErrEmailTaken
	}
	return nil
}

// Login verifies the credentials and replaces the user's active session.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	rut := NormalizeRUT(req.RUT)
	if rut == "" || req.Password == "" {
		return nil, ErrMissingFields
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("rut = ?", rut).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.startSession(ctx, &user, "Login exitoso.")
}

func (s *AuthService) Logout(ctx context.Context, userID uint) error {
	return s.sessions.Delete(ctx, userID)
}

func (s *AuthService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// ChangeRole sets a new role. The user's session is dropped so the next
// request has to log in again and pick up the new claims.
func (s *AuthService) ChangeRole(ctx context.Context, id uint, role string) (*models.User, error) {
	if !models.ValidRoles[role] {
		return nil, ErrInvalidRole
	}
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(user).Update("role", role).Error; err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	user.Role = role
	if err := s.sessions.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to revoke session: %w", err)
	}
	return user, nil
}

func (s *AuthService) startSession(ctx context.Context, user *models.User, msg string) (*dto.AuthResponse, error) {
	token, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Set(ctx, user.ID, token, s.cfg.SessionTTL); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	return &dto.AuthResponse{
		Message: msg,
		User:    ToUserResponse(user),
		Token:   token,
	}, nil
}

func (s *AuthService) generateAccessToken(user *models.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"id":    user.ID,
		"email": user.Email,
		"rut":   user.RUT,
		"role":  user.Role,
		"jti":   uuid.NewString(),
		"iat":   now.Unix(),
		"exp":   now.Add(s.cfg.JWTExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func ToUserResponse(u *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:     u.ID,
		RUT:    u.RUT,
		Nombre: u.Nombre,
		Email:  u.Email,
		Role:   u.Role,
	}
}
