package service

import (
	"time"

	"github.com/fournil-next/internal/logger"
	"github.com/fournil-next/internal/models"
	"github.com/fournil-next/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// StaffClaims is the JWT payload issued to staff sessions.
type StaffClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// LoginInput carries one login attempt.
type LoginInput struct {
	Username   string `json:"username" binding:"required"`
	Password   string `json:"password" binding:"required"`
	CaptchaID  string `json:"captcha_id"`
	CaptchaAns string `json:"captcha_answer"`
}

// LoginResult is the issued session.
type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// AuthService authenticates staff and issues JWT sessions.
type AuthService struct {
	userRepo repository.UserRepository
	captcha  *CaptchaService
	secret   []byte
	expire   time.Duration
}

// NewAuthService creates the auth service. The captcha service may be nil
// when the login captcha is disabled.
func NewAuthService(userRepo repository.UserRepository, captcha *CaptchaService, secret string, expireHours int) *AuthService {
	if expireHours <= 0 {
		expireHours = 24
	}
	return &AuthService{
		userRepo: userRepo,
		captcha:  captcha,
		secret:   []byte(secret),
		expire:   time.Duration(expireHours) * time.Hour,
	}
}

// Login verifies credentials and returns a signed token.
func (s *AuthService) Login(in LoginInput) (*LoginResult, error) {
	if s.captcha.Enabled() {
		if !s.captcha.Verify(in.CaptchaID, in.CaptchaAns) {
			return nil, ErrCaptchaInvalid
		}
	}

	user, err := s.userRepo.GetByUsername(in.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if !user.Active {
		return nil, ErrUserDisabled
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	expiresAt := time.Now().Add(s.expire)
	claims := StaffClaims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   user.Username,
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	logger.Infow("staff login", "user_id", user.ID, "username", user.Username, "role", user.Role)
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// ParseToken validates a session token and returns its claims.
func (s *AuthService) ParseToken(tokenString string) (*StaffClaims, error) {
	claims := &StaffClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidCredentials
	}
	return claims, nil
}

// GetUser loads the staff account behind a session.
func (s *AuthService) GetUser(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
