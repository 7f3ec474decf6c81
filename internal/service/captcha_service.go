package service

import (
	"time"

	"github.com/fournil-next/internal/config"

	"github.com/mojocn/base64Captcha"
)

// CaptchaChallenge is one generated login captcha.
type CaptchaChallenge struct {
	ID    string `json:"captcha_id"`
	Image string `json:"captcha_image"` // base64 data URL
}

// CaptchaService issues and verifies image captchas for the login screen.
type CaptchaService struct {
	captcha *base64Captcha.Captcha
}

// NewCaptchaService creates the captcha service, or nil when disabled.
func NewCaptchaService(cfg config.CaptchaConfig) *CaptchaService {
	if !cfg.Enabled {
		return nil
	}
	driver := base64Captcha.NewDriverDigit(cfg.Height, cfg.Width, cfg.Length, 0.7, cfg.ShowLine)
	store := base64Captcha.NewMemoryStore(cfg.MaxStore, time.Duration(cfg.ExpireSeconds)*time.Second)
	return &CaptchaService{captcha: base64Captcha.NewCaptcha(driver, store)}
}

// Enabled reports whether captcha verification is active.
func (s *CaptchaService) Enabled() bool {
	return s != nil && s.captcha != nil
}

// Generate produces one challenge.
func (s *CaptchaService) Generate() (*CaptchaChallenge, error) {
	id, b64, _, err := s.captcha.Generate()
	if err != nil {
		return nil, err
	}
	return &CaptchaChallenge{ID: id, Image: b64}, nil
}

// Verify checks one answer, consuming the challenge.
func (s *CaptchaService) Verify(id, answer string) bool {
	if !s.Enabled() {
		return true
	}
	if id == "" || answer == "" {
		return false
	}
	return s.captcha.Verify(id, answer, true)
}
