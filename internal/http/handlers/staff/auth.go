package staff

import (
	"github.com/fournil-next/internal/http/response"
	"github.com/fournil-next/internal/service"

	"github.com/gin-gonic/gin"
)

// Captcha issues a login captcha challenge.
func (h *Handler) Captcha(c *gin.Context) {
	if !h.CaptchaService.Enabled() {
		response.Success(c, gin.H{"enabled": false})
		return
	}
	challenge, err := h.CaptchaService.Generate()
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, gin.H{
		"enabled":       true,
		"captcha_id":    challenge.ID,
		"captcha_image": challenge.Image,
	})
}

// Login authenticates a staff account and issues a session token.
func (h *Handler) Login(c *gin.Context) {
	var in service.LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, response.CodeBadRequest, "username and password are required")
		return
	}
	result, err := h.AuthService.Login(in)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, result)
}

// Me returns the authenticated account and its status capabilities.
func (h *Handler) Me(c *gin.Context) {
	response.Success(c, gin.H{
		"user":   currentUser(c),
		"policy": currentPolicy(c),
	})
}
