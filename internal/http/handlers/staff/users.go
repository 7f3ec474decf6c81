package staff

import (
	"github.com/fournil-next/internal/constants"
	"github.com/fournil-next/internal/http/response"
	"github.com/fournil-next/internal/models"
	"github.com/fournil-next/internal/service"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

var validRoles = map[string]bool{
	constants.RoleVendeur:    true,
	constants.RoleBoutique:   true,
	constants.RoleProduction: true,
	constants.RoleAdmin:      true,
}

// ListUsers returns every staff account.
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.UserRepo.List()
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, users)
}

type userRequest struct {
	Username       string `json:"username" binding:"required"`
	Password       string `json:"password"`
	DisplayName    string `json:"display_name"`
	Role           string `json:"role" binding:"required"`
	AssignedShopID *uint  `json:"assigned_shop_id"`
	Active         *bool  `json:"active"`
}

// CreateUser adds a staff account.
func (h *Handler) CreateUser(c *gin.Context) {
	var in userRequest
	if err := c.ShouldBindJSON(&in); err != nil || in.Password == "" {
		response.Error(c, response.CodeBadRequest, "username, password and role are required")
		return
	}
	if !validRoles[in.Role] {
		response.Error(c, response.CodeValidation, "unknown role")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	user := &models.User{
		Username:       in.Username,
		PasswordHash:   string(hash),
		DisplayName:    in.DisplayName,
		Role:           in.Role,
		AssignedShopID: in.AssignedShopID,
		Active:         in.Active == nil || *in.Active,
	}
	if err := h.UserRepo.Create(user); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Created(c, user)
}

// UpdateUser edits a staff account; the password only changes when a new
// one is provided.
func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		response.Error(c, response.CodeBadRequest, "invalid user id")
		return
	}
	var in userRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, response.CodeBadRequest, "username and role are required")
		return
	}
	if !validRoles[in.Role] {
		response.Error(c, response.CodeValidation, "unknown role")
		return
	}

	updates := map[string]interface{}{
		"username":         in.Username,
		"display_name":     in.DisplayName,
		"role":             in.Role,
		"assigned_shop_id": in.AssignedShopID,
	}
	if in.Active != nil {
		updates["active"] = *in.Active
	}
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		updates["password_hash"] = string(hash)
	}
	if err := h.UserRepo.Update(id, updates); err != nil {
		writeServiceError(c, err)
		return
	}
	user, err := h.UserRepo.GetByID(id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if user == nil {
		writeServiceError(c, service.ErrUserNotFound)
		return
	}
	response.Success(c, user)
}
