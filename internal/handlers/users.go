package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clientdesk/clientdesk/internal/models"
	"github.com/clientdesk/clientdesk/internal/services"
	"github.com/clientdesk/clientdesk/pkg/response"
)

// UserHandler exposes account administration endpoints. Password changes go
// through the auth flow, not here.
type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type updateUserRequest struct {
	Name  *string   `json:"name" validate:"omitempty,max=120"`
	Email *string   `json:"email" validate:"omitempty,email"`
	Roles *[]string `json:"roles" validate:"omitempty,dive,required"`
}

// GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	users, source, err := h.users.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	views := make([]models.PublicView, 0, len(users))
	for i := range users {
		views = append(views, users[i].Public())
	}
	response.SuccessWithSource(c, http.StatusOK, views, string(source))
}

// GET /api/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	user, source, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithSource(c, http.StatusOK, user.Public(), string(source))
}

// PUT /api/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	var req updateUserRequest
	if !bindAndValidate(c, &req) {
		return
	}

	user, err := h.users.Update(c.Request.Context(), c.Param("id"), services.UpdateUserInput{
		Name:  req.Name,
		Email: req.Email,
		Roles: req.Roles,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, user.Public())
}

// DELETE /api/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "user deleted"})
}
