package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/YasmaniJob/beeclass/internal/service"
	"github.com/YasmaniJob/beeclass/pkg/response"
)

type userAdmin interface {
	DeleteByEmail(ctx context.Context, email string) (string, error)
}

// UserAdminHandler removes accounts from the hosted auth provider.
type UserAdminHandler struct {
	admin userAdmin
}

// NewUserAdminHandler constructs UserAdminHandler.
func NewUserAdminHandler(admin userAdmin) *UserAdminHandler {
	return &UserAdminHandler{admin: admin}
}

// DeleteUser godoc
// @Summary Delete an auth account by email
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body service.DeleteUserRequest true "Email to delete"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /admin/users/delete [post]
func (h *UserAdminHandler) DeleteUser(c *gin.Context) {
	var req service.DeleteUserRequest
	if !bindJSON(c, &req) {
		return
	}
	status, err := h.admin.DeleteByEmail(c.Request.Context(), req.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"status": status})
}
