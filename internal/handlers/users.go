package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"barangay-health-server/internal/middleware"
	"barangay-health-server/internal/models"
	"barangay-health-server/internal/pipeline"
	"barangay-health-server/internal/utils"
)

// UserHandler handles staff account management (admin operations).
type UserHandler struct {
	Pipeline *pipeline.Pipeline[*models.User]
	Timeout  time.Duration
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(p *pipeline.Pipeline[*models.User], timeout time.Duration) *UserHandler {
	return &UserHandler{Pipeline: p, Timeout: timeout}
}

// CreateUser handles creating a new user (admin). A submitted role is honored.
func (h *UserHandler) CreateUser(c *gin.Context) {
	f, err := readFields(c)
	if err != nil {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}
	ctx, cancel := withTimeout(c, h.Timeout)
	defer cancel()
	respond(c, sanitize(h.Pipeline.Create(ctx, f)), http.StatusCreated)
}

// GetUsers handles fetching all users (admin).
func (h *UserHandler) GetUsers(c *gin.Context) {
	ctx, cancel := withTimeout(c, h.Timeout)
	defer cancel()
	res := h.Pipeline.List(ctx)
	out := pipeline.Result[[]models.UserSanitized]{
		OK:      res.OK,
		Message: res.Message,
		Reason:  res.Reason,
	}
	if res.OK {
		out.Payload = make([]models.UserSanitized, len(res.Payload))
		for i, u := range res.Payload {
			out.Payload[i] = u.Sanitize()
		}
	}
	respond(c, out, http.StatusOK)
}

// GetUserByID handles fetching a single user by ID (admin).
func (h *UserHandler) GetUserByID(c *gin.Context) {
	ctx, cancel := withTimeout(c, h.Timeout)
	defer cancel()
	respond(c, sanitize(h.Pipeline.Get(ctx, c.Param("id"))), http.StatusOK)
}

// UpdateUser handles updating a user by ID (admin). A blank password keeps
// the stored one.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	f, err := readFields(c)
	if err != nil {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}
	ctx, cancel := withTimeout(c, h.Timeout)
	defer cancel()
	respond(c, sanitize(h.Pipeline.Update(ctx, c.Param("id"), f)), http.StatusOK)
}

// DeleteUser handles deleting a user by ID (admin).
func (h *UserHandler) DeleteUser(c *gin.Context) {
	if id, ok := middleware.GetUserIDFromContext(c); ok && id == c.Param("id") {
		utils.BadRequest(c, "You cannot delete your own account")
		return
	}
	ctx, cancel := withTimeout(c, h.Timeout)
	defer cancel()
	respond(c, h.Pipeline.Delete(ctx, c.Param("id")), http.StatusOK)
}

// sanitize swaps the stored account for its public view.
func sanitize(res pipeline.Result[*models.User]) pipeline.Result[*models.UserSanitized] {
	out := pipeline.Result[*models.UserSanitized]{
		OK:          res.OK,
		Message:     res.Message,
		Reason:      res.Reason,
		FieldErrors: res.FieldErrors,
	}
	if res.Payload != nil {
		s := res.Payload.Sanitize()
		out.Payload = &s
	}
	return out
}
