package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"spendtrack/internal/models"
	"spendtrack/internal/services"
)

// UserHandler handles user registry requests
type UserHandler struct {
	userService      services.UserServicer
	reconcileService services.ReconcileServicer
	auditService     services.AuditServicer
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService services.UserServicer, reconcileService services.ReconcileServicer, auditService services.AuditServicer) *UserHandler {
	return &UserHandler{userService: userService, reconcileService: reconcileService, auditService: auditService}
}

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Handle string `json:"handle" binding:"required,handle"`
	Email  string `json:"email" binding:"required,email,max=255"`
	Secret string `json:"secret" binding:"required,min=6,max=72"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email  string `json:"email" binding:"required"`
	Secret string `json:"secret" binding:"required"`
}

// UpdateUserRequest represents the profile update payload. An empty secret
// keeps the current one.
type UpdateUserRequest struct {
	Handle string `json:"handle" binding:"required,handle"`
	Email  string `json:"email" binding:"required,email,max=255"`
	Secret string `json:"secret" binding:"omitempty,min=6,max=72"`
}

// UserResponse represents the user data in the response
type UserResponse struct {
	ID               string    `json:"id"`
	Handle           string    `json:"handle"`
	Email            string    `json:"email"`
	CategoryIDs      []string  `json:"category_ids"`
	TransactionIDs   []string  `json:"transaction_ids"`
	CategoryCount    int       `json:"category_count"`
	TransactionCount int       `json:"transaction_count"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func newUserResponse(u *models.User) UserResponse {
	categoryIDs, transactionIDs := u.CategoryIDs, u.TransactionIDs
	if categoryIDs == nil {
		categoryIDs = []string{}
	}
	if transactionIDs == nil {
		transactionIDs = []string{}
	}
	return UserResponse{
		ID:               u.ID,
		Handle:           u.Handle,
		Email:            u.Email,
		CategoryIDs:      categoryIDs,
		TransactionIDs:   transactionIDs,
		CategoryCount:    len(categoryIDs),
		TransactionCount: len(transactionIDs),
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}

// Register handles user registration
// @Summary     Register a new user
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       request body RegisterRequest true "User registration data"
// @Success     201 {object} UserResponse "User registered"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Handle or email taken"
// @Router      /users [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	user, err := h.userService.Register(c.Request.Context(), req.Handle, req.Email, req.Secret)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), user.ID, "REGISTER", "user", user.ID, c.ClientIP(),
		map[string]any{"handle": user.Handle})

	c.JSON(http.StatusCreated, gin.H{"user": newUserResponse(user)})
}

// Login handles credential checks
// @Summary     Authenticate a user
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "Credentials"
// @Success     200 {object} UserResponse "Authenticated user"
// @Failure     401 {object} ErrorResponse "Invalid credentials"
// @Router      /users/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	user, err := h.userService.Authenticate(c.Request.Context(), req.Email, req.Secret)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(user)})
}

// ListUsers handles listing all users
// @Summary     List users
// @Tags        users
// @Produce     json
// @Param       page      query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[UserResponse]
// @Router      /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = newUserResponse(&users[i])
	}
	respondPage(c, out)
}

// GetUser handles fetching a user by id
// @Summary     Get user by ID
// @Tags        users
// @Produce     json
// @Param       id path string true "User ID"
// @Success     200 {object} UserResponse
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(user)})
}

// GetUserByHandle handles fetching a user by handle
// @Summary     Get user by handle
// @Tags        users
// @Produce     json
// @Param       handle path string true "Handle"
// @Success     200 {object} UserResponse
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /users/handle/{handle} [get]
func (h *UserHandler) GetUserByHandle(c *gin.Context) {
	user, err := h.userService.GetUserByHandle(c.Request.Context(), c.Param("handle"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(user)})
}

// UpdateUser handles profile updates
// @Summary     Update a user
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       id      path string            true "User ID"
// @Param       request body UpdateUserRequest true "Profile"
// @Success     200 {object} UserResponse
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     409 {object} ErrorResponse "Handle or email taken"
// @Router      /users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	id := c.Param("id")
	user, err := h.userService.UpdateUser(c.Request.Context(), id, req.Handle, req.Email, req.Secret)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), id, "UPDATE_USER", "user", id, c.ClientIP(),
		map[string]any{"handle": user.Handle, "secret_changed": req.Secret != ""})

	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(user)})
}

// DeleteUser handles user deletion. Owned categories and transactions remain.
// @Summary     Delete a user
// @Tags        users
// @Produce     json
// @Param       id path string true "User ID"
// @Success     200 {object} MessageResponse
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id := c.Param("id")
	if err := h.userService.DeleteUser(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), id, "DELETE_USER", "user", id, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// ReconcileUser repairs the user's back-reference lists
// @Summary     Reconcile back-references
// @Tags        users
// @Produce     json
// @Param       id path string true "User ID"
// @Success     200 {object} services.ReconcileReport
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /users/{id}/reconcile [post]
func (h *UserHandler) ReconcileUser(c *gin.Context) {
	id := c.Param("id")
	report, err := h.reconcileService.ReconcileUser(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if report.Changed() {
		h.auditService.Log(c.Request.Context(), id, "RECONCILE_USER", "user", id, c.ClientIP(),
			map[string]any{
				"added_categories":     len(report.AddedCategories),
				"removed_categories":   len(report.RemovedCategories),
				"added_transactions":   len(report.AddedTransactions),
				"removed_transactions": len(report.RemovedTransactions),
			})
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}
