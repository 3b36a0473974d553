package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"user-hub/internal/domain"
	"user-hub/internal/service"
	"user-hub/internal/token"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	auth       service.AuthService
	users      service.UserService
	tokens     *token.Manager
	logger     *logrus.Logger
	corsOrigin string
}

func NewHandler(auth service.AuthService, users service.UserService, tokens *token.Manager, logger *logrus.Logger, corsOrigin string) *Handler {
	return &Handler{
		auth:       auth,
		users:      users,
		tokens:     tokens,
		logger:     logger,
		corsOrigin: corsOrigin,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware(h.corsOrigin))
	router.Use(requestLogger(h.logger))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Hello"})
	})

	authGroup := router.Group("/api/auth")
	{
		authGroup.POST("/register", h.register)
		authGroup.POST("/login", h.login)
		authGroup.GET("/logout", h.requireAuth(), h.logout)
	}

	userGroup := router.Group("/api/users", h.requireAuth())
	{
		userGroup.GET("/paginate", h.paginateUsers)
		userGroup.GET("", h.listUsers)
		userGroup.GET("/:id", h.getUser)
		userGroup.POST("", h.createUser)
		userGroup.PATCH("/:id", h.updateUser)
		userGroup.DELETE("/:id", h.deleteUser)
	}
}

type registerRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type createUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateUserRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Name     *string `json:"name"`
	Age      *int    `json:"age"`
}

// AuthUserResponse is the trimmed user shape returned by register/login.
type AuthUserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	Age       *int   `json:"age,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type PageInfoResponse struct {
	Count int64 `json:"count"`
	Pages int64 `json:"pages"`
}

type PageResponse struct {
	Info    PageInfoResponse `json:"info"`
	Records []UserResponse   `json:"records"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req.Email, req.Password, req.ConfirmPassword)
	if err != nil {
		h.renderError(c, err)
		return
	}

	accessToken, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":        authUserToResponse(user),
		"accessToken": accessToken,
	})
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.renderError(c, err)
		return
	}

	accessToken, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":        authUserToResponse(user),
		"accessToken": accessToken,
	})
}

func (h *Handler) logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}

	resp := make([]UserResponse, len(users))
	for i := range users {
		resp[i] = userToResponse(&users[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) paginateUsers(c *gin.Context) {
	page, err := h.users.Paginate(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		h.renderError(c, err)
		return
	}

	resp := PageResponse{
		Info:    PageInfoResponse{Count: page.Info.Count, Pages: page.Info.Pages},
		Records: make([]UserResponse, len(page.Records)),
	}
	for i := range page.Records {
		resp.Records[i] = userToResponse(&page.Records[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getUser(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, userToResponse(user))
}

func (h *Handler) createUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Create(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, userToResponse(user))
}

func (h *Handler) updateUser(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Update(c.Request.Context(), c.Param("id"), service.UserPatch{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Age:      req.Age,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, userToResponse(user))
}

func (h *Handler) deleteUser(c *gin.Context) {
	user, err := h.users.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, userToResponse(user))
}

// renderError maps the service error taxonomy onto status codes. All
// client-caused failures are 400; guard failures are handled in the
// middleware directly.
func (h *Handler) renderError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch service.KindOf(err) {
	case service.KindValidation, service.KindAuth, service.KindNotFound, service.KindStorage:
		status = http.StatusBadRequest
	default:
		h.logger.WithError(err).Error("request failed")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func authUserToResponse(user *domain.User) AuthUserResponse {
	return AuthUserResponse{
		ID:    user.ID,
		Email: user.Email,
	}
}

func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Age:       user.Age,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
		UpdatedAt: user.UpdatedAt.Format(time.RFC3339),
	}
}
