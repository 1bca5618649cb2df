package handler

import (
	"encoding/json"
	"net/http"

	"github.com/Sudarshanganwani9/EduLearn-Learning-Platform/internal/api/v1/dto"
	"github.com/Sudarshanganwani9/EduLearn-Learning-Platform/internal/middleware"
	"github.com/Sudarshanganwani9/EduLearn-Learning-Platform/internal/model"
	"github.com/Sudarshanganwani9/EduLearn-Learning-Platform/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type UserHandler struct {
	userService service.UserService
	validate    *validator.Validate
	logger      zerolog.Logger
}

func NewUserHandler(userService service.UserService, v *validator.Validate, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		validate:    v,
		logger:      logger.With().Str("handler", "UserHandler").Logger(),
	}
}

// RegisterRoutes mounts v1 user routes
func (h *UserHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/me/role", authMw(http.HandlerFunc(h.handleRole)))
}

func (h *UserHandler) handleRole(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.getRole(w, r)
	case http.MethodPost:
		h.setRole(w, r)
	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

// getRole godoc
// @Summary Get my role
// @Tags users
// @Produce json
// @Success 200 {object} dto.RoleResponseDTO
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 404 {string} string "role not set"
// @Router /me/role [get]
func (h *UserHandler) getRole(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	role, err := h.userService.GetRole(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, "Failed to retrieve role", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.RoleResponseDTO{UserID: userID, Role: string(role)})
}

// setRole godoc
// @Summary Choose my role
// @Description Stores the role picked after sign-up. The role cannot be changed afterwards.
// @Tags users
// @Accept json
// @Produce json
// @Param role body dto.RoleRequestDTO true "Role request"
// @Success 201 {object} dto.RoleResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 409 {string} string "role already set"
// @Router /me/role [post]
func (h *UserHandler) setRole(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	var req dto.RoleRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.userService.SetRole(r.Context(), userID, model.UserRole(req.Role)); err != nil {
		writeError(w, h.logger, "Failed to set role", err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.RoleResponseDTO{UserID: userID, Role: req.Role})
}
