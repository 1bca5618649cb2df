package handler

import (
	"encoding/json"
	"math"
	"net/http"
	"strings"

	"github.com/Sudarshanganwani9/EduLearn-Learning-Platform/internal/api/v1/dto"
	"github.com/Sudarshanganwani9/EduLearn-Learning-Platform/internal/middleware"
	"github.com/Sudarshanganwani9/EduLearn-Learning-Platform/internal/model"
	"github.com/Sudarshanganwani9/EduLearn-Learning-Platform/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// CourseHandler handles course-related endpoints
type CourseHandler struct {
	courseService  service.CourseService
	contentService service.ContentService
	validate       *validator.Validate
	logger         zerolog.Logger
}

// NewCourseHandler creates a new CourseHandler
func NewCourseHandler(courseService service.CourseService, contentService service.ContentService, validate *validator.Validate, logger zerolog.Logger) *CourseHandler {
	return &CourseHandler{
		courseService:  courseService,
		contentService: contentService,
		validate:       validate,
		logger:         logger.With().Str("handler", "CourseHandler").Logger(),
	}
}

// RegisterRoutes mounts course routes. Reads are open to anonymous viewers, so
// the handlers themselves require a user for writes.
func (h *CourseHandler) RegisterRoutes(mux *http.ServeMux, authMw, optionalAuthMw func(http.Handler) http.Handler) {
	mux.Handle("/courses", optionalAuthMw(http.HandlerFunc(h.handleCourses)))
	mux.Handle("/courses/", optionalAuthMw(http.HandlerFunc(h.handleCourse)))
	mux.Handle("/educator/courses", authMw(http.HandlerFunc(h.listEducatorCourses)))
}

func (h *CourseHandler) handleCourses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listCatalog(w, r)
	case http.MethodPost:
		h.createCourse(w, r)
	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

func (h *CourseHandler) handleCourse(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/courses/")
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if segments[0] == "" {
		http.NotFound(w, r)
		return
	}
	courseID := segments[0]

	switch {
	case len(segments) == 1 && r.Method == http.MethodGet:
		h.getCourse(w, r, courseID)
	case len(segments) == 1 && r.Method == http.MethodPut:
		h.updateCourse(w, r, courseID)
	case len(segments) == 1 && r.Method == http.MethodDelete:
		h.deleteCourse(w, r, courseID)
	case len(segments) == 2 && segments[1] == "purchase" && r.Method == http.MethodPost:
		h.purchaseCourse(w, r, courseID)
	case len(segments) == 1, len(segments) == 2 && segments[1] == "purchase":
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	default:
		http.NotFound(w, r)
	}
}

// listCatalog godoc
// @Summary List published courses
// @Description Lists published courses. Signed-in viewers also see which ones they own.
// @Tags courses
// @Produce json
// @Param q query string false "Search in title, description and category"
// @Success 200 {array} dto.CatalogItemDTO
// @Failure 503 {string} string "Failed to list courses"
// @Router /courses [get]
func (h *CourseHandler) listCatalog(w http.ResponseWriter, r *http.Request) {
	viewerID := middleware.UserID(r.Context())
	search := strings.TrimSpace(r.URL.Query().Get("q"))

	entries, err := h.contentService.Catalog(r.Context(), viewerID, search)
	if err != nil {
		writeError(w, h.logger, "Failed to list courses", err)
		return
	}

	resp := make([]dto.CatalogItemDTO, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, dto.CatalogItemDTO{
			CourseResponseDTO: toCourseResponse(&e.Course),
			Purchased:         e.Purchased,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// createCourse godoc
// @Summary Create a new course
// @Description Creates a new course owned by the authenticated educator.
// @Tags courses
// @Accept json
// @Produce json
// @Param course body dto.CourseCreateDTO true "Course creation request"
// @Success 201 {object} dto.EducatorCourseResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 403 {string} string "forbidden"
// @Failure 500 {string} string "Failed to create course"
// @Router /courses [post]
func (h *CourseHandler) createCourse(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}
	var req dto.CourseCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	course := &model.Course{
		EducatorID:   userID,
		Title:        req.Title,
		PriceCents:   toCents(*req.Price),
		ThumbnailURL: req.ThumbnailURL,
		VideoURL:     req.VideoURL,
		Duration:     req.Duration,
		Category:     req.Category,
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Level != nil {
		level := model.Level(*req.Level)
		course.Level = &level
	}
	if req.IsPublished != nil {
		course.IsPublished = *req.IsPublished
	}

	created, err := h.courseService.CreateCourse(r.Context(), course)
	if err != nil {
		writeError(w, h.logger, "Failed to create course", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEducatorCourseResponse(created))
}

// getCourse godoc
// @Summary Get a course
// @Description Retrieves a course page. The media URL is only present when the viewer owns the course.
// @Tags courses
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} dto.CourseDetailResponseDTO
// @Failure 404 {string} string "course not found"
// @Failure 503 {string} string "Failed to retrieve course"
// @Router /courses/{courseId} [get]
func (h *CourseHandler) getCourse(w http.ResponseWriter, r *http.Request, courseID string) {
	viewerID := middleware.UserID(r.Context())

	content, err := h.contentService.GetCourseContent(r.Context(), viewerID, courseID)
	if err != nil {
		writeError(w, h.logger, "Failed to retrieve course", err)
		return
	}
	writeJSON(w, http.StatusOK, toCourseDetail(content))
}

// updateCourse godoc
// @Summary Update a course
// @Description Updates a course owned by the authenticated educator. Omitted fields keep their value.
// @Tags courses
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param course body dto.CourseUpdateDTO true "Course update request"
// @Success 200 {object} dto.EducatorCourseResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "course not found"
// @Failure 500 {string} string "Failed to update course"
// @Router /courses/{courseId} [put]
func (h *CourseHandler) updateCourse(w http.ResponseWriter, r *http.Request, courseID string) {
	userID := middleware.UserID(r.Context())
	if userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}
	var req dto.CourseUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	course, err := h.courseService.GetOwnedCourse(r.Context(), userID, courseID)
	if err != nil {
		writeError(w, h.logger, "Failed to update course", err)
		return
	}
	applyCourseUpdate(course, &req)

	updated, err := h.courseService.UpdateCourse(r.Context(), course)
	if err != nil {
		writeError(w, h.logger, "Failed to update course", err)
		return
	}
	writeJSON(w, http.StatusOK, toEducatorCourseResponse(updated))
}

// deleteCourse godoc
// @Summary Delete a course
// @Description Deletes a course owned by the authenticated educator. Courses with purchases cannot be deleted.
// @Tags courses
// @Param courseId path string true "Course ID"
// @Success 204 "No Content"
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 404 {string} string "course not found"
// @Failure 409 {string} string "course has purchases and cannot be deleted"
// @Failure 500 {string} string "Failed to delete course"
// @Router /courses/{courseId} [delete]
func (h *CourseHandler) deleteCourse(w http.ResponseWriter, r *http.Request, courseID string) {
	userID := middleware.UserID(r.Context())
	if userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}
	if err := h.courseService.DeleteCourse(r.Context(), userID, courseID); err != nil {
		writeError(w, h.logger, "Failed to delete course", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// purchaseCourse godoc
// @Summary Purchase a course
// @Description Buys a published course at its current price and returns the unlocked course. Buying an owned course again returns the original purchase.
// @Tags purchases
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 201 {object} dto.PurchaseCourseResponseDTO
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 404 {string} string "course not found"
// @Failure 409 {string} string "course is not available for purchase"
// @Failure 500 {string} string "Failed to record purchase"
// @Router /courses/{courseId}/purchase [post]
func (h *CourseHandler) purchaseCourse(w http.ResponseWriter, r *http.Request, courseID string) {
	userID := middleware.UserID(r.Context())
	if userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}

	purchase, content, err := h.contentService.PurchaseCourse(r.Context(), userID, courseID)
	if err != nil {
		writeError(w, h.logger, "Failed to record purchase", err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.PurchaseCourseResponseDTO{
		Purchase: toPurchaseResponse(purchase),
		Course:   toCourseDetail(content),
	})
}

// listEducatorCourses godoc
// @Summary List my courses
// @Description Lists every course the authenticated educator owns, published or not.
// @Tags courses
// @Produce json
// @Success 200 {array} dto.EducatorCourseResponseDTO
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 503 {string} string "Failed to list courses"
// @Router /educator/courses [get]
func (h *CourseHandler) listEducatorCourses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	userID := middleware.UserID(r.Context())
	courses, err := h.courseService.ListMyCourses(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, "Failed to list courses", err)
		return
	}
	resp := make([]dto.EducatorCourseResponseDTO, 0, len(courses))
	for i := range courses {
		resp = append(resp, toEducatorCourseResponse(&courses[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func applyCourseUpdate(c *model.Course, req *dto.CourseUpdateDTO) {
	if req.Title != nil {
		c.Title = *req.Title
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.Price != nil {
		c.PriceCents = toCents(*req.Price)
	}
	if req.ThumbnailURL != nil {
		c.ThumbnailURL = req.ThumbnailURL
	}
	if req.VideoURL != nil {
		c.VideoURL = req.VideoURL
	}
	if req.Duration != nil {
		c.Duration = req.Duration
	}
	if req.Level != nil {
		level := model.Level(*req.Level)
		c.Level = &level
	}
	if req.Category != nil {
		c.Category = req.Category
	}
	if req.IsPublished != nil {
		c.IsPublished = *req.IsPublished
	}
}

func toCents(price float64) int64 {
	return int64(math.Round(price * 100))
}

func toCourseResponse(c *model.Course) dto.CourseResponseDTO {
	resp := dto.CourseResponseDTO{
		CourseID:     c.CourseID,
		EducatorID:   c.EducatorID,
		Title:        c.Title,
		Description:  c.Description,
		Price:        model.FormatPrice(c.PriceCents),
		PriceCents:   c.PriceCents,
		ThumbnailURL: c.ThumbnailURL,
		Duration:     c.Duration,
		Category:     c.Category,
		IsPublished:  c.IsPublished,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
	if c.Level != nil {
		level := string(*c.Level)
		resp.Level = &level
	}
	return resp
}

func toEducatorCourseResponse(c *model.Course) dto.EducatorCourseResponseDTO {
	return dto.EducatorCourseResponseDTO{
		CourseResponseDTO: toCourseResponse(c),
		VideoURL:          c.VideoURL,
	}
}

func toCourseDetail(content *model.CourseContent) dto.CourseDetailResponseDTO {
	return dto.CourseDetailResponseDTO{
		CourseResponseDTO: toCourseResponse(&content.Course),
		Access: dto.AccessDTO{
			State:    string(content.State),
			Locked:   content.Locked,
			Owner:    content.Owner,
			MediaURL: content.MediaURL,
		},
	}
}

func toPurchaseResponse(p *model.Purchase) dto.PurchaseResponseDTO {
	return dto.PurchaseResponseDTO{
		PurchaseID:  p.PurchaseID,
		StudentID:   p.StudentID,
		CourseID:    p.CourseID,
		Amount:      model.FormatPrice(p.AmountCents),
		AmountCents: p.AmountCents,
		PurchasedAt: p.PurchasedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
