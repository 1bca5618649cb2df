package handler

import (
	"net/http"
	"strings"

	"github.com/Sudarshanganwani9/EduLearn-Learning-Platform/internal/api/v1/dto"
	"github.com/Sudarshanganwani9/EduLearn-Learning-Platform/internal/middleware"
	"github.com/Sudarshanganwani9/EduLearn-Learning-Platform/internal/service"

	"github.com/rs/zerolog"
)

const maxEntitlementIDs = 100

// PurchaseHandler serves the signed-in student's purchases
type PurchaseHandler struct {
	entitlementService service.EntitlementService
	logger             zerolog.Logger
}

func NewPurchaseHandler(entitlementService service.EntitlementService, logger zerolog.Logger) *PurchaseHandler {
	return &PurchaseHandler{
		entitlementService: entitlementService,
		logger:             logger.With().Str("handler", "PurchaseHandler").Logger(),
	}
}

// RegisterRoutes mounts purchase routes
func (h *PurchaseHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/me/purchases", authMw(http.HandlerFunc(h.listPurchases)))
	mux.Handle("/me/entitlements", authMw(http.HandlerFunc(h.getEntitlements)))
}

// listPurchases godoc
// @Summary List my purchases
// @Description Lists the courses the authenticated student bought, newest first.
// @Tags purchases
// @Produce json
// @Success 200 {array} dto.PurchasedCourseDTO
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 503 {string} string "Failed to list purchases"
// @Router /me/purchases [get]
func (h *PurchaseHandler) listPurchases(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	userID := middleware.UserID(r.Context())

	purchases, err := h.entitlementService.ListPurchases(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, "Failed to list purchases", err)
		return
	}

	resp := make([]dto.PurchasedCourseDTO, 0, len(purchases))
	for i := range purchases {
		resp = append(resp, dto.PurchasedCourseDTO{
			Purchase: toPurchaseResponse(&purchases[i].Purchase),
			Course:   toCourseResponse(&purchases[i].Course),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// getEntitlements godoc
// @Summary Check entitlements
// @Description Reports which of the given courses the authenticated student owns. Lookup failures report false.
// @Tags purchases
// @Produce json
// @Param course_ids query string true "Comma separated course IDs"
// @Success 200 {object} dto.EntitlementsResponseDTO
// @Failure 400 {string} string "course_ids is required"
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Router /me/entitlements [get]
func (h *PurchaseHandler) getEntitlements(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	userID := middleware.UserID(r.Context())

	var ids []string
	seen := map[string]bool{}
	for _, id := range strings.Split(r.URL.Query().Get("course_ids"), ",") {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		http.Error(w, "course_ids is required", http.StatusBadRequest)
		return
	}
	if len(ids) > maxEntitlementIDs {
		http.Error(w, "too many course_ids", http.StatusBadRequest)
		return
	}

	// A single course goes through the cached check.
	entitlements := make(map[string]bool, len(ids))
	if len(ids) == 1 {
		entitlements[ids[0]] = h.entitlementService.CheckEntitlement(r.Context(), userID, ids[0])
	} else {
		owned := h.entitlementService.OwnedCourseIDs(r.Context(), userID, ids)
		for _, id := range ids {
			entitlements[id] = owned[id]
		}
	}
	writeJSON(w, http.StatusOK, dto.EntitlementsResponseDTO{Entitlements: entitlements})
}
