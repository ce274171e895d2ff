package api

import (
	"time"

	"github.com/patrickmn/go-cache"

	"kpa-forms-backend/internal/model"
	"kpa-forms-backend/internal/store"
	"kpa-forms-backend/internal/validation"
)

// Response is the envelope returned by every endpoint.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store store.Store
	cache *cache.Cache
}

// NewHandler creates a new API handler. The cache may be nil; when set it
// is flushed after every successful write so cached reads never go stale.
func NewHandler(s store.Store, responseCache *cache.Cache) *Handler {
	return &Handler{
		store: s,
		cache: responseCache,
	}
}

func (h *Handler) invalidateReads() {
	if h.cache != nil {
		h.cache.Flush()
	}
}

// specificationResponse is the wire shape of a stored record.
type specificationResponse struct {
	ID            int64          `json:"id"`
	FormNumber    string         `json:"formNumber"`
	SubmittedBy   string         `json:"submittedBy"`
	SubmittedDate string         `json:"submittedDate"`
	Fields        model.FieldMap `json:"fields"`
	Status        string         `json:"status"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

func toResponse(rec model.WheelSpecification) specificationResponse {
	return specificationResponse{
		ID:            rec.ID,
		FormNumber:    rec.FormNumber,
		SubmittedBy:   rec.SubmittedBy,
		SubmittedDate: rec.SubmittedDate.Format(validation.DateLayout),
		Fields:        rec.Fields,
		Status:        rec.Status,
		CreatedAt:     rec.CreatedAt,
		UpdatedAt:     rec.UpdatedAt,
	}
}
