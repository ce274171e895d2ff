package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"kpa-forms-backend/internal/store"
	"kpa-forms-backend/internal/validation"
)

// CreateSpecification handles POST /api/forms/wheel-specifications.
func (h *Handler) CreateSpecification(c *gin.Context) {
	var form validation.SpecificationForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Message: "invalid request body"})
		return
	}

	rec, err := form.Normalize()
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Message: err.Error()})
		return
	}

	created, err := h.store.Create(c.Request.Context(), rec)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateFormNumber) {
			c.JSON(http.StatusBadRequest, Response{
				Success: false,
				Message: fmt.Sprintf("form number %s already exists", rec.FormNumber),
			})
			return
		}
		log.Printf("Error creating wheel specification %q: %v", rec.FormNumber, err)
		c.JSON(http.StatusInternalServerError, Response{Success: false, Message: "internal server error"})
		return
	}

	h.invalidateReads()
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Message: "Wheel specification submitted successfully.",
		Data:    toResponse(created),
	})
}

// ListSpecifications handles GET /api/forms/wheel-specifications.
func (h *Handler) ListSpecifications(c *gin.Context) {
	filter := store.ListFilter{
		FormNumber:  c.Query("formNumber"),
		SubmittedBy: c.Query("submittedBy"),
		Limit:       store.DefaultLimit,
	}

	if v := c.Query("submittedDate"); v != "" {
		date, err := validation.ParseDate(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, Response{Success: false, Message: "invalid submittedDate filter, use YYYY-MM-DD"})
			return
		}
		filter.SubmittedDate = &date
	}

	if v := c.Query("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 || limit > store.MaxLimit {
			c.JSON(http.StatusBadRequest, Response{
				Success: false,
				Message: fmt.Sprintf("limit must be an integer between 1 and %d", store.MaxLimit),
			})
			return
		}
		filter.Limit = limit
	}

	if v := c.Query("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			c.JSON(http.StatusBadRequest, Response{Success: false, Message: "offset must be a non-negative integer"})
			return
		}
		filter.Offset = offset
	}

	recs, total, err := h.store.List(c.Request.Context(), filter)
	if err != nil {
		log.Printf("Error listing wheel specifications: %v", err)
		c.JSON(http.StatusInternalServerError, Response{Success: false, Message: "internal server error"})
		return
	}

	records := make([]specificationResponse, 0, len(recs))
	for _, rec := range recs {
		records = append(records, toResponse(rec))
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: "Filtered wheel specification forms fetched successfully.",
		Data: gin.H{
			"records": records,
			"total":   total,
		},
	})
}

// GetSpecification handles GET /api/forms/wheel-specifications/:formNumber.
func (h *Handler) GetSpecification(c *gin.Context) {
	formNumber := c.Param("formNumber")

	rec, err := h.store.GetByFormNumber(c.Request.Context(), formNumber)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, Response{
				Success: false,
				Message: fmt.Sprintf("wheel specification with form number %s not found", formNumber),
			})
			return
		}
		log.Printf("Error fetching wheel specification %q: %v", formNumber, err)
		c.JSON(http.StatusInternalServerError, Response{Success: false, Message: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: "Wheel specification fetched successfully.",
		Data:    toResponse(rec),
	})
}

// UpdateSpecification handles PUT /api/forms/wheel-specifications/:formNumber.
func (h *Handler) UpdateSpecification(c *gin.Context) {
	formNumber := c.Param("formNumber")

	var form validation.SpecificationForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Message: "invalid request body"})
		return
	}

	rec, err := form.Normalize()
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Message: err.Error()})
		return
	}

	updated, err := h.store.Update(c.Request.Context(), formNumber, rec)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, Response{
				Success: false,
				Message: fmt.Sprintf("wheel specification with form number %s not found", formNumber),
			})
		case errors.Is(err, store.ErrDuplicateFormNumber):
			c.JSON(http.StatusBadRequest, Response{
				Success: false,
				Message: fmt.Sprintf("form number %s already exists", rec.FormNumber),
			})
		default:
			log.Printf("Error updating wheel specification %q: %v", formNumber, err)
			c.JSON(http.StatusInternalServerError, Response{Success: false, Message: "internal server error"})
		}
		return
	}

	h.invalidateReads()
	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: "Wheel specification updated successfully.",
		Data:    toResponse(updated),
	})
}

// DeleteSpecification handles DELETE /api/forms/wheel-specifications/:formNumber.
func (h *Handler) DeleteSpecification(c *gin.Context) {
	formNumber := c.Param("formNumber")

	if err := h.store.Delete(c.Request.Context(), formNumber); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, Response{
				Success: false,
				Message: fmt.Sprintf("wheel specification with form number %s not found", formNumber),
			})
			return
		}
		log.Printf("Error deleting wheel specification %q: %v", formNumber, err)
		c.JSON(http.StatusInternalServerError, Response{Success: false, Message: "internal server error"})
		return
	}

	h.invalidateReads()
	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: fmt.Sprintf("Wheel specification %s deleted successfully.", formNumber),
		Data:    nil,
	})
}
