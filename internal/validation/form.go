// Package validation normalizes raw wheel specification payloads before
// they reach the store. It has no side effects and no storage knowledge.
package validation

import (
	"fmt"
	"strings"
	"time"

	"kpa-forms-backend/internal/model"
)

// DateLayout is the calendar-date format accepted on the wire.
const DateLayout = "2006-01-02"

const maxFieldLen = 100

// ValidationError describes a rejected input and names the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// SpecificationForm is the raw, untyped shape of a create or update request
// body. Fields is an open document; only the known measurement keys are
// type-checked, everything else passes through untouched.
type SpecificationForm struct {
	FormNumber    string         `json:"formNumber"`
	SubmittedBy   string         `json:"submittedBy"`
	SubmittedDate string         `json:"submittedDate"`
	Status        string         `json:"status"`
	Fields        map[string]any `json:"fields"`
}

// Normalize validates the form and returns a record candidate ready for the
// store. Server-assigned attributes (id, timestamps) are left zero.
func (f *SpecificationForm) Normalize() (model.WheelSpecification, error) {
	var rec model.WheelSpecification

	formNumber, err := requiredString("formNumber", f.FormNumber)
	if err != nil {
		return rec, err
	}

	submittedBy, err := requiredString("submittedBy", f.SubmittedBy)
	if err != nil {
		return rec, err
	}

	submittedDate, err := ParseDate(f.SubmittedDate)
	if err != nil {
		return rec, &ValidationError{Field: "submittedDate", Reason: "must be a valid date in YYYY-MM-DD format"}
	}

	fields := model.FieldMap{}
	for k, v := range f.Fields {
		fields[k] = v
	}
	for _, key := range model.KnownFieldKeys {
		v, ok := fields[key]
		if !ok || v == nil {
			continue
		}
		s, ok := v.(string)
		if !ok {
			return rec, &ValidationError{Field: "fields." + key, Reason: "must be a string"}
		}
		if len(s) > maxFieldLen {
			return rec, &ValidationError{Field: "fields." + key, Reason: fmt.Sprintf("must be at most %d characters", maxFieldLen)}
		}
	}

	status := strings.TrimSpace(f.Status)
	if status == "" {
		status = model.DefaultStatus
	}

	rec = model.WheelSpecification{
		FormNumber:    formNumber,
		SubmittedBy:   submittedBy,
		SubmittedDate: submittedDate,
		Fields:        fields,
		Status:        status,
	}
	return rec, nil
}

// ParseDate parses a YYYY-MM-DD string into a UTC midnight timestamp.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
}

func requiredString(field, value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", &ValidationError{Field: field, Reason: "cannot be empty"}
	}
	if len(trimmed) > maxFieldLen {
		return "", &ValidationError{Field: field, Reason: fmt.Sprintf("must be at most %d characters", maxFieldLen)}
	}
	return trimmed, nil
}
