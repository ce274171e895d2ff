package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"kpa-forms-backend/internal/model"
)

// Domain errors surfaced to the API boundary. Anything else coming out of
// the store is a storage failure.
var (
	ErrNotFound            = errors.New("wheel specification not found")
	ErrDuplicateFormNumber = errors.New("form number already exists")
)

// Store defines all persistence operations for wheel specifications.
type Store interface {
	Create(ctx context.Context, rec model.WheelSpecification) (model.WheelSpecification, error)
	List(ctx context.Context, filter ListFilter) ([]model.WheelSpecification, int64, error)
	GetByFormNumber(ctx context.Context, formNumber string) (model.WheelSpecification, error)
	Update(ctx context.Context, formNumber string, rec model.WheelSpecification) (model.WheelSpecification, error)
	Delete(ctx context.Context, formNumber string) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// Create inserts a new record. The existence pre-check is an early exit;
// the unique index on form_number is the authoritative guard against
// concurrent creates.
func (s *gormStore) Create(ctx context.Context, rec model.WheelSpecification) (model.WheelSpecification, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.WheelSpecification{}).
		Where("form_number = ?", rec.FormNumber).
		Count(&count).Error; err != nil {
		return model.WheelSpecification{}, fmt.Errorf("failed to check form number %q: %w", rec.FormNumber, err)
	}
	if count > 0 {
		return model.WheelSpecification{}, ErrDuplicateFormNumber
	}

	rec.ID = 0
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isDuplicateKey(err) {
			return model.WheelSpecification{}, ErrDuplicateFormNumber
		}
		return model.WheelSpecification{}, fmt.Errorf("failed to create wheel specification %q: %w", rec.FormNumber, err)
	}
	return rec, nil
}

// List returns the filtered page plus the total count over the same
// predicate, ordered most recent first.
func (s *gormStore) List(ctx context.Context, filter ListFilter) ([]model.WheelSpecification, int64, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	q := s.db.WithContext(ctx).Model(&model.WheelSpecification{})
	if filter.FormNumber != "" {
		q = q.Where("LOWER(form_number) LIKE ?", "%"+strings.ToLower(filter.FormNumber)+"%")
	}
	if filter.SubmittedBy != "" {
		q = q.Where("LOWER(submitted_by) LIKE ?", "%"+strings.ToLower(filter.SubmittedBy)+"%")
	}
	if filter.SubmittedDate != nil {
		q = q.Where("submitted_date = ?", *filter.SubmittedDate)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count wheel specifications: %w", err)
	}

	var recs []model.WheelSpecification
	if err := q.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&recs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list wheel specifications: %w", err)
	}
	return recs, total, nil
}

// GetByFormNumber fetches a single record by its identity key.
func (s *gormStore) GetByFormNumber(ctx context.Context, formNumber string) (model.WheelSpecification, error) {
	var rec model.WheelSpecification
	err := s.db.WithContext(ctx).First(&rec, "form_number = ?", formNumber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.WheelSpecification{}, ErrNotFound
	}
	if err != nil {
		return model.WheelSpecification{}, fmt.Errorf("failed to fetch wheel specification %q: %w", formNumber, err)
	}
	return rec, nil
}

// Update overwrites all mutable attributes of the record currently holding
// formNumber. A changed form number is re-checked for uniqueness against
// every other record before the write.
func (s *gormStore) Update(ctx context.Context, formNumber string, rec model.WheelSpecification) (model.WheelSpecification, error) {
	var existing model.WheelSpecification
	err := s.db.WithContext(ctx).First(&existing, "form_number = ?", formNumber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.WheelSpecification{}, ErrNotFound
	}
	if err != nil {
		return model.WheelSpecification{}, fmt.Errorf("failed to fetch wheel specification %q: %w", formNumber, err)
	}

	if rec.FormNumber != existing.FormNumber {
		var count int64
		if err := s.db.WithContext(ctx).Model(&model.WheelSpecification{}).
			Where("form_number = ? AND id <> ?", rec.FormNumber, existing.ID).
			Count(&count).Error; err != nil {
			return model.WheelSpecification{}, fmt.Errorf("failed to check form number %q: %w", rec.FormNumber, err)
		}
		if count > 0 {
			return model.WheelSpecification{}, ErrDuplicateFormNumber
		}
	}

	existing.FormNumber = rec.FormNumber
	existing.SubmittedBy = rec.SubmittedBy
	existing.SubmittedDate = rec.SubmittedDate
	existing.Fields = rec.Fields
	existing.Status = rec.Status

	if err := s.db.WithContext(ctx).Save(&existing).Error; err != nil {
		if isDuplicateKey(err) {
			return model.WheelSpecification{}, ErrDuplicateFormNumber
		}
		return model.WheelSpecification{}, fmt.Errorf("failed to update wheel specification %q: %w", formNumber, err)
	}
	return existing, nil
}

// Delete permanently removes the record holding formNumber.
func (s *gormStore) Delete(ctx context.Context, formNumber string) error {
	res := s.db.WithContext(ctx).Where("form_number = ?", formNumber).Delete(&model.WheelSpecification{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete wheel specification %q: %w", formNumber, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// isDuplicateKey recognizes a unique-constraint violation from either
// dialect the service runs against.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
