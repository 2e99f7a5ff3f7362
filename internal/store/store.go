package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"lostfound/internal/models"
)

// ItemStore persists item records. Implementations hand out copies, never
// references to their own state.
type ItemStore interface {
	// Create validates and persists item, assigning ID and timestamps.
	Create(ctx context.Context, item models.Item) (models.Item, error)
	// FindAll returns records in creation order, optionally filtered.
	FindAll(ctx context.Context, filter Filter) ([]models.Item, error)
	// FindByUser returns the records whose ReportedBy equals displayName.
	FindByUser(ctx context.Context, displayName string) ([]models.Item, error)
	Close(ctx context.Context) error
}

// Filter 查询条件，零值表示不过滤
type Filter struct {
	Tag string
}

// ValidationError 必填字段缺失或为空
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid item: %s is required", e.Field)
	}
	return fmt.Sprintf("invalid item: %s %s", e.Field, e.Reason)
}

// StorageError 持久层不可用或写入失败
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Validate 检查 Item 的必填字段
func Validate(item models.Item) error {
	if !item.Kind.Valid() {
		if item.Kind == "" {
			return &ValidationError{Field: "type"}
		}
		return &ValidationError{Field: "type", Reason: "must be lost or found"}
	}
	required := []struct {
		field string
		value string
	}{
		{"description", item.Description},
		{"location", item.Location},
		{"date", item.Date},
		{"time", item.Time},
		{"reportedBy", item.ReportedBy},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &ValidationError{Field: r.field}
		}
	}
	return nil
}

// stamp sets creation timestamps and guarantees a non-nil tag slice.
func stamp(item models.Item, now time.Time) models.Item {
	out := item.Clone()
	out.CreatedAt = now
	out.UpdatedAt = now
	return out
}
