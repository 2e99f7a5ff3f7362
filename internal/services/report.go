package services

import (
	"context"
	"io"
	"net/url"
	"strings"

	"lostfound/internal/models"
	"lostfound/internal/store"
)

// ReportForm 表单原始字段
type ReportForm struct {
	Type        string
	Description string
	Location    string
	Date        string
	Time        string
	Tags        []string
}

// Upload 随表单提交的图片
type Upload struct {
	Reader   io.Reader
	Filename string
}

// ParseReportForm reads the submission fields. tags may be absent, given
// once or repeated; the result is always a slice in submitted order.
func ParseReportForm(values url.Values) ReportForm {
	return ReportForm{
		Type:        values.Get("type"),
		Description: values.Get("description"),
		Location:    values.Get("location"),
		Date:        values.Get("date"),
		Time:        values.Get("time"),
		Tags:        NormalizeTags(values["tags"]),
	}
}

// NormalizeTags 去掉空白项，其余原样保留（顺序、重复项都不动）
func NormalizeTags(raw []string) []string {
	tags := make([]string, 0, len(raw))
	for _, t := range raw {
		if strings.TrimSpace(t) == "" {
			continue
		}
		tags = append(tags, t)
	}
	return tags
}

func (f ReportForm) toItem(who models.Identity) models.Item {
	return models.Item{
		Kind:          models.Kind(strings.ToLower(strings.TrimSpace(f.Type))),
		Description:   strings.TrimSpace(f.Description),
		Location:      strings.TrimSpace(f.Location),
		Date:          strings.TrimSpace(f.Date),
		Time:          strings.TrimSpace(f.Time),
		ReportedBy:    who.DisplayName,
		ReporterEmail: who.Email,
		Tags:          NormalizeTags(f.Tags),
	}
}

// Submit validates the form, stores the optional image and creates the
// record. If the record cannot be created the stored image is removed again.
func (s *ItemService) Submit(ctx context.Context, form ReportForm, upload *Upload, who models.Identity) (models.Item, error) {
	if who.IsZero() {
		return models.Item{}, &store.ValidationError{Field: "reportedBy"}
	}

	item := form.toItem(who)
	// 先校验再写文件，避免无效提交落盘
	if err := store.Validate(item); err != nil {
		return models.Item{}, err
	}

	if upload != nil && upload.Reader != nil {
		name, err := s.images.Store(ctx, upload.Reader, upload.Filename)
		if err != nil {
			s.logger.Errorw("failed to store image", "file", upload.Filename, "error", err)
			return models.Item{}, &store.StorageError{Op: "store image", Err: err}
		}
		item.Image = name
	}

	created, err := s.store.Create(ctx, item)
	if err != nil {
		if item.Image != "" {
			if rmErr := s.images.Remove(context.WithoutCancel(ctx), item.Image); rmErr != nil {
				s.logger.Warnw("failed to remove orphaned image", "image", item.Image, "error", rmErr)
			}
		}
		s.logger.Errorw("failed to create item", "user", who.DisplayName, "error", err)
		return models.Item{}, err
	}

	if s.cache != nil {
		s.cache.Purge()
	}

	s.logger.Infow("item reported",
		"id", created.ID,
		"type", created.Kind,
		"user", created.ReportedBy,
		"tags", created.Tags,
		"image", created.Image,
	)
	return created, nil
}
