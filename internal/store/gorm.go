package store

import (
	"context"
	"strconv"
	"time"

	"lostfound/internal/models"

	"gorm.io/gorm"
)

type itemRow struct {
	ID            uint         `gorm:"primaryKey"`
	Kind          string       `gorm:"size:10;not null"`
	Description   string       `gorm:"type:text;not null"`
	Location      string       `gorm:"not null"`
	Date          string       `gorm:"size:32;not null"`
	Time          string       `gorm:"size:32;not null"`
	Image         string       `gorm:"size:255"`
	ReportedBy    string       `gorm:"not null;index"`
	ReporterEmail string       `gorm:"size:255"`
	Tags          []itemTagRow `gorm:"foreignKey:ItemID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt     time.Time    `gorm:"index"`
	UpdatedAt     time.Time
}

func (itemRow) TableName() string { return "items" }

// itemTagRow 标签单独成表，Position 保留提交顺序
type itemTagRow struct {
	ID       uint   `gorm:"primaryKey"`
	ItemID   uint   `gorm:"not null;index"`
	Position int    `gorm:"not null"`
	Name     string `gorm:"size:100;not null;index"`
}

func (itemTagRow) TableName() string { return "item_tags" }

// GormStore 基于 gorm 的关系型实现（postgres / sqlite）
type GormStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormStore migrates the schema and returns a store on db.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&itemRow{}, &itemTagRow{}); err != nil {
		return nil, &StorageError{Op: "migrate", Err: err}
	}
	return &GormStore{db: db, now: time.Now}, nil
}

func (s *GormStore) Create(ctx context.Context, item models.Item) (models.Item, error) {
	if err := Validate(item); err != nil {
		return models.Item{}, err
	}
	item = stamp(item, s.now().UTC())

	row := toRow(item)
	// 主记录和标签在同一事务中写入
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&row).Error
	})
	if err != nil {
		return models.Item{}, &StorageError{Op: "create", Err: err}
	}
	return fromRow(row), nil
}

func (s *GormStore) FindAll(ctx context.Context, filter Filter) ([]models.Item, error) {
	q := s.query(ctx)
	if filter.Tag != "" {
		sub := s.db.WithContext(ctx).Model(&itemTagRow{}).Select("item_id").Where("name = ?", filter.Tag)
		q = q.Where("id IN (?)", sub)
	}
	return s.find(q, "find all")
}

func (s *GormStore) FindByUser(ctx context.Context, displayName string) ([]models.Item, error) {
	return s.find(s.query(ctx).Where("reported_by = ?", displayName), "find by user")
}

func (s *GormStore) Close(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *GormStore) query(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(&itemRow{}).
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("created_at ASC, id ASC")
}

func (s *GormStore) find(q *gorm.DB, op string) ([]models.Item, error) {
	var rows []itemRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, &StorageError{Op: op, Err: err}
	}
	items := make([]models.Item, 0, len(rows))
	for _, r := range rows {
		items = append(items, fromRow(r))
	}
	return items, nil
}

func toRow(item models.Item) itemRow {
	row := itemRow{
		Kind:          string(item.Kind),
		Description:   item.Description,
		Location:      item.Location,
		Date:          item.Date,
		Time:          item.Time,
		Image:         item.Image,
		ReportedBy:    item.ReportedBy,
		ReporterEmail: item.ReporterEmail,
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
	}
	for i, t := range item.Tags {
		row.Tags = append(row.Tags, itemTagRow{Position: i, Name: t})
	}
	return row
}

func fromRow(row itemRow) models.Item {
	item := models.Item{
		ID:            strconv.FormatUint(uint64(row.ID), 10),
		Kind:          models.Kind(row.Kind),
		Description:   row.Description,
		Location:      row.Location,
		Date:          row.Date,
		Time:          row.Time,
		Image:         row.Image,
		ReportedBy:    row.ReportedBy,
		ReporterEmail: row.ReporterEmail,
		Tags:          make([]string, 0, len(row.Tags)),
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
	for _, t := range row.Tags {
		item.Tags = append(item.Tags, t.Name)
	}
	return item
}
