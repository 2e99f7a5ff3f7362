package models

import (
	"time"
)

// Kind 物品类型：丢失 / 捡到
type Kind string

const (
	KindLost  Kind = "lost"
	KindFound Kind = "found"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k == KindLost || k == KindFound
}

// Label 用于页面标题，例如 "Lost"
func (k Kind) Label() string {
	switch k {
	case KindLost:
		return "Lost"
	case KindFound:
		return "Found"
	}
	return string(k)
}

type Item struct {
	ID            string    `json:"id"`
	Kind          Kind      `json:"type"`
	Description   string    `json:"description"`
	Location      string    `json:"location"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	Image         string    `json:"image,omitempty"` // 相对上传目录的路径，未上传为空
	ReportedBy    string    `json:"reported_by"`     // 显示名，非外键
	ReporterEmail string    `json:"reporter_email,omitempty"`
	Tags          []string  `json:"tags"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Clone returns a copy that shares no slices with i.
func (i Item) Clone() Item {
	out := i
	out.Tags = make([]string, len(i.Tags))
	copy(out.Tags, i.Tags)
	return out
}
