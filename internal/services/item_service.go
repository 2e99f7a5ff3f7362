package services

import (
	"errors"
	"time"

	"lostfound/internal/models"
	"lostfound/internal/store"
	"lostfound/internal/utils"

	"go.uber.org/zap"
)

// ErrNotFound 指定用户没有任何提交记录
var ErrNotFound = errors.New("not found")

// SuggestedTags 页面上提供的常用标签，仅作参考，不限制取值
var SuggestedTags = []string{"Electronics", "Clothing", "Accessories", "Books", "Personal Items"}

// ItemService 提交与查询物品的业务入口
type ItemService struct {
	store    store.ItemStore
	images   ImageStore
	cache    *utils.Cache
	cacheTTL time.Duration
	logger   *zap.SugaredLogger
}

// NewItemService wires the workflows. cache may be nil to disable listing
// caching.
func NewItemService(s store.ItemStore, images ImageStore, cache *utils.Cache, cacheTTL time.Duration, logger *zap.SugaredLogger) *ItemService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &ItemService{
		store:    s,
		images:   images,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

func cloneItems(items []models.Item) []models.Item {
	out := make([]models.Item, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}
