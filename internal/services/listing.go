package services

import (
	"context"

	"lostfound/internal/models"
	"lostfound/internal/store"
)

func listCacheKey(tag string) string {
	return "items:tag:" + tag
}

// List 返回全部物品，tag 非空时只返回包含该标签的物品
func (s *ItemService) List(ctx context.Context, tag string) ([]models.Item, error) {
	key := listCacheKey(tag)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key).([]models.Item); ok {
			return cloneItems(cached), nil
		}
	}

	items, err := s.store.FindAll(ctx, store.Filter{Tag: tag})
	if err != nil {
		s.logger.Errorw("failed to list items", "tag", tag, "error", err)
		return nil, err
	}

	if s.cache != nil && s.cacheTTL > 0 {
		s.cache.Set(key, cloneItems(items), s.cacheTTL)
	}
	return items, nil
}

// ListForUser returns ErrNotFound when the user has no submissions: an
// unknown user and a user without reports look the same to callers.
func (s *ItemService) ListForUser(ctx context.Context, displayName string) ([]models.Item, error) {
	items, err := s.store.FindByUser(ctx, displayName)
	if err != nil {
		s.logger.Errorw("failed to list user items", "user", displayName, "error", err)
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNotFound
	}
	return items, nil
}
