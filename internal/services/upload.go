package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ImageStore 保存提交附带的图片
type ImageStore interface {
	// Store writes r under the upload root and returns the stored name,
	// relative to that root. A nil reader stores nothing and returns "".
	Store(ctx context.Context, r io.Reader, originalName string) (string, error)
	// Remove deletes a file previously returned by Store.
	Remove(ctx context.Context, rel string) error
}

// LocalImageStore 本地磁盘实现，文件由外部静态服务提供访问
type LocalImageStore struct {
	Root string
	now  func() time.Time
}

// NewLocalImageStore 创建上传目录（如不存在）
func NewLocalImageStore(root string) (*LocalImageStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("创建上传目录失败: %w", err)
	}
	return &LocalImageStore{Root: root, now: time.Now}, nil
}

// Store 不做内容校验，任意字节原样保存
func (s *LocalImageStore) Store(ctx context.Context, r io.Reader, originalName string) (string, error) {
	if r == nil {
		return "", nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := s.fileName(originalName)
	path := filepath.Join(s.Root, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("创建文件失败: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("写入文件失败: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("写入文件失败: %w", err)
	}
	return name, nil
}

func (s *LocalImageStore) Remove(ctx context.Context, rel string) error {
	path, err := ResolveImage(s.Root, rel)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// fileName: 毫秒时间戳 + 随机片段 + 原扩展名
func (s *LocalImageStore) fileName(originalName string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(originalName)))
	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%d-%s%s", s.now().UnixMilli(), token, ext)
}

// ErrImagePath 图片路径越出上传目录
var ErrImagePath = errors.New("image path escapes upload root")

// ResolveImage joins rel onto root and rejects anything that would land
// outside root.
func ResolveImage(root, rel string) (string, error) {
	if rel == "" || filepath.IsAbs(rel) {
		return "", ErrImagePath
	}
	full := filepath.Join(root, rel)
	r, err := filepath.Rel(root, full)
	if err != nil || r == "." || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return "", ErrImagePath
	}
	return full, nil
}
