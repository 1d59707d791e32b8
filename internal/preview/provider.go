// Package preview 管理上传图片的临时预览句柄。
//
// 每个客户端持有一个 Provider：选择新图片时先撤销旧句柄再创建新句柄，
// 清空或关闭时撤销当前句柄，句柄不会在切换之间泄漏。
package preview

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"snapptale/internal/model"
	"snapptale/internal/storage"
)

var ErrClosed = errors.New("preview provider closed")

type Provider struct {
	store  storage.PreviewStore
	newRef func() string

	mu      sync.Mutex
	current string
	closed  bool
}

func NewProvider(store storage.PreviewStore) *Provider {
	return &Provider{store: store, newRef: uuid.NewString}
}

// Set 用 photo 替换当前预览；photo 为 nil 表示清空。返回新句柄（清空时为空串）
func (p *Provider) Set(photo *model.Photo) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return "", ErrClosed
	}

	if err := p.revokeLocked(); err != nil {
		return "", err
	}
	if photo == nil {
		return "", nil
	}

	ref := p.newRef()
	if err := p.store.Put(ref, photo); err != nil {
		return "", err
	}
	p.current = ref
	return ref, nil
}

func (p *Provider) Current() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Close 撤销当前句柄，之后的 Set 返回 ErrClosed
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	return p.revokeLocked()
}

func (p *Provider) revokeLocked() error {
	if p.current == "" {
		return nil
	}
	ref := p.current
	p.current = ""
	if err := p.store.Delete(ref); err != nil && !errors.Is(err, storage.ErrPreviewNotFound) {
		return err
	}
	return nil
}
