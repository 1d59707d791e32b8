package preview

import (
	"sync"
	"time"

	"snapptale/internal/model"
	"snapptale/internal/storage"
	"snapptale/pkg/logger"
)

type entry struct {
	provider *Provider
	lastUsed time.Time
}

// Registry 按客户端 id 保存 Provider，并定期回收闲置超过 ttl 的 Provider
type Registry struct {
	store storage.PreviewStore
	ttl   time.Duration
	now   func() time.Time

	mu        sync.Mutex
	providers map[string]*entry

	started  bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func NewRegistry(store storage.PreviewStore, ttl time.Duration) *Registry {
	return &Registry{
		store:     store,
		ttl:       ttl,
		now:       time.Now,
		providers: make(map[string]*entry),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Provider 返回 clientID 的 Provider，不存在时创建
func (r *Registry) Provider(clientID string) *Provider {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.providers[clientID]
	if !ok {
		e = &entry{provider: NewProvider(r.store)}
		r.providers[clientID] = e
	}
	e.lastUsed = r.now()
	return e.provider
}

// Release 关闭并移除 clientID 的 Provider
func (r *Registry) Release(clientID string) error {
	r.mu.Lock()
	e, ok := r.providers[clientID]
	delete(r.providers, clientID)
	r.mu.Unlock()

	if !ok {
		return nil
	}
	return e.provider.Close()
}

// Lookup 只返回 clientID 自己当前的预览；其它客户端的句柄视为不存在
func (r *Registry) Lookup(clientID, ref string) (*model.Photo, error) {
	r.mu.Lock()
	e, ok := r.providers[clientID]
	if ok {
		e.lastUsed = r.now()
	}
	r.mu.Unlock()

	if !ok || ref == "" || e.provider.Current() != ref {
		return nil, storage.ErrPreviewNotFound
	}
	return r.store.Get(ref)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.providers)
}

// Sweep 回收闲置的 Provider，返回回收数量
func (r *Registry) Sweep() int {
	if r.ttl <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	var idle []*Provider
	for id, e := range r.providers {
		if e.lastUsed.Before(cutoff) {
			idle = append(idle, e.provider)
			delete(r.providers, id)
		}
	}
	r.mu.Unlock()

	for _, p := range idle {
		if err := p.Close(); err != nil {
			logger.Warnf("close idle preview provider: %v", err)
		}
	}
	return len(idle)
}

// Start 启动后台清理，调用方负责 Stop
func (r *Registry) Start(interval time.Duration) {
	if interval <= 0 {
		return
	}
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return
	}
	r.started = true
	r.mu.Unlock()

	go func() {
		defer close(r.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := r.Sweep(); n > 0 {
					logger.Debugf("evicted %d idle preview providers", n)
				}
			case <-r.stop:
				return
			}
		}
	}()
}

// Stop 停止后台清理并撤销所有剩余句柄
func (r *Registry) Stop() {
	r.stopOnce.Do(func() {
		close(r.stop)

		r.mu.Lock()
		started := r.started
		r.mu.Unlock()
		if started {
			<-r.done
		}

		r.mu.Lock()
		providers := r.providers
		r.providers = make(map[string]*entry)
		r.mu.Unlock()

		for _, e := range providers {
			_ = e.provider.Close()
		}
	})
}
