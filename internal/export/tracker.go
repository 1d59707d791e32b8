package export

import (
	"context"
	"runtime"
	"sync"

	"snapptale/internal/model"
)

// Tracker 记录一次导出的状态：Idle -> Exporting -> Idle（成功）或 Idle+Error（失败）。
// 导出中再次调用 Run 返回 ErrExportInProgress，不排队也不取消。
type Tracker struct {
	exporter *Exporter

	mu        sync.Mutex
	exporting bool
	err       error
}

func NewTracker(exporter *Exporter) *Tracker {
	return &Tracker{exporter: exporter}
}

func (t *Tracker) IsExporting() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.exporting
}

// Err 返回上一次导出的错误
func (t *Tracker) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

func (t *Tracker) Run(ctx context.Context, story model.Story, name string) (*Document, error) {
	t.mu.Lock()
	if t.exporting {
		t.mu.Unlock()
		return nil, ErrExportInProgress
	}
	t.exporting = true
	t.err = nil
	t.mu.Unlock()

	// 让出一次调度，观察者可以先看到忙碌状态
	runtime.Gosched()

	doc, err := t.exporter.Export(ctx, story, name)

	t.mu.Lock()
	t.exporting = false
	t.err = err
	t.mu.Unlock()

	return doc, err
}
