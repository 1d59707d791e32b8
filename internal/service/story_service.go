package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"snapptale/internal/export"
	"snapptale/internal/model"
	"snapptale/pkg/logger"
)

// StoryGenerator 由 ai.StoryClient 实现
type StoryGenerator interface {
	GenerateStory(ctx context.Context, childName string, photo *model.Photo) (model.Story, error)
}

// StoryService 串起故事生成与 PDF 导出，HTTP 和命令行共用
type StoryService struct {
	generator StoryGenerator
	exporter  *export.Exporter

	mu       sync.Mutex
	trackers map[string]*export.Tracker
}

func NewStoryService(generator StoryGenerator, exporter *export.Exporter) *StoryService {
	return &StoryService{
		generator: generator,
		exporter:  exporter,
		trackers:  make(map[string]*export.Tracker),
	}
}

func (s *StoryService) GenerateStory(ctx context.Context, childName string, photo *model.Photo) (model.Story, error) {
	start := time.Now()
	fields := logger.Fields{"name": childName}
	if photo != nil {
		fields["photo"] = photo.Filename
		fields["size"] = len(photo.Data)
	}
	entry := logger.WithFields(fields)
	entry.Info("generating story")

	story, err := s.generator.GenerateStory(ctx, childName, photo)
	if err != nil {
		entry.WithError(err).Error("story generation failed")
		return nil, err
	}

	entry.WithFields(logger.Fields{
		"chapters": len(story),
		"duration": time.Since(start).String(),
	}).Info("story generated")
	return story, nil
}

// Export 为 clientID 导出故事。同一客户端的导出不能并发，第二次调用返回 export.ErrExportInProgress
func (s *StoryService) Export(ctx context.Context, clientID string, story model.Story, name string) (*export.Document, error) {
	tracker := s.tracker(clientID)
	defer s.releaseTracker(clientID, tracker)

	doc, err := tracker.Run(ctx, story, name)
	if err != nil {
		if !errors.Is(err, export.ErrExportInProgress) {
			logger.Warnf("export for %q failed: %v", name, err)
		}
		return nil, err
	}

	logger.Infof("exported %s (%d chapters, %d bytes)", doc.Filename, doc.Chapters, len(doc.Data))
	return doc, nil
}

// IsExporting 报告 clientID 是否有正在进行的导出
func (s *StoryService) IsExporting(clientID string) bool {
	s.mu.Lock()
	tracker, ok := s.trackers[clientID]
	s.mu.Unlock()
	return ok && tracker.IsExporting()
}

func (s *StoryService) tracker(clientID string) *export.Tracker {
	s.mu.Lock()
	defer s.mu.Unlock()

	tracker, ok := s.trackers[clientID]
	if !ok {
		tracker = export.NewTracker(s.exporter)
		s.trackers[clientID] = tracker
	}
	return tracker
}

// releaseTracker 只移除空闲的 tracker
func (s *StoryService) releaseTracker(clientID string, tracker *export.Tracker) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.trackers[clientID] == tracker && !tracker.IsExporting() {
		delete(s.trackers, clientID)
	}
}
