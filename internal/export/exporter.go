// Package export 把故事排版成 PDF：每章一页，标题、插图、正文依次排列。
package export

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"unicode"

	"snapptale/internal/config"
	"snapptale/internal/model"
	"snapptale/pkg/logger"
)

const (
	filenamePrefix  = "snapptale-"
	defaultBaseName = "story"
)

type Options struct {
	PageSize      string
	Margin        float64
	FontFamily    string
	TitleFontSize float64
	BodyFontSize  float64
}

func DefaultOptions() Options {
	return Options{
		PageSize:      "A4",
		Margin:        15,
		FontFamily:    "Helvetica",
		TitleFontSize: 18,
		BodyFontSize:  12,
	}
}

// OptionsFromConfig 未设置的字段使用默认值
func OptionsFromConfig(cfg config.ExportConfig) Options {
	opts := DefaultOptions()
	if cfg.PageSize != "" {
		opts.PageSize = cfg.PageSize
	}
	if cfg.Margin > 0 {
		opts.Margin = cfg.Margin
	}
	if cfg.FontFamily != "" {
		opts.FontFamily = cfg.FontFamily
	}
	if cfg.TitleFontSize > 0 {
		opts.TitleFontSize = cfg.TitleFontSize
	}
	if cfg.BodyFontSize > 0 {
		opts.BodyFontSize = cfg.BodyFontSize
	}
	return opts
}

// Document 是导出结果
type Document struct {
	Filename string
	Data     []byte
	Chapters int
}

type Exporter struct {
	opts   Options
	newDoc func(Options) document
}

func NewExporter(opts Options) *Exporter {
	return &Exporter{opts: opts, newDoc: newFPDFDocument}
}

// Export 按章节顺序排版。空故事不创建任何页面；任一章失败即中止，返回 *ExportError
func (e *Exporter) Export(ctx context.Context, story model.Story, name string) (*Document, error) {
	if len(story) == 0 {
		return nil, ErrEmptyStory
	}

	doc := e.newDoc(e.opts)
	doc.AddPage()

	for i, ch := range story {
		if err := ctx.Err(); err != nil {
			return nil, &ExportError{Chapter: ch.Chapter, Err: err}
		}
		if i > 0 {
			doc.AddPage()
		}

		doc.Title(chapterHeading(ch))

		if ch.ImageData != "" {
			img, err := decodeChapterImage(ch)
			if err != nil {
				return nil, &ExportError{Chapter: ch.Chapter, Err: err}
			}
			if err := doc.Image(fmt.Sprintf("chapter-%d", i+1), img); err != nil {
				return nil, &ExportError{Chapter: ch.Chapter, Err: err}
			}
		}

		doc.Body(ch.Text)
	}

	buf := new(bytes.Buffer)
	if err := doc.Output(buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}

	filename := Filename(name)
	logger.Debugf("exported %s: %d chapters, %d bytes", filename, len(story), buf.Len())
	return &Document{Filename: filename, Data: buf.Bytes(), Chapters: len(story)}, nil
}

func chapterHeading(ch model.StoryChapter) string {
	if strings.TrimSpace(ch.Title) == "" {
		return fmt.Sprintf("Chapter %d", ch.Chapter)
	}
	return fmt.Sprintf("Chapter %d: %s", ch.Chapter, ch.Title)
}

// Filename 返回 snapptale-{name}.pdf，name 为空时用 story。路径分隔符、引号与控制字符替换为 _
func Filename(name string) string {
	base := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r == '"' || r == ':':
			return '_'
		case unicode.IsControl(r):
			return '_'
		}
		return r
	}, strings.TrimSpace(name))

	if base == "" {
		base = defaultBaseName
	}
	return filenamePrefix + base + ".pdf"
}
