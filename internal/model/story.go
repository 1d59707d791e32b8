package model

import (
	"strings"
)

// StoryChapter 是故事中的一章。Chapter 从 1 开始，在同一个故事内唯一
type StoryChapter struct {
	Chapter                 int    `json:"chapter"`
	Title                   string `json:"title"`
	Text                    string `json:"text"`
	ImageData               string `json:"imageData,omitempty"`
	MimeType                string `json:"mimeType,omitempty"`
	IllustrationDescription string `json:"illustration_description,omitempty"`
}

// HasImage 图片数据与类型都存在时才渲染插图
func (c StoryChapter) HasImage() bool {
	return c.ImageData != "" && (c.MimeType != "" || strings.HasPrefix(c.ImageData, "data:"))
}

// ImageSrc 返回可直接放进 <img src> 的 data URI
func (c StoryChapter) ImageSrc() string {
	if strings.HasPrefix(c.ImageData, "data:") {
		return c.ImageData
	}
	return "data:" + c.MimeType + ";base64," + c.ImageData
}

// Story 的切片顺序即章节顺序
type Story []StoryChapter

// Photo 是一次上传中的图片文件
type Photo struct {
	Filename string
	MIMEType string
	Data     []byte
}

func (p *Photo) IsImage() bool {
	return p != nil && strings.HasPrefix(p.MIMEType, "image/")
}
