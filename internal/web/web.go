// Package web 提供页面模板：首页、上传表单与故事预览。
package web

import (
	"embed"
	"encoding/json"
	"html/template"
	"strconv"
	"strings"

	"snapptale/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// 模板名
const (
	HomePage    = "home.html"
	UploadPage  = "upload.html"
	PreviewPage = "preview.html"
)

// UploadView 是上传页的数据
type UploadView struct {
	Name  string
	Error string
}

// PreviewView 是故事预览页的数据
type PreviewView struct {
	Name      string
	Story     model.Story
	Exporting bool
	Error     string
}

// Templates 解析内嵌模板
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}

var funcs = template.FuncMap{
	"heading":  heading,
	"imageSrc": imageSrc,
	"toJSON":   toJSON,
}

func heading(ch model.StoryChapter) string {
	if strings.TrimSpace(ch.Title) == "" {
		return "Chapter " + strconv.Itoa(ch.Chapter)
	}
	return "Chapter " + strconv.Itoa(ch.Chapter) + ": " + ch.Title
}

// imageSrc 只放行图片 data URI，其它内容由 html/template 按普通 URL 过滤
func imageSrc(ch model.StoryChapter) template.URL {
	src := ch.ImageSrc()
	if strings.HasPrefix(src, "data:image/") {
		return template.URL(src)
	}
	return ""
}

func toJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
