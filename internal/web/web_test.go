package web

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snapptale/internal/model"
)

const pixel = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="

func render(t *testing.T, name string, data any) string {
	t.Helper()
	tmpl, err := Templates()
	require.NoError(t, err)

	buf := new(bytes.Buffer)
	require.NoError(t, tmpl.ExecuteTemplate(buf, name, data))
	return buf.String()
}

func TestPreview_ChaptersInOrder(t *testing.T) {
	html := render(t, PreviewPage, PreviewView{
		Name: "Alex",
		Story: model.Story{
			{Chapter: 1, Title: "The Beginning", Text: "Once upon a time..."},
			{Chapter: 2, Title: "The Adventure", Text: "Our hero embarked on a journey."},
			{Chapter: 3, Text: "The end."},
		},
	})

	first := strings.Index(html, "Chapter 1: The Beginning")
	second := strings.Index(html, "Chapter 2: The Adventure")
	third := strings.Index(html, "<h2>Chapter 3</h2>")
	require.NotEqual(t, -1, first)
	assert.Greater(t, second, first)
	assert.Greater(t, third, second)
	assert.Contains(t, html, "Our hero embarked on a journey.")
	assert.NotContains(t, html, "<img src=")
}

func TestPreview_Image(t *testing.T) {
	t.Run("base64 with mime type", func(t *testing.T) {
		html := render(t, PreviewPage, PreviewView{Story: model.Story{
			{Chapter: 1, Text: "x", ImageData: pixel, MimeType: "image/png"},
		}})
		assert.Contains(t, html, `src="data:image/png;base64,`+pixel+`"`)
	})

	t.Run("data uri passes through", func(t *testing.T) {
		html := render(t, PreviewPage, PreviewView{Story: model.Story{
			{Chapter: 1, Text: "x", ImageData: "data:image/jpeg;base64,/9j/4AAQ"},
		}})
		assert.Contains(t, html, `src="data:image/jpeg;base64,/9j/4AAQ"`)
	})

	t.Run("missing mime type renders no image", func(t *testing.T) {
		html := render(t, PreviewPage, PreviewView{Story: model.Story{
			{Chapter: 1, Text: "x", ImageData: pixel},
		}})
		assert.NotContains(t, html, "<img src=")
	})
}

func TestPreview_ExportButton(t *testing.T) {
	story := model.Story{{Chapter: 1, Text: "x"}}

	idle := render(t, PreviewPage, PreviewView{Story: story})
	assert.Equal(t, 1, strings.Count(idle, `<button id="export"`))
	assert.Contains(t, idle, `type="submit">Download your Tale</button>`)

	busy := render(t, PreviewPage, PreviewView{Story: story, Exporting: true})
	assert.Contains(t, busy, `type="submit" disabled>Preparing PDF...</button>`)
}

func TestPreview_EscapesText(t *testing.T) {
	html := render(t, PreviewPage, PreviewView{Story: model.Story{
		{Chapter: 1, Title: "<b>bold</b>", Text: "<script>alert(1)</script>"},
	}})
	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.Contains(t, html, "&lt;b&gt;bold&lt;/b&gt;")
}

func TestUpload_ShowsError(t *testing.T) {
	html := render(t, UploadPage, UploadView{Name: "Alex", Error: "photo is required"})
	assert.Contains(t, html, "photo is required")
	assert.Contains(t, html, `value="Alex"`)
	assert.Contains(t, html, `enctype="multipart/form-data"`)
}

func TestHome_LinksToUpload(t *testing.T) {
	html := render(t, HomePage, nil)
	assert.Contains(t, html, `href="/upload"`)
}

func TestPreview_ExportErrorIsInline(t *testing.T) {
	story := model.Story{{Chapter: 1, Text: "x"}}

	idle := render(t, PreviewPage, PreviewView{Story: story})
	assert.Contains(t, idle, `<p id="export-error" class="error" role="alert" hidden></p>`)
	assert.NotContains(t, idle, "alert(")

	failed := render(t, PreviewPage, PreviewView{Story: story, Error: "Chapter 1 could not be added to the PDF."})
	assert.Contains(t, failed, `<p id="export-error" class="error" role="alert">Chapter 1 could not be added to the PDF.</p>`)
}
