package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snapptale/internal/model"
)

func TestFitImage(t *testing.T) {
	cases := []struct {
		name         string
		maxW, maxH   float64
		ratio        float64
		wantW, wantH float64
	}{
		{name: "wide image keeps full width", maxW: 180, maxH: 200, ratio: 0.5, wantW: 180, wantH: 90},
		{name: "tall image shrinks to height", maxW: 180, maxH: 100, ratio: 4, wantW: 25, wantH: 100},
		{name: "no height limit", maxW: 180, maxH: 0, ratio: 2, wantW: 180, wantH: 360},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, h := fitImage(tc.maxW, tc.maxH, tc.ratio)
			assert.InDelta(t, tc.wantW, w, 1e-9)
			assert.InDelta(t, tc.wantH, h, 1e-9)
		})
	}
}

func newTestDocument(t *testing.T) (*fpdfDocument, float64) {
	t.Helper()
	opts := DefaultOptions()
	doc, ok := newFPDFDocument(opts).(*fpdfDocument)
	require.True(t, ok)
	_, pageH := doc.pdf.GetPageSize()
	return doc, pageH - opts.Margin
}

func tallImage(t *testing.T) *chapterImage {
	t.Helper()
	img, err := decodeChapterImage(model.StoryChapter{ImageData: pngBase64(t, 10, 40)})
	require.NoError(t, err)
	return img
}

// imageBottom 是图片下沿：Image 之后光标位于下沿再加 imageGap
func imageBottom(doc *fpdfDocument) float64 {
	return doc.pdf.GetY() - imageGap
}

func TestImage_StaysOnPageUnderShortTitle(t *testing.T) {
	doc, bottom := newTestDocument(t)
	doc.AddPage()
	doc.Title("Chapter 1: The Mountain")

	require.NoError(t, doc.Image("chapter-1", tallImage(t)))
	assert.Equal(t, 1, doc.pdf.PageNo())
	assert.LessOrEqual(t, imageBottom(doc), bottom-minTextRoom+1e-6)
}

func TestImage_MovesToNextPageWhenNoRoomLeft(t *testing.T) {
	doc, bottom := newTestDocument(t)
	doc.AddPage()
	// 模拟标题写到了页面底部
	doc.pdf.SetY(bottom - 5)

	require.NoError(t, doc.Image("chapter-1", tallImage(t)))
	assert.Equal(t, 2, doc.pdf.PageNo())
	assert.LessOrEqual(t, imageBottom(doc), bottom-minTextRoom+1e-6)
	assert.NoError(t, doc.pdf.Error())
}

func TestImage_LongTitleNeverPushesImagePastMargin(t *testing.T) {
	for _, n := range []int{400, 1700, 3000} {
		doc, bottom := newTestDocument(t)
		doc.AddPage()
		doc.Title("Chapter 1: " + strings.Repeat("very long title ", n/16))

		require.NoError(t, doc.Image("chapter-1", tallImage(t)), "title length %d", n)
		assert.LessOrEqual(t, imageBottom(doc), bottom+1e-6, "title length %d", n)
		assert.NoError(t, doc.pdf.Error())
	}
}
