package export

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"strings"

	"snapptale/internal/model"
)

const rasterQuality = 90

var ErrBadImage = errors.New("invalid chapter image")

// chapterImage 是可以直接嵌入 PDF 的图片
type chapterImage struct {
	Data   []byte
	Type   string // fpdf 的 ImageType: PNG 或 JPG
	Width  int
	Height int
}

func (img *chapterImage) ratio() float64 {
	return float64(img.Height) / float64(img.Width)
}

// decodeChapterImage 解析 base64 或 data URI。PNG/JPEG 原样嵌入，其它格式先栅格化成 JPEG
func decodeChapterImage(ch model.StoryChapter) (*chapterImage, error) {
	raw := ch.ImageData
	if strings.HasPrefix(raw, "data:") {
		comma := strings.IndexByte(raw, ',')
		if comma < 0 || !strings.Contains(raw[:comma], ";base64") {
			return nil, fmt.Errorf("%w: unsupported data URI", ErrBadImage)
		}
		raw = raw[comma+1:]
	}

	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		if data, err = base64.RawStdEncoding.DecodeString(raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadImage, err)
		}
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadImage, err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrBadImage)
	}

	switch format {
	case "png":
		return &chapterImage{Data: data, Type: "PNG", Width: cfg.Width, Height: cfg.Height}, nil
	case "jpeg":
		return &chapterImage{Data: data, Type: "JPG", Width: cfg.Width, Height: cfg.Height}, nil
	default:
		return rasterize(data)
	}
}

// rasterize 解码后铺在白底上重新编码为 JPEG，透明区域变为白色
func rasterize(data []byte) (*chapterImage, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadImage, err)
	}

	bounds := src.Bounds()
	canvas := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.Draw(canvas, canvas.Bounds(), src, bounds.Min, draw.Over)

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, canvas, &jpeg.Options{Quality: rasterQuality}); err != nil {
		return nil, err
	}
	return &chapterImage{Data: buf.Bytes(), Type: "JPG", Width: bounds.Dx(), Height: bounds.Dy()}, nil
}
