package export

import (
	"bytes"
	"io"

	"github.com/go-pdf/fpdf"
)

// document 是排版用到的最小页面操作集合
type document interface {
	AddPage()
	Title(text string)
	Image(name string, img *chapterImage) error
	Body(text string)
	Output(w io.Writer) error
}

const (
	// pt 转 mm 后的行高系数
	lineHeightFactor = 0.5
	titleGap         = 6.0
	imageGap         = 6.0
	minTextRoom      = 30.0
	minImageHeight   = 40.0
)

type fpdfDocument struct {
	pdf  *fpdf.Fpdf
	opts Options
	tr   func(string) string
}

func newFPDFDocument(opts Options) document {
	pdf := fpdf.New("P", "mm", opts.PageSize, "")
	pdf.SetMargins(opts.Margin, opts.Margin, opts.Margin)
	pdf.SetAutoPageBreak(true, opts.Margin)
	pdf.SetCreator("Snapptale", true)
	pdf.SetTitle("Snapptale", true)

	return &fpdfDocument{
		pdf:  pdf,
		opts: opts,
		// 核心字体只支持 cp1252
		tr: pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

func (d *fpdfDocument) contentWidth() float64 {
	w, _ := d.pdf.GetPageSize()
	return w - 2*d.opts.Margin
}

func (d *fpdfDocument) AddPage() {
	d.pdf.AddPage()
}

// Title 写在固定的页眉位置
func (d *fpdfDocument) Title(text string) {
	d.pdf.SetXY(d.opts.Margin, d.opts.Margin)
	d.pdf.SetFont(d.opts.FontFamily, "B", d.opts.TitleFontSize)
	d.pdf.MultiCell(d.contentWidth(), d.opts.TitleFontSize*lineHeightFactor, d.tr(text), "", "C", false)
	d.pdf.SetY(d.pdf.GetY() + titleGap)
}

// Image 按内容宽度等比缩放；页面剩余高度不足时再缩小并居中
func (d *fpdfDocument) Image(name string, img *chapterImage) error {
	opts := fpdf.ImageOptions{ImageType: img.Type}
	d.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img.Data))
	if d.pdf.Err() {
		// fpdf 不支持的 PNG（隔行扫描、16 位等）退回栅格化
		d.pdf.ClearError()
		raster, err := rasterize(img.Data)
		if err != nil {
			return err
		}
		img = raster
		name += "-raster"
		opts = fpdf.ImageOptions{ImageType: img.Type}
		d.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img.Data))
		if err := d.pdf.Error(); err != nil {
			return err
		}
	}

	cw := d.contentWidth()
	_, pageH := d.pdf.GetPageSize()
	bottom := pageH - d.opts.Margin

	// 标题几乎占满页面时图片换到下一页，不画出下边距
	y := d.pdf.GetY()
	if bottom-y-minTextRoom < minImageHeight {
		d.pdf.AddPage()
		y = d.pdf.GetY()
	}

	w, h := fitImage(cw, bottom-y-minTextRoom, img.ratio())
	x := d.opts.Margin + (cw-w)/2

	d.pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
	d.pdf.SetY(y + h + imageGap)
	return d.pdf.Error()
}

// fitImage 按宽度 maxW 等比缩放，高度超过 maxH 时再按高度缩小
func fitImage(maxW, maxH, ratio float64) (w, h float64) {
	w = maxW
	h = w * ratio
	if maxH > 0 && h > maxH {
		h = maxH
		w = h / ratio
	}
	return w, h
}

func (d *fpdfDocument) Body(text string) {
	d.pdf.SetX(d.opts.Margin)
	d.pdf.SetFont(d.opts.FontFamily, "", d.opts.BodyFontSize)
	d.pdf.MultiCell(d.contentWidth(), d.opts.BodyFontSize*lineHeightFactor, d.tr(text), "", "L", false)
}

func (d *fpdfDocument) Output(w io.Writer) error {
	return d.pdf.Output(w)
}
