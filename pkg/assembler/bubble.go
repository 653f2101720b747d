package assembler

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/shouni/go-news-comic/pkg/domain"
	"github.com/shouni/go-news-comic/pkg/layout"
)

const (
	defaultBubbleFontSize     = 24
	defaultBubbleOutlineWidth = 4
	defaultTailOutlineWidth   = 1.5
	shadowColor               = "#CCCCCC"
)

// BubbleRenderer はパネル画像に吹き出しを1つ描画します。
type BubbleRenderer struct {
	fonts    *FontProvider
	metrics  layout.BubbleMetrics
	columns  int
	fontSize float64
}

// NewBubbleRenderer は既定の寸法で BubbleRenderer を生成します。
func NewBubbleRenderer(fonts *FontProvider) *BubbleRenderer {
	if fonts == nil {
		fonts = NewFontProvider(DefaultFontCandidates...)
	}
	return &BubbleRenderer{
		fonts:    fonts,
		metrics:  layout.DefaultBubbleMetrics,
		columns:  layout.DefaultWrapColumns,
		fontSize: defaultBubbleFontSize,
	}
}

// Draw は img に吹き出しを描き込みます。img は原点 (0,0) の画像を前提とします。
// text が空 (空白のみを含む) の場合は何も描画しません。
func (r *BubbleRenderer) Draw(img *image.RGBA, text string, pos layout.Position) error {
	if img == nil {
		return domain.NewError(domain.CodeInvalidImage, "吹き出しの描画先画像が nil です")
	}

	lines := layout.Wrap(text, r.columns)
	if len(lines) == 0 {
		return nil
	}

	b := img.Bounds()
	rect := r.metrics.BubbleRect(b.Dx(), b.Dy(), len(lines), pos)
	cx := float64(rect.Min.X) + float64(rect.Dx())/2
	cy := float64(rect.Min.Y) + float64(rect.Dy())/2
	rx := float64(rect.Dx()) / 2
	ry := float64(rect.Dy()) / 2
	off := float64(r.metrics.ShadowOffset)

	dc := gg.NewContextForRGBA(img)

	// 影
	dc.DrawEllipse(cx+off, cy+off, rx, ry)
	dc.SetHexColor(shadowColor)
	dc.Fill()

	dc.DrawEllipse(cx, cy, rx, ry)
	dc.SetColor(color.White)
	dc.FillPreserve()
	dc.SetColor(color.Black)
	dc.SetLineWidth(defaultBubbleOutlineWidth)
	dc.Stroke()

	tail := r.metrics.Tail(rect, pos)
	dc.MoveTo(float64(tail[0].X), float64(tail[0].Y))
	dc.LineTo(float64(tail[1].X), float64(tail[1].Y))
	dc.LineTo(float64(tail[2].X), float64(tail[2].Y))
	dc.ClosePath()
	dc.SetColor(color.White)
	dc.FillPreserve()
	dc.SetColor(color.Black)
	dc.SetLineWidth(defaultTailOutlineWidth)
	dc.Stroke()

	face := r.fonts.Face(r.fontSize)
	defer face.Close()
	dc.SetFontFace(face)
	dc.SetColor(color.Black)
	for i, line := range lines {
		top := float64(r.metrics.TextTop(rect, i))
		dc.DrawStringAnchored(line, cx, top, 0.5, 1)
	}

	return nil
}
