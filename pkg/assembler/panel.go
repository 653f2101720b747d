package assembler

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"github.com/shouni/go-news-comic/pkg/domain"
	"github.com/shouni/go-news-comic/pkg/layout"
)

// PanelComposer はパネル画像を固定サイズに引き伸ばし、吹き出しと枠線を付けます。
type PanelComposer struct {
	bubble   *BubbleRenderer
	metrics  layout.GridMetrics
	position layout.Position
}

// NewPanelComposer は吹き出しをパネル下部に置く PanelComposer を生成します。
func NewPanelComposer(bubble *BubbleRenderer) *PanelComposer {
	if bubble == nil {
		bubble = NewBubbleRenderer(nil)
	}
	return &PanelComposer{
		bubble:   bubble,
		metrics:  layout.DefaultGridMetrics,
		position: layout.Bottom,
	}
}

// WithPosition は吹き出しの配置を変更した複製を返します。
func (c *PanelComposer) WithPosition(pos layout.Position) *PanelComposer {
	cp := *c
	cp.position = pos
	return &cp
}

// Compose は imagePath の画像を読み込み、枠線付きのパネル画像を返します。
// 元のファイルは変更しません。読み込めない場合は image_load エラーを返します。
func (c *PanelComposer) Compose(imagePath, dialogue string) (image.Image, error) {
	src, err := imaging.Open(imagePath)
	if err != nil {
		return nil, domain.WrapError(domain.CodeImageLoad, err, "パネル画像を読み込めませんでした: %s", imagePath)
	}

	// アスペクト比は保持せずに引き伸ばすのだ
	resized := imaging.Resize(src, c.metrics.PanelWidth, c.metrics.PanelHeight, imaging.Lanczos)

	panel := image.NewRGBA(image.Rect(0, 0, c.metrics.PanelWidth, c.metrics.PanelHeight))
	draw.Draw(panel, panel.Bounds(), resized, resized.Bounds().Min, draw.Src)

	if dialogue != "" {
		if err := c.bubble.Draw(panel, dialogue, c.position); err != nil {
			return nil, err
		}
	}

	w, h := c.metrics.CellSize()
	bordered := imaging.New(w, h, color.Black)
	return imaging.Paste(bordered, panel, image.Pt(c.metrics.Border, c.metrics.Border)), nil
}
