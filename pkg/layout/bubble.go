package layout

import "image"

// Position は吹き出しを置く縦方向の位置です。
type Position int

const (
	// Bottom はパネル下端に置き、しっぽは下向きです。
	Bottom Position = iota
	// Top はパネル上端に置き、しっぽは上向きです。
	Top
)

func (p Position) String() string {
	if p == Top {
		return "top"
	}
	return "bottom"
}

// ParsePosition は "top" / "bottom" を Position に変換します。それ以外は Bottom です。
func ParsePosition(s string) Position {
	if s == "top" {
		return Top
	}
	return Bottom
}

// BubbleMetrics は吹き出しの寸法を決める固定値です。
type BubbleMetrics struct {
	LineHeight   int // 1行の高さ
	Padding      int // 楕円の内側の上下余白
	Margin       int // 画像の左右・上下端からの距離
	ShadowOffset int
	TailWidth    int // しっぽの付け根の幅
	TailHeight   int
	TailInset    int // 吹き出し左端からしっぽ先端までの距離
}

// DefaultBubbleMetrics は 512px 四方のパネル向けの既定値です。
var DefaultBubbleMetrics = BubbleMetrics{
	LineHeight:   35,
	Padding:      25,
	Margin:       40,
	ShadowOffset: 5,
	TailWidth:    40,
	TailHeight:   20,
	TailInset:    40,
}

// BubbleHeight は行数から吹き出しの高さを求めます。
// 高さ = 行数 × 行の高さ + 2 × 余白。0行でも余白分の高さを持ちます。
func BubbleHeight(lineCount, lineHeight, padding int) int {
	if lineCount < 0 {
		lineCount = 0
	}
	return lineCount*lineHeight + 2*padding
}

// MeasureBubble は画像幅と行数から吹き出しの幅と高さを返します。
// 幅は画像幅から左右のマージンを引いた値です。
func (m BubbleMetrics) MeasureBubble(imageWidth, lineCount int) (width, height int) {
	width = imageWidth - 2*m.Margin
	if width < 0 {
		width = 0
	}
	return width, BubbleHeight(lineCount, m.LineHeight, m.Padding)
}

// BubbleRect は画像サイズと行数から吹き出し楕円の外接矩形を返します。
func (m BubbleMetrics) BubbleRect(imageWidth, imageHeight, lineCount int, pos Position) image.Rectangle {
	w, h := m.MeasureBubble(imageWidth, lineCount)

	x := m.Margin
	y := m.Margin
	if pos == Bottom {
		y = imageHeight - h - m.Margin
	}
	return image.Rect(x, y, x+w, y+h)
}

// Tail は吹き出しのしっぽの三角形の頂点を返します。
// 下配置では矩形の下辺から下向き、上配置では上辺から上向きに伸びます。
func (m BubbleMetrics) Tail(rect image.Rectangle, pos Position) [3]image.Point {
	baseLeft := rect.Min.X + m.TailInset
	baseRight := baseLeft + m.TailWidth
	baseMid := baseLeft + m.TailWidth/2
	tip := rect.Min.X + m.TailInset

	if pos == Bottom {
		return [3]image.Point{
			{X: baseMid, Y: rect.Max.Y},
			{X: tip, Y: rect.Max.Y + m.TailHeight},
			{X: baseRight, Y: rect.Max.Y},
		}
	}
	return [3]image.Point{
		{X: baseMid, Y: rect.Min.Y},
		{X: tip, Y: rect.Min.Y - m.TailHeight},
		{X: baseRight, Y: rect.Min.Y},
	}
}

// TextTop は n 行目 (0 始まり) の文字列の上端の Y 座標を返します。
func (m BubbleMetrics) TextTop(rect image.Rectangle, line int) int {
	return rect.Min.Y + m.Padding + line*m.LineHeight
}
