package layout

import "image"

// GridShape はコマ割りの列数と行数です。
type GridShape struct {
	Cols int
	Rows int
}

// Cells はグリッドのセル数です。
func (g GridShape) Cells() int {
	return g.Cols * g.Rows
}

// ChooseGrid はパネル数からコマ割りを決めます。判定順は次の通りです。
//
//  1. ちょうど4枚なら 2列×2行
//  2. 4枚以下なら 1列×N行
//  3. それ以外は 2列×ceil(N/2)行
//
// 少数パネル向けの固定ヒューリスティックで、7枚以上でも2列のまま縦に伸びます。
func ChooseGrid(n int) GridShape {
	switch {
	case n <= 0:
		return GridShape{}
	case n == 4:
		return GridShape{Cols: 2, Rows: 2}
	case n <= 4:
		return GridShape{Cols: 1, Rows: n}
	default:
		return GridShape{Cols: 2, Rows: (n + 1) / 2}
	}
}

// GridMetrics は最終画像のキャンバス寸法を決める固定値です。
type GridMetrics struct {
	PanelWidth  int
	PanelHeight int
	Border      int
	Padding     int
	TitleHeight int
}

// DefaultGridMetrics は 512px パネル、5px 枠線、10px 余白、80px タイトル帯です。
var DefaultGridMetrics = GridMetrics{
	PanelWidth:  512,
	PanelHeight: 512,
	Border:      5,
	Padding:     10,
	TitleHeight: 80,
}

// CellSize は枠線込みの1コマの寸法です。
func (m GridMetrics) CellSize() (width, height int) {
	return m.PanelWidth + 2*m.Border, m.PanelHeight + 2*m.Border
}

// TitleBand はタイトルの有無に応じたタイトル帯の高さです。
func (m GridMetrics) TitleBand(hasTitle bool) int {
	if hasTitle {
		return m.TitleHeight
	}
	return 0
}

// CanvasSize はグリッド全体のキャンバス寸法を返します。
func (m GridMetrics) CanvasSize(shape GridShape, hasTitle bool) (width, height int) {
	cw, ch := m.CellSize()
	width = shape.Cols*cw + (shape.Cols+1)*m.Padding
	height = shape.Rows*ch + (shape.Rows+1)*m.Padding + m.TitleBand(hasTitle)
	return width, height
}

// CellOrigin は行優先で idx 番目のセルの左上座標を返します。
func (m GridMetrics) CellOrigin(idx int, shape GridShape, hasTitle bool) image.Point {
	if shape.Cols <= 0 {
		return image.Point{}
	}
	cw, ch := m.CellSize()
	row := idx / shape.Cols
	col := idx % shape.Cols
	return image.Point{
		X: col*cw + (col+1)*m.Padding,
		Y: row*ch + (row+1)*m.Padding + m.TitleBand(hasTitle),
	}
}
