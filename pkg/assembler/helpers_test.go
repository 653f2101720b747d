package assembler

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
)

var (
	red    = color.NRGBA{R: 220, G: 20, B: 20, A: 255}
	green  = color.NRGBA{R: 20, G: 200, B: 20, A: 255}
	blue   = color.NRGBA{R: 20, G: 20, B: 220, A: 255}
	yellow = color.NRGBA{R: 230, G: 220, B: 30, A: 255}
)

// writeSolidPNG は単色の PNG を dir に書き出してパスを返します。
func writeSolidPNG(t *testing.T, dir, name string, c color.Color, w, h int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := imaging.Save(imaging.New(w, h, c), path); err != nil {
		t.Fatalf("テスト画像の保存に失敗したのだ: %v", err)
	}
	return path
}

// assertColor は (x, y) の色が want に近いことを確認します。
func assertColor(t *testing.T, img image.Image, x, y int, want color.NRGBA) {
	t.Helper()
	got := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
	if !near(got.R, want.R) || !near(got.G, want.G) || !near(got.B, want.B) {
		t.Errorf("(%d,%d): 期待値 %v, 実際の値 %v", x, y, want, got)
	}
}

func near(a, b uint8) bool {
	d := int(a) - int(b)
	if d < 0 {
		d = -d
	}
	return d <= 3
}

// testFonts はホストを探さず埋め込みフォントを使う FontProvider です。
func testFonts() *FontProvider {
	return NewFontProvider()
}

func blackNRGBA() color.NRGBA {
	return color.NRGBA{A: 255}
}

func whiteNRGBA() color.NRGBA {
	return color.NRGBA{R: 255, G: 255, B: 255, A: 255}
}
