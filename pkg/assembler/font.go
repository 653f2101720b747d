// Package assembler はパネル画像への吹き出し描画、枠線付け、コマ割り合成を行います。
package assembler

import (
	"log/slog"
	"sync"

	"github.com/flopp/go-findfont"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
)

// DefaultFontCandidates はホストから探すフォントファイル名の優先順です。
var DefaultFontCandidates = []string{
	"arialbd.ttf",
	"arial.ttf",
	"Arial Bold.ttf",
	"DejaVuSans-Bold.ttf",
	"LiberationSans-Bold.ttf",
}

// FontProvider はフォントフェイスを取得します。
// ホストのフォント、埋め込みの Go Bold、ビットマップフォントの順に試すため、
// 必ず何らかのフェイスを返します。
type FontProvider struct {
	candidates []string

	hostOnce sync.Once
	hostPath string

	embeddedOnce sync.Once
	embedded     *opentype.Font
	embeddedErr  error
}

// NewFontProvider は候補のフォントファイル名を受け取って FontProvider を生成します。
// 候補が空の場合はホストを探さず、埋め込みフォントから使います。
func NewFontProvider(candidates ...string) *FontProvider {
	return &FontProvider{candidates: candidates}
}

// Face は指定ポイント数のフェイスを返します。呼び出し側で Close してください。
func (p *FontProvider) Face(points float64) font.Face {
	if path := p.findHostFont(); path != "" {
		face, err := gg.LoadFontFace(path, points)
		if err == nil {
			return face
		}
		slog.Debug("ホストフォントの読み込みに失敗したため埋め込みフォントを使います", "path", path, "error", err)
	}

	if f := p.embeddedFont(); f != nil {
		face, err := opentype.NewFace(f, &opentype.FaceOptions{
			Size:    points,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err == nil {
			return face
		}
		slog.Debug("埋め込みフォントのフェイス生成に失敗しました", "error", err)
	}

	return basicfont.Face7x13
}

func (p *FontProvider) findHostFont() string {
	p.hostOnce.Do(func() {
		for _, name := range p.candidates {
			path, err := findfont.Find(name)
			if err == nil && path != "" {
				p.hostPath = path
				slog.Debug("ホストフォントを検出しました", "path", path)
				return
			}
		}
	})
	return p.hostPath
}

func (p *FontProvider) embeddedFont() *opentype.Font {
	p.embeddedOnce.Do(func() {
		p.embedded, p.embeddedErr = opentype.Parse(gobold.TTF)
		if p.embeddedErr != nil {
			slog.Warn("埋め込みフォントの解析に失敗しました", "error", p.embeddedErr)
		}
	})
	return p.embedded
}
