package assembler

import (
	"image"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/shouni/go-news-comic/pkg/domain"
	"github.com/shouni/go-news-comic/pkg/layout"
)

const (
	defaultTitleFontSize = 36
	defaultTitleTop      = 20
)

// GridAssembler はパネル群をコマ割りに並べ、タイトル帯を付けて1枚の画像にします。
type GridAssembler struct {
	composer  *PanelComposer
	fonts     *FontProvider
	metrics   layout.GridMetrics
	titleSize float64
	titleTop  int
}

// NewGridAssembler は GridAssembler を生成します。
func NewGridAssembler(composer *PanelComposer, fonts *FontProvider) *GridAssembler {
	if fonts == nil {
		fonts = NewFontProvider(DefaultFontCandidates...)
	}
	if composer == nil {
		composer = NewPanelComposer(NewBubbleRenderer(fonts))
	}
	return &GridAssembler{
		composer:  composer,
		fonts:     fonts,
		metrics:   layout.DefaultGridMetrics,
		titleSize: defaultTitleFontSize,
		titleTop:  defaultTitleTop,
	}
}

// New は既定のフォント探索で吹き出し、パネル、グリッドの一式を組み立てます。
func New() *GridAssembler {
	fonts := NewFontProvider(DefaultFontCandidates...)
	return NewGridAssembler(NewPanelComposer(NewBubbleRenderer(fonts)), fonts)
}

// Render はパネルを panel_number 順に合成したキャンバスを返します。
// 読み込めないパネルは飛ばし、1枚も合成できなければ assembly エラーを返します。
func (a *GridAssembler) Render(panels []domain.RenderedPanel, title string) (image.Image, error) {
	canvas, _, err := a.render(panels, title)
	return canvas, err
}

// render は Render の本体で、実際に合成できたパネル数も返します。
func (a *GridAssembler) render(panels []domain.RenderedPanel, title string) (image.Image, int, error) {
	composed := make([]image.Image, 0, len(panels))
	for _, p := range domain.SortRenderedPanels(panels) {
		img, err := a.composer.Compose(p.ImagePath, p.Dialogue)
		if err != nil {
			slog.Warn("パネルの合成をスキップします", "panel", p.PanelNumber, "error", err)
			continue
		}
		composed = append(composed, img)
	}

	if len(composed) == 0 {
		return nil, 0, domain.NewError(domain.CodeAssembly, "合成できたパネルがありません (入力 %d 枚)", len(panels))
	}

	hasTitle := title != ""
	shape := layout.ChooseGrid(len(composed))
	width, height := a.metrics.CanvasSize(shape, hasTitle)

	canvas := imaging.New(width, height, color.White)
	for i, img := range composed {
		canvas = imaging.Paste(canvas, img, a.metrics.CellOrigin(i, shape, hasTitle))
	}

	if !hasTitle {
		return canvas, len(composed), nil
	}

	dc := gg.NewContextForImage(canvas)
	face := a.fonts.Face(a.titleSize)
	defer face.Close()
	dc.SetFontFace(face)
	dc.SetColor(color.Black)
	dc.DrawStringAnchored(title, float64(width)/2, float64(a.titleTop), 0.5, 1)

	return dc.Image(), len(composed), nil
}

// Assemble は合成した画像を outputPath に保存し、そのパスを返します。
// 失敗した場合はファイルを書き出しません。
func (a *GridAssembler) Assemble(panels []domain.RenderedPanel, outputPath, title string) (string, error) {
	canvas, composed, err := a.render(panels, title)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return "", domain.WrapError(domain.CodeAssembly, err, "出力ディレクトリを作成できませんでした")
	}
	if err := imaging.Save(canvas, outputPath); err != nil {
		return "", domain.WrapError(domain.CodeAssembly, err, "コミック画像の保存に失敗しました: %s", outputPath)
	}

	slog.Info("コミック画像を保存しました", "path", outputPath, "panels", composed, "skipped", len(panels)-composed)
	return outputPath, nil
}
