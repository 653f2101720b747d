package runner

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"time"

	"github.com/disintegration/imaging"
	imagedom "github.com/shouni/gemini-image-kit/pkg/domain"
	"golang.org/x/time/rate"

	"github.com/shouni/go-news-comic/pkg/asset"
	"github.com/shouni/go-news-comic/pkg/config"
	"github.com/shouni/go-news-comic/pkg/domain"
	"github.com/shouni/go-news-comic/pkg/generator"
	"github.com/shouni/go-news-comic/pkg/prompts"
)

// PanelImageRunner は台本の各パネルを順番に画像化し、コミックのディレクトリへ保存します。
// 候補のバックエンドがすべて失敗したパネルはプレースホルダーで置き換えます。
type PanelImageRunner struct {
	cfg         config.Config
	prompt      prompts.ImagePrompt
	models      []generator.NamedModel
	placeholder *generator.PlaceholderModel
}

// NewPanelImageRunner は依存関係を注入して初期化します。models は試行順です。
func NewPanelImageRunner(
	cfg config.Config,
	prompt prompts.ImagePrompt,
	placeholder *generator.PlaceholderModel,
	models ...generator.NamedModel,
) *PanelImageRunner {
	if placeholder == nil {
		placeholder = generator.NewPlaceholderModel(nil)
	}
	return &PanelImageRunner{
		cfg:         cfg,
		prompt:      prompt,
		models:      models,
		placeholder: placeholder,
	}
}

// RenderPanels はパネルを1枚ずつ生成して panel_<n>.png に保存します。
// 画像生成の呼び出しの間には RateInterval だけ間隔を空けます。
func (r *PanelImageRunner) RenderPanels(ctx context.Context, script *domain.Script, descriptions domain.CharacterDescriptions, comicDir string) ([]domain.RenderedPanel, error) {
	if script == nil || len(script.Panels) == 0 {
		return nil, domain.NewError(domain.CodeImageRender, "描画するパネルがありません")
	}
	if err := os.MkdirAll(comicDir, 0o755); err != nil {
		return nil, domain.WrapError(domain.CodeImageRender, err, "出力ディレクトリの作成に失敗しました")
	}

	limiter := newLimiter(r.cfg.RateInterval)
	rendered := make([]domain.RenderedPanel, 0, len(script.Panels))
	for _, panel := range script.Panels {
		if err := limiter.Wait(ctx); err != nil {
			return nil, domain.WrapError(domain.CodeImageRender, err, "パネル %d の生成待機中に中断されました", panel.PanelNumber)
		}

		rp, err := r.renderPanel(ctx, panel, descriptions, comicDir)
		if err != nil {
			slog.ErrorContext(ctx, "パネルの生成に失敗したためスキップします", "panel", panel.PanelNumber, "error", err)
			continue
		}
		rendered = append(rendered, rp)
	}

	if len(rendered) == 0 {
		return nil, domain.NewError(domain.CodeImageRender, "すべてのパネルの生成に失敗しました")
	}
	slog.InfoContext(ctx, "パネルの生成が完了しました", "rendered", len(rendered), "requested", len(script.Panels))
	return rendered, nil
}

func (r *PanelImageRunner) renderPanel(ctx context.Context, panel domain.Panel, descriptions domain.CharacterDescriptions, comicDir string) (domain.RenderedPanel, error) {
	prompt, negative, seed := r.prompt.BuildPanel(panel, descriptions)
	req := imagedom.ImageGenerationRequest{
		Prompt:         prompt,
		NegativePrompt: negative,
		AspectRatio:    "1:1",
	}
	if seed != 0 {
		req.Seed = &seed
	}

	providers := make([]generator.Provider[image.Image], 0, len(r.models)+1)
	for _, m := range r.models {
		providers = append(providers, generator.Provider[image.Image]{
			Name: m.Name,
			Run: func(ctx context.Context) (image.Image, error) {
				resp, err := m.Model.GenerateMangaPanel(ctx, req)
				if err != nil {
					return nil, err
				}
				return generator.DecodeResponse(resp)
			},
		})
	}
	providers = append(providers, generator.Provider[image.Image]{
		Name: generator.PlaceholderName,
		Run: func(context.Context) (image.Image, error) {
			resp, err := r.placeholder.Generate(panel)
			if err != nil {
				return nil, err
			}
			return generator.DecodeResponse(resp)
		},
	})

	img, used, err := generator.TryInOrder(ctx, providers...)
	if err != nil {
		return domain.RenderedPanel{}, domain.WrapError(domain.CodeImageRender, err, "パネル %d の画像を生成できませんでした", panel.PanelNumber)
	}
	if used == generator.PlaceholderName && len(r.models) > 0 {
		slog.WarnContext(ctx, "画像生成に失敗したためプレースホルダーを使用します", "panel", panel.PanelNumber)
	}

	panelPath, err := asset.PanelPath(comicDir, panel.PanelNumber)
	if err != nil {
		return domain.RenderedPanel{}, domain.WrapError(domain.CodeImageRender, err, "パネル %d の出力パス生成に失敗しました", panel.PanelNumber)
	}
	if err := imaging.Save(img, panelPath); err != nil {
		return domain.RenderedPanel{}, domain.WrapError(domain.CodeImageRender, err, "パネル %d の保存に失敗しました (path: %s)", panel.PanelNumber, panelPath)
	}
	slog.InfoContext(ctx, "パネル画像を保存しました", "panel", panel.PanelNumber, "backend", used, "path", panelPath)

	return domain.RenderedPanel{
		PanelNumber: panel.PanelNumber,
		ImagePath:   panelPath,
		Dialogue:    panel.Dialogue,
		Scene:       panel.Scene,
		Placeholder: used == generator.PlaceholderName,
	}, nil
}

// newLimiter は最初の呼び出しを即座に通し、以降を interval ごとに通すリミッターを返します。
func newLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// String はログ用の候補一覧です。
func (r *PanelImageRunner) String() string {
	names := make([]string, 0, len(r.models)+1)
	for _, m := range r.models {
		names = append(names, m.Name)
	}
	return fmt.Sprint(append(names, generator.PlaceholderName))
}
