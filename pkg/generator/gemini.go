package generator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	imagedom "github.com/shouni/gemini-image-kit/pkg/domain"
	imagekit "github.com/shouni/gemini-image-kit/pkg/generator"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"github.com/shouni/go-http-kit/httpkit"
)

const (
	defaultCacheExpiration = 5 * time.Minute
	cacheCleanupInterval   = 15 * time.Minute
	defaultTTL             = 5 * time.Minute
)

// GeminiImageModel は gemini-image-kit の生成エンジンで画像を生成します。
type GeminiImageModel struct {
	gen   ImageModel
	model string
}

// NewGeminiImageModel は共有の AIクライアントと HTTP クライアントから画像生成エンジンを組み立てます。
// 参照画像は使わないため、リモート入力の Reader は渡しません。
func NewGeminiImageModel(aiClient gemini.GenerativeModel, httpClient *httpkit.Client, model string) (*GeminiImageModel, error) {
	if aiClient == nil {
		return nil, fmt.Errorf("Gemini の APIキーは必須です")
	}

	imgCache := cache.New(defaultCacheExpiration, cacheCleanupInterval)
	core, err := imagekit.NewGeminiImageCore(
		aiClient,
		nil,
		httpClient,
		imgCache,
		defaultTTL,
	)
	if err != nil {
		return nil, fmt.Errorf("GeminiImageCore の初期化に失敗しました: %w", err)
	}

	gen, err := imagekit.NewGeminiGenerator(model, core)
	if err != nil {
		return nil, fmt.Errorf("ImageGenerator の初期化に失敗しました: %w", err)
	}
	return newGeminiImageModel(gen, model), nil
}

func newGeminiImageModel(gen ImageModel, model string) *GeminiImageModel {
	return &GeminiImageModel{gen: gen, model: model}
}

// GenerateMangaPanel は生成エンジンに1コマ分の画像を依頼します。
func (m *GeminiImageModel) GenerateMangaPanel(ctx context.Context, req imagedom.ImageGenerationRequest) (*imagedom.ImageResponse, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, fmt.Errorf("プロンプトが空です")
	}

	resp, err := m.gen.GenerateMangaPanel(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("Gemini 画像生成に失敗しました (model: %s): %w", m.model, err)
	}
	if resp == nil || len(resp.Data) == 0 {
		return nil, fmt.Errorf("Gemini の応答に画像が含まれていません (model: %s)", m.model)
	}
	if resp.UsedSeed == 0 && req.Seed != nil {
		resp.UsedSeed = *req.Seed
	}
	return resp, nil
}
