package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-gemini-client/pkg/gemini"
	"github.com/shouni/go-http-kit/httpkit"
	"google.golang.org/genai"

	"github.com/shouni/go-news-comic/pkg/assembler"
	"github.com/shouni/go-news-comic/pkg/config"
	"github.com/shouni/go-news-comic/pkg/generator"
	"github.com/shouni/go-news-comic/pkg/news"
	"github.com/shouni/go-news-comic/pkg/prompts"
	"github.com/shouni/go-news-comic/pkg/publisher"
	"github.com/shouni/go-news-comic/pkg/runner"
)

const defaultGeminiTemperature = float32(0.7)

// ManagerArgs は Manager の初期化に使う引数です。nil のフィールドは Config から既定の実装を構築します。
type ManagerArgs struct {
	Config config.Config

	// HTTPClient は NewsAPI・RSS・記事取得・画像生成で共有されます。nil なら Config.RequestTimeout で構築します。
	HTTPClient *httpkit.Client

	// NewsAPIKey と NewsAPIURL は News が nil のときに使われます。
	NewsAPIKey string
	NewsAPIURL string
	News       NewsSource

	TextGenerator runner.ContentGenerator
	// ImageModels は試行順の画像生成バックエンドです。nil なら Config.ImageBackend から選びます。
	ImageModels []generator.NamedModel

	ScriptPrompt prompts.ScriptPrompt
	ImagePrompt  prompts.ImagePrompt
	Writer       publisher.OutputWriter
	Fonts        *assembler.FontProvider
}

// Manager は、ワークフローの各工程を担う Runner 群を構築・管理します。
type Manager struct {
	cfg          config.Config
	httpClient   *httpkit.Client
	textGen      runner.ContentGenerator
	imageModels  []generator.NamedModel
	scriptPrompt prompts.ScriptPrompt
	imagePrompt  prompts.ImagePrompt
	writer       publisher.OutputWriter
	news         NewsSource
	fonts        *assembler.FontProvider
}

// New は設定を基に新しい Manager を初期化します。
// Gemini の APIキーが無い場合、台本生成を使う Runner の構築時にエラーになります。
func New(ctx context.Context, args ManagerArgs) (*Manager, error) {
	cfg := args.Config

	httpClient := args.HTTPClient
	if httpClient == nil {
		httpClient = httpkit.New(cfg.RequestTimeout, httpkit.WithMaxRetries(0))
	}

	// 台本生成と Gemini の画像生成は同じ AIクライアントを共有します。
	var aiClient gemini.GenerativeModel
	if cfg.GeminiAPIKey != "" {
		c, err := initializeAIClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			return nil, err
		}
		aiClient = c
	}

	textGen := args.TextGenerator
	if textGen == nil && aiClient != nil {
		textGen = &geminiTextGenerator{client: aiClient}
	}

	imageModels := args.ImageModels
	if imageModels == nil {
		models, err := buildImageModels(cfg, httpClient, aiClient)
		if err != nil {
			return nil, fmt.Errorf("画像生成エンジンの初期化に失敗しました: %w", err)
		}
		imageModels = models
	}

	sPrompt, err := initializeScriptPrompt(args.ScriptPrompt)
	if err != nil {
		return nil, err
	}

	iPrompt := args.ImagePrompt
	if iPrompt == nil {
		iPrompt = prompts.NewImagePromptBuilder(cfg.StyleSuffix)
	}

	newsSource := args.News
	if newsSource == nil {
		newsSource = news.NewService(
			news.NewNewsAPIClient(args.NewsAPIKey, args.NewsAPIURL, httpClient),
			news.NewRSSFetcher(nil, httpClient),
			news.NewExtractor(httpClient),
		)
	}

	writer := args.Writer
	if writer == nil {
		writer = publisher.NewLocalWriter()
	}

	fonts := args.Fonts
	if fonts == nil {
		fonts = assembler.NewFontProvider(assembler.DefaultFontCandidates...)
	}

	return &Manager{
		cfg:          cfg,
		httpClient:   httpClient,
		textGen:      textGen,
		imageModels:  imageModels,
		scriptPrompt: sPrompt,
		imagePrompt:  iPrompt,
		writer:       writer,
		news:         newsSource,
		fonts:        fonts,
	}, nil
}

// Config は Manager の設定を返します。
func (m *Manager) Config() config.Config {
	return m.cfg
}

// initializeAIClient は gemini クライアントを初期化します。
func initializeAIClient(ctx context.Context, apiKey string) (gemini.GenerativeModel, error) {
	clientConfig := gemini.Config{
		APIKey:      apiKey,
		Temperature: genai.Ptr(defaultGeminiTemperature),
	}
	aiClient, err := gemini.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}
	return aiClient, nil
}

// initializeScriptPrompt は ScriptPrompt ビルダーを初期化します。
// 引数として既存のビルダーが渡された場合はそれを返し、nil の場合は新規作成します。
func initializeScriptPrompt(scriptPrompt prompts.ScriptPrompt) (prompts.ScriptPrompt, error) {
	if scriptPrompt != nil {
		return scriptPrompt, nil
	}

	pb, err := prompts.NewTextPromptBuilder()
	if err != nil {
		return nil, fmt.Errorf("TextPromptBuilder の新規作成に失敗しました: %w", err)
	}

	return pb, nil
}

// buildImageModels は ImageBackend の設定から試行順のバックエンドを構築します。
// プレースホルダーは PanelImageRunner が常に末尾に連結するため、ここには含めません。
func buildImageModels(cfg config.Config, httpClient *httpkit.Client, aiClient gemini.GenerativeModel) ([]generator.NamedModel, error) {
	switch cfg.ImageBackend {
	case config.BackendPollinations, "":
		return []generator.NamedModel{{
			Name:  config.BackendPollinations,
			Model: generator.NewPollinationsModel(cfg.PollinationsURL, httpClient),
		}}, nil
	case config.BackendGemini:
		model, err := generator.NewGeminiImageModel(aiClient, httpClient, cfg.ImageModel)
		if err != nil {
			return nil, err
		}
		return []generator.NamedModel{{Name: config.BackendGemini, Model: model}}, nil
	case config.BackendPlaceholder:
		slog.Info("画像生成はプレースホルダーのみで行います")
		return []generator.NamedModel{}, nil
	default:
		return nil, fmt.Errorf("不明な画像生成バックエンドです: %q", cfg.ImageBackend)
	}
}

// geminiTextGenerator は gemini.GenerativeModel を ContentGenerator に適合させます。
type geminiTextGenerator struct {
	client gemini.GenerativeModel
}

func (g *geminiTextGenerator) Generate(ctx context.Context, prompt, model string) (string, error) {
	resp, err := g.client.GenerateContent(ctx, prompt, model)
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}
