package config

import (
	"time"

	"github.com/shouni/go-news-comic/pkg/prompts"
)

// デフォルト値の定義
const (
	DefaultGeminiModel      = "gemini-2.5-flash"
	DefaultImageModel       = "gemini-2.5-flash-image"
	DefaultImageBackend     = BackendPollinations
	DefaultPollinationsURL  = "https://image.pollinations.ai/prompt/"
	DefaultRateInterval     = 1 * time.Second
	DefaultRequestTimeout   = 60 * time.Second
	DefaultPanelCount       = 4
	DefaultMaxPanels        = 10
	DefaultArticleTextLimit = 2000
	DefaultComicsRoot       = "static/comics"
)

// 画像生成バックエンドの種類です。プレースホルダーは常に最後の手段として連結されます。
const (
	BackendPollinations = "pollinations"
	BackendGemini       = "gemini"
	BackendPlaceholder  = "placeholder"
)

// Config は News Comic の各 Runner を動作させるための基本設定です。
type Config struct {
	// --- AI Model Settings ---
	GeminiModel string
	ImageModel  string

	// --- Google AI (Gemini API) Settings ---
	GeminiAPIKey string

	// --- Image Backend Settings ---
	ImageBackend    string
	PollinationsURL string

	// --- Generation Settings ---
	StyleSuffix      string
	RateInterval     time.Duration
	ArticleTextLimit int

	// --- Layout Settings ---
	DefaultPanels int
	MaxPanels     int

	// --- Output ---
	ComicsRoot string

	// --- Timeout ---
	RequestTimeout time.Duration
}

// DefaultConfig は推奨されるデフォルト設定を返すヘルパー関数です。
func DefaultConfig() Config {
	return Config{
		GeminiModel:      DefaultGeminiModel,
		ImageModel:       DefaultImageModel,
		ImageBackend:     DefaultImageBackend,
		PollinationsURL:  DefaultPollinationsURL,
		StyleSuffix:      prompts.DefaultComicStyle,
		RateInterval:     DefaultRateInterval,
		ArticleTextLimit: DefaultArticleTextLimit,
		DefaultPanels:    DefaultPanelCount,
		MaxPanels:        DefaultMaxPanels,
		ComicsRoot:       DefaultComicsRoot,
		RequestTimeout:   DefaultRequestTimeout,
	}
}

// ClampPanels は要求パネル数を既定値と上限で補正します。0 以下は既定値です。
func (c Config) ClampPanels(n int) int {
	if n <= 0 {
		n = c.DefaultPanels
	}
	if c.MaxPanels > 0 && n > c.MaxPanels {
		n = c.MaxPanels
	}
	if n <= 0 {
		n = DefaultPanelCount
	}
	return n
}
