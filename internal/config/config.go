package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shouni/go-utils/envutil"

	libconfig "github.com/shouni/go-news-comic/pkg/config"
	"github.com/shouni/go-news-comic/pkg/news"
)

// デフォルト値の定義なのだ
const (
	DefaultPort       = "5000"
	DefaultNewsAPIURL = news.DefaultNewsAPIURL
	DefaultEnvFile    = ".env"
)

// Config はアプリケーション全体の環境設定（APIキーや保存先）を保持する構造体なのだ。
type Config struct {
	GeminiAPIKey      string
	GeminiModel       string
	GeminiImageModel  string
	ImageBackend      string
	PollinationsURL   string
	ImagePromptSuffix string

	NewsAPIKey string
	NewsAPIURL string

	ComicsRoot string
	Port       string

	RateInterval time.Duration
	HTTPTimeout  time.Duration
}

// LoadDotEnv は .env ファイルを環境変数に読み込むのだ。ファイルが無いのはエラーにしないのだ。
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{DefaultEnvFile}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
		slog.Debug(".env を読み込みました", "path", p)
	}
	return nil
}

// LoadConfig は環境変数から設定を読み込み、構造体を返すのだ！
func LoadConfig() *Config {
	return &Config{
		GeminiAPIKey:      envutil.GetEnv("GEMINI_API_KEY", ""),
		GeminiModel:       envutil.GetEnv("GEMINI_MODEL", libconfig.DefaultGeminiModel),
		GeminiImageModel:  envutil.GetEnv("IMAGE_GEMINI_MODEL", libconfig.DefaultImageModel),
		ImageBackend:      envutil.GetEnv("IMAGE_BACKEND", libconfig.DefaultImageBackend),
		PollinationsURL:   envutil.GetEnv("POLLINATIONS_URL", libconfig.DefaultPollinationsURL),
		ImagePromptSuffix: envutil.GetEnv("IMAGE_PROMPT_SUFFIX", ""),
		NewsAPIKey:        envutil.GetEnv("NEWS_API_KEY", ""),
		NewsAPIURL:        envutil.GetEnv("NEWS_API_URL", DefaultNewsAPIURL),
		ComicsRoot:        envutil.GetEnv("COMICS_ROOT", libconfig.DefaultComicsRoot),
		Port:              envutil.GetEnv("PORT", DefaultPort),
		RateInterval:      durationEnv("RATE_INTERVAL", libconfig.DefaultRateInterval),
		HTTPTimeout:       durationEnv("HTTP_TIMEOUT", libconfig.DefaultRequestTimeout),
	}
}

// durationEnv は "1s" のような期間、または秒数の整数を読み取るのだ。解釈できなければ既定値なのだ。
func durationEnv(key string, def time.Duration) time.Duration {
	raw := envutil.GetEnv(key, "")
	if raw == "" {
		return def
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if sec, err := strconv.Atoi(raw); err == nil {
		return time.Duration(sec) * time.Second
	}
	slog.Warn("期間の指定を解釈できないため既定値を使います", "key", key, "value", raw, "default", def)
	return def
}

// LibConfig はライブラリ層の Config に変換するのだ。空の項目は既定値のままなのだ。
func (c *Config) LibConfig() libconfig.Config {
	cfg := libconfig.DefaultConfig()
	cfg.GeminiAPIKey = c.GeminiAPIKey
	if c.GeminiModel != "" {
		cfg.GeminiModel = c.GeminiModel
	}
	if c.GeminiImageModel != "" {
		cfg.ImageModel = c.GeminiImageModel
	}
	if c.ImageBackend != "" {
		cfg.ImageBackend = c.ImageBackend
	}
	if c.PollinationsURL != "" {
		cfg.PollinationsURL = c.PollinationsURL
	}
	if c.ImagePromptSuffix != "" {
		cfg.StyleSuffix = c.ImagePromptSuffix
	}
	if c.ComicsRoot != "" {
		cfg.ComicsRoot = c.ComicsRoot
	}
	if c.RateInterval >= 0 {
		cfg.RateInterval = c.RateInterval
	}
	if c.HTTPTimeout > 0 {
		cfg.RequestTimeout = c.HTTPTimeout
	}
	return cfg
}

// GenerateOptions は CLI フラグから渡される実行時のパラメータなのだ。
type GenerateOptions struct {
	// ソース入力関連
	URL         string // --url
	Title       string // --title
	Description string // --description
	ScriptFile  string // --script-file
	Panels      int    // --panels

	// 出力関連
	OutputDir  string // --output-dir
	OutputFile string // --output-file
	ComicDir   string // assemble の対象ディレクトリ

	// ニュース検索
	Category string // --category
	Language string // --language
	Query    string // --query
	PageSize int    // --page-size

	// AI挙動設定
	ImageBackend string // --image-backend

	// 実行制御
	Addr string // --addr
}

// Apply はフラグで指定された値を環境設定に上書きするのだ。
func (o GenerateOptions) Apply(c *Config) {
	if o.ImageBackend != "" {
		c.ImageBackend = o.ImageBackend
	}
	if o.OutputDir != "" {
		c.ComicsRoot = o.OutputDir
	}
}
