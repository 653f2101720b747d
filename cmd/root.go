package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/shouni/go-news-comic/internal/builder"
	"github.com/shouni/go-news-comic/internal/config"

	"github.com/spf13/cobra"
)

var (
	opts    config.GenerateOptions
	envFile string
	verbose bool
	logJSON bool
)

var rootCmd = &cobra.Command{
	Use:               "news-comic",
	Short:             "ニュース記事から1枚のコミックを作るのだ。",
	SilenceUsage:      true,
	PersistentPreRunE: preRunAppE,
}

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義するのだ。
func addAppFlags(rootCmd *cobra.Command) {
	// --- ログ ---
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "デバッグログを出力するのだ。")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "ログをJSON形式で出力するのだ。")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", config.DefaultEnvFile, "読み込む .env ファイルなのだ。")

	// --- 生成結果の出力設定 ---
	rootCmd.PersistentFlags().StringVarP(&opts.OutputDir, "output-dir", "d", "", "コミックを保存するルートディレクトリ（既定は COMICS_ROOT）なのだ。")

	// --- AI挙動設定 ---
	rootCmd.PersistentFlags().StringVar(&opts.ImageBackend, "image-backend", "", "画像生成バックエンド（pollinations / gemini / placeholder）なのだ。")
}

// preRunAppE は、コマンド実行前にロガーを設定し、.env を読み込むのだ。
func preRunAppE(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, handlerOpts)
	if logJSON {
		handler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(handler))

	return config.LoadDotEnv(envFile)
}

// setupAppContext は環境変数とフラグから AppContext を組み立てるのだ。
func setupAppContext(cmd *cobra.Command) (*builder.AppContext, error) {
	cfg := config.LoadConfig()
	return builder.SetupAppContext(cmd.Context(), cfg, opts)
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	addAppFlags(rootCmd)
	rootCmd.AddCommand(
		serveCmd,
		generateCmd,
		scriptCmd,
		newsCmd,
		assembleCmd,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		slog.Error("コマンドの実行に失敗したのだ", "error", err)
		os.Exit(1)
	}
}
