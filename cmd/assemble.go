package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-news-comic/internal/pipeline"
	libconfig "github.com/shouni/go-news-comic/pkg/config"

	"github.com/spf13/cobra"
)

// assembleCmd は、保存済みの台本とパネル画像からコミックを組み直すのだ。
var assembleCmd = &cobra.Command{
	Use:   "assemble <comic-dir>",
	Short: "保存済みのパネル画像から final_comic.png を組み直すのだ。",
	Long: `コミックのディレクトリにある script.json と panel_<n>.png を読み込み、
吹き出しとコマ割りを付けて1枚の画像に組み立て直すのだ。APIは使わないのだよ。`,
	Args: cobra.ExactArgs(1),
	RunE: assembleCommand,
}

func init() {
	assembleCmd.Flags().StringVarP(&opts.ScriptFile, "script-file", "f", "", "台本ファイルなのだ（省略時は <comic-dir>/script.json）。")
	assembleCmd.Flags().StringVarP(&opts.OutputFile, "output-file", "o", "", "保存パスなのだ（省略時は <comic-dir>/final_comic.png）。")
}

func assembleCommand(cmd *cobra.Command, args []string) error {
	opts.ComicDir = args[0]
	// 組み立てはネットワークを使わないのだ
	if opts.ImageBackend == "" {
		opts.ImageBackend = libconfig.BackendPlaceholder
	}

	appCtx, err := setupAppContext(cmd)
	if err != nil {
		return err
	}

	path, err := pipeline.ExecuteAssemble(cmd.Context(), appCtx)
	if err != nil {
		return fmt.Errorf("コミックの組み立てに失敗したのだ: %w", err)
	}

	slog.Info("コミックを組み直したのだ！", "path", path)
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
