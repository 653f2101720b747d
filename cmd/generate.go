package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-news-comic/internal/pipeline"

	"github.com/spf13/cobra"
)

// generateCmd は、記事からコミックを生成するパイプライン全体を実行するのだ。
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "記事URLから1枚のコミックを生成するのだ。",
	Long: `記事の本文を取得して台本を作り、パネル画像を生成して1枚のコミックに組み立てるのだ。
本文が取れないときは --title と --description を代わりに使うのだよ。`,
	RunE: generateCommand,
}

func init() {
	addSourceFlags(generateCmd)
}

// addSourceFlags は記事の入力に関するフラグを定義するのだ。
func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&opts.URL, "url", "u", "", "記事のURLなのだ。")
	cmd.Flags().StringVar(&opts.Title, "title", "", "本文が取れないときに使う記事タイトルなのだ。")
	cmd.Flags().StringVar(&opts.Description, "description", "", "本文が取れないときに使う記事の概要なのだ。")
	cmd.Flags().IntVarP(&opts.Panels, "panels", "p", 0, "パネル数なのだ（既定 4、最大 10）。")
}

func generateCommand(cmd *cobra.Command, args []string) error {
	if opts.URL == "" && opts.Title == "" && opts.Description == "" {
		return fmt.Errorf("ソース（--url または --title / --description）を指定してほしいのだ")
	}

	appCtx, err := setupAppContext(cmd)
	if err != nil {
		return err
	}

	slog.Info("コミック生成パイプラインを起動するのだ！",
		"url", opts.URL,
		"panels", opts.Panels,
		"image_backend", appCtx.Manager.Config().ImageBackend,
		"output_dir", appCtx.Manager.Config().ComicsRoot)

	artifact, err := pipeline.Execute(cmd.Context(), appCtx)
	if err != nil {
		return err
	}

	slog.Info("すべての生成工程が完了したのだ！", "comic_id", artifact.ID)
	fmt.Fprintln(cmd.OutOrStdout(), artifact.Path)
	return nil
}
