package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-news-comic/internal/pipeline"

	"github.com/spf13/cobra"
)

// scriptCmd は、台本の生成（JSON出力）のみを実行するのだ。
var scriptCmd = &cobra.Command{
	Use:   "script",
	Short: "台本（JSON）のみを生成するのだ。",
	Long: `記事から漫画の台本（タイトル、各コマの情景、台詞、登場人物）を
JSON形式で出力するのだ。画像生成は行わないのだよ。`,
	RunE: scriptCommand,
}

func init() {
	addSourceFlags(scriptCmd)
	scriptCmd.Flags().StringVarP(&opts.OutputFile, "output-file", "o", "", "保存パスなのだ（省略時は標準出力）。")
}

func scriptCommand(cmd *cobra.Command, args []string) error {
	if opts.URL == "" && opts.Title == "" && opts.Description == "" {
		return fmt.Errorf("ソース（--url または --title / --description）を指定してほしいのだ")
	}

	appCtx, err := setupAppContext(cmd)
	if err != nil {
		return err
	}

	slog.Info("台本生成モードを起動するのだ！",
		"url", opts.URL,
		"text_model", appCtx.Manager.Config().GeminiModel,
		"output", opts.OutputFile)

	return pipeline.ExecuteScriptOnly(cmd.Context(), appCtx, cmd.OutOrStdout())
}
