package cmd

import (
	"github.com/shouni/go-news-comic/internal/pipeline"
	"github.com/shouni/go-news-comic/pkg/news"

	"github.com/spf13/cobra"
)

// newsCmd は、見出しの一覧または検索結果を JSON で表示するのだ。
var newsCmd = &cobra.Command{
	Use:   "news",
	Short: "ニュースの見出しを一覧、または検索するのだ。",
	RunE: func(cmd *cobra.Command, args []string) error {
		appCtx, err := setupAppContext(cmd)
		if err != nil {
			return err
		}
		return pipeline.ExecuteNews(cmd.Context(), appCtx, cmd.OutOrStdout())
	},
}

func init() {
	newsCmd.Flags().StringVarP(&opts.Category, "category", "c", "general", "カテゴリなのだ（general, sports, technology など）。")
	newsCmd.Flags().StringVarP(&opts.Language, "language", "l", "en", "言語なのだ（en, ml など）。")
	newsCmd.Flags().StringVarP(&opts.Query, "query", "q", "", "指定するとキーワード検索になるのだ。")
	newsCmd.Flags().IntVar(&opts.PageSize, "page-size", news.DefaultPageSize, "取得件数なのだ。")
}
