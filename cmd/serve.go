package cmd

import (
	"github.com/shouni/go-news-comic/internal/pipeline"

	"github.com/spf13/cobra"
)

// serveCmd は、HTTP API とコミックの配信を行うサーバーを起動するのだ。
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "HTTP API サーバーを起動するのだ。",
	RunE: func(cmd *cobra.Command, args []string) error {
		appCtx, err := setupAppContext(cmd)
		if err != nil {
			return err
		}
		return pipeline.Serve(cmd.Context(), appCtx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&opts.Addr, "addr", "", "待ち受けアドレスなのだ（省略時は :$PORT）。")
}
