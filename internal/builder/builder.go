package builder

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-news-comic/internal/config"
	"github.com/shouni/go-news-comic/internal/server"
	"github.com/shouni/go-news-comic/pkg/workflow"
)

// SetupAppContext は、フラグを反映した設定から Manager を構築し、AppContext を返します。
func SetupAppContext(ctx context.Context, cfg *config.Config, opts config.GenerateOptions) (*AppContext, error) {
	opts.Apply(cfg)

	manager, err := workflow.New(ctx, workflow.ManagerArgs{
		Config:     cfg.LibConfig(),
		NewsAPIKey: cfg.NewsAPIKey,
		NewsAPIURL: cfg.NewsAPIURL,
	})
	if err != nil {
		return nil, fmt.Errorf("ワークフローの初期化に失敗しました: %w", err)
	}

	appCtx := NewAppContext(cfg, opts, manager)
	return &appCtx, nil
}

// BuildServer は HTTP API の Server を構築します。
// 台本生成が使えない構成でも、ニュースの一覧と検索は提供します。
func BuildServer(ctx context.Context, appCtx *AppContext) *server.Server {
	lib := appCtx.Manager.Config()
	opts := server.Options{
		News:       appCtx.Manager.NewsSource(),
		ComicsRoot: lib.ComicsRoot,
		MaxPanels:  lib.MaxPanels,
	}

	orch, err := appCtx.Manager.BuildOrchestrator()
	if err != nil {
		slog.WarnContext(ctx, "コミック生成APIは無効です", "error", err)
	} else {
		opts.Generator = orch
	}
	return server.New(opts)
}
