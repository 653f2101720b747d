package builder

import (
	"github.com/shouni/go-news-comic/internal/config"
	"github.com/shouni/go-news-comic/pkg/workflow"
)

// AppContext は、コマンド実行に必要な共通コンテキストを保持する
// これを各 Execute 関数に渡すことで、依存関係の注入を簡素化します。
type AppContext struct {
	Config  *config.Config         // Configは、環境変数から読み込まれた設定です（APIキー、保存先など）。
	Options config.GenerateOptions // Optionsは、コマンドラインから渡された実行時の設定です（URL、パネル数など）。
	Manager *workflow.Manager      // Managerは、各工程の Runner と Orchestrator を構築します。
}

// NewAppContext は AppContext の新しいインスタンスを生成する
func NewAppContext(cfg *config.Config, opts config.GenerateOptions, manager *workflow.Manager) AppContext {
	return AppContext{
		Config:  cfg,
		Options: opts,
		Manager: manager,
	}
}
