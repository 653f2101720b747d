package workflow

import (
	"context"

	"github.com/shouni/go-news-comic/pkg/domain"
)

// NewsSource は見出し、キーワード検索、本文取得を提供するニュースの取得元です。
// 一覧系のエラーは空の一覧として返ります。
type NewsSource interface {
	TopHeadlines(ctx context.Context, category, language string, pageSize int) []domain.Article
	SearchByKeyword(ctx context.Context, query, language string, pageSize int) []domain.Article
	FetchFullText(ctx context.Context, pageURL string) (*domain.Article, error)
}

// ScriptRunner は記事本文から台本を生成する責務を持ちます。
type ScriptRunner interface {
	CreateScript(ctx context.Context, articleText string, panelCount int) (string, error)
	Run(ctx context.Context, articleText string, panelCount int) (*domain.Script, error)
	DescribeCharacters(ctx context.Context, script *domain.Script) (domain.CharacterDescriptions, error)
}

// PanelImageRunner は台本の各パネルを画像化して保存する責務を持ちます。
type PanelImageRunner interface {
	RenderPanels(ctx context.Context, script *domain.Script, descriptions domain.CharacterDescriptions, comicDir string) ([]domain.RenderedPanel, error)
}

// PublishRunner は台本と Markdown を成果物として保存する責務を持ちます。
type PublishRunner interface {
	Publish(ctx context.Context, script *domain.Script, panels []domain.RenderedPanel, comicDir string) error
	BuildMarkdown(script *domain.Script, panels []domain.RenderedPanel) string
}
