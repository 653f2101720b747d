package pipeline

import (
	"context"

	"github.com/shouni/go-news-comic/pkg/domain"
)

// ArticleFetcher は記事URLから本文を取得するニュースソースです。
type ArticleFetcher interface {
	FetchFullText(ctx context.Context, pageURL string) (*domain.Article, error)
}

// ScriptModel は台本と登場人物の説明を生成する言語モデルです。
type ScriptModel interface {
	CreateScript(ctx context.Context, articleText string, panelCount int) (string, error)
	DescribeCharacters(ctx context.Context, script *domain.Script) (domain.CharacterDescriptions, error)
}

// ScriptNormalizer はモデルの応答を検証済みの台本にします。
type ScriptNormalizer interface {
	Normalize(raw string, panelCount int) (*domain.Script, error)
}

// PanelRenderer は台本の各パネルを画像化して comicDir に保存します。
type PanelRenderer interface {
	RenderPanels(ctx context.Context, script *domain.Script, descriptions domain.CharacterDescriptions, comicDir string) ([]domain.RenderedPanel, error)
}

// ComicAssembler はパネル群を1枚のコミック画像として outputPath に保存します。
type ComicAssembler interface {
	Assemble(panels []domain.RenderedPanel, outputPath, title string) (string, error)
}

// ScriptPublisher は正規化済み台本をコミックのディレクトリへ残します。
type ScriptPublisher interface {
	Publish(ctx context.Context, script *domain.Script, panels []domain.RenderedPanel, comicDir string) error
}
