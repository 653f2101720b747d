package runner

import (
	"context"

	"github.com/shouni/go-news-comic/pkg/domain"
	"github.com/shouni/go-news-comic/pkg/publisher"
)

// PublishRunner は pkg/publisher を利用して台本を成果物として残します。
type PublishRunner struct {
	publisher *publisher.ComicPublisher
}

// NewPublishRunner は PublishRunner を生成します。
func NewPublishRunner(pub *publisher.ComicPublisher) *PublishRunner {
	return &PublishRunner{publisher: pub}
}

// Publish は comicDir に script.json と comic_plot.md を書き出します。
func (pr *PublishRunner) Publish(ctx context.Context, script *domain.Script, panels []domain.RenderedPanel, comicDir string) error {
	_, err := pr.publisher.Publish(ctx, script, panels, comicDir)
	return err
}

// BuildMarkdown は保存処理を行わず、Markdown 文字列のみを返します。
func (pr *PublishRunner) BuildMarkdown(script *domain.Script, panels []domain.RenderedPanel) string {
	return pr.publisher.BuildMarkdown(script, panels)
}
