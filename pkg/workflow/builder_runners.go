package workflow

import (
	"fmt"

	"github.com/shouni/go-news-comic/pkg/assembler"
	"github.com/shouni/go-news-comic/pkg/asset"
	"github.com/shouni/go-news-comic/pkg/generator"
	"github.com/shouni/go-news-comic/pkg/parser"
	"github.com/shouni/go-news-comic/pkg/pipeline"
	"github.com/shouni/go-news-comic/pkg/publisher"
	"github.com/shouni/go-news-comic/pkg/runner"
)

// BuildScriptRunner は、台本生成を担当する Runner を作成します。
func (m *Manager) BuildScriptRunner() (ScriptRunner, error) {
	if m.textGen == nil {
		return nil, fmt.Errorf("台本生成には GEMINI_API_KEY が必要です")
	}
	return runner.NewScriptRunner(m.cfg, m.scriptPrompt, m.textGen), nil
}

// BuildPanelImageRunner は、パネル画像生成を担当する Runner を作成します。
func (m *Manager) BuildPanelImageRunner() (PanelImageRunner, error) {
	placeholder := generator.NewPlaceholderModel(m.fonts)
	return runner.NewPanelImageRunner(m.cfg, m.imagePrompt, placeholder, m.imageModels...), nil
}

// BuildPublishRunner は、台本の保存を担当する Runner を作成します。
func (m *Manager) BuildPublishRunner() (PublishRunner, error) {
	return runner.NewPublishRunner(publisher.NewComicPublisher(m.writer)), nil
}

// BuildAssembler は、コマ割りと吹き出しの合成を担当する GridAssembler を作成します。
func (m *Manager) BuildAssembler() *assembler.GridAssembler {
	composer := assembler.NewPanelComposer(assembler.NewBubbleRenderer(m.fonts))
	return assembler.NewGridAssembler(composer, m.fonts)
}

// NewsSource は記事の取得元を返します。
func (m *Manager) NewsSource() NewsSource {
	return m.news
}

// BuildOrchestrator は、記事からコミックを作る一連の工程をまとめた Orchestrator を作成します。
func (m *Manager) BuildOrchestrator() (*pipeline.Orchestrator, error) {
	scriptRunner, err := m.BuildScriptRunner()
	if err != nil {
		return nil, err
	}
	panelRunner, err := m.BuildPanelImageRunner()
	if err != nil {
		return nil, err
	}
	publishRunner, err := m.BuildPublishRunner()
	if err != nil {
		return nil, err
	}

	return pipeline.NewOrchestrator(pipeline.Deps{
		News:       m.news,
		Script:     scriptRunner,
		Normalizer: parser.NewScriptNormalizer(),
		Renderer:   panelRunner,
		Assembler:  m.BuildAssembler(),
		Publisher:  publishRunner,
		Layout:     asset.NewLayout(m.cfg.ComicsRoot),
	})
}
