package runner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/shouni/go-news-comic/pkg/config"
	"github.com/shouni/go-news-comic/pkg/domain"
	"github.com/shouni/go-news-comic/pkg/parser"
	"github.com/shouni/go-news-comic/pkg/prompts"
)

// ContentGenerator はプロンプトからテキストを生成する言語モデルの契約です。
type ContentGenerator interface {
	Generate(ctx context.Context, prompt, model string) (string, error)
}

// ScriptRunner は記事本文から台本を、台本から登場人物の説明を生成する ScriptModel です。
type ScriptRunner struct {
	cfg           config.Config
	promptBuilder prompts.ScriptPrompt
	aiClient      ContentGenerator
	normalizer    *parser.ScriptNormalizer
}

// NewScriptRunner は依存関係を注入して初期化します。
func NewScriptRunner(cfg config.Config, pb prompts.ScriptPrompt, ai ContentGenerator) *ScriptRunner {
	return &ScriptRunner{
		cfg:           cfg,
		promptBuilder: pb,
		aiClient:      ai,
		normalizer:    parser.NewScriptNormalizer(),
	}
}

// CreateScript は記事本文から panelCount コマの台本を生成し、モデルの生の応答を返します。
func (sr *ScriptRunner) CreateScript(ctx context.Context, articleText string, panelCount int) (string, error) {
	text := truncateRunes(strings.TrimSpace(articleText), sr.cfg.ArticleTextLimit)

	finalPrompt, err := sr.promptBuilder.Build(prompts.ModeScript, prompts.TemplateData{
		InputText:  text,
		PanelCount: panelCount,
	})
	if err != nil {
		return "", domain.WrapError(domain.CodeScriptGeneration, err, "プロンプト生成に失敗しました")
	}

	slog.InfoContext(ctx, "ScriptRunner: Calling Gemini API", "model", sr.cfg.GeminiModel, "panels", panelCount)
	raw, err := sr.aiClient.Generate(ctx, finalPrompt, sr.cfg.GeminiModel)
	if err != nil {
		return "", domain.WrapError(domain.CodeScriptGeneration, err, "台本の生成に失敗しました")
	}
	if strings.TrimSpace(raw) == "" {
		return "", domain.NewError(domain.CodeScriptGeneration, "台本の生成結果が空です")
	}
	return raw, nil
}

// Run は台本を生成し、正規化済みの Script として返します。
func (sr *ScriptRunner) Run(ctx context.Context, articleText string, panelCount int) (*domain.Script, error) {
	raw, err := sr.CreateScript(ctx, articleText, panelCount)
	if err != nil {
		return nil, err
	}
	return sr.normalizer.Normalize(raw, panelCount)
}

// DescribeCharacters は台本に登場する人物の外見説明を生成します。
// 登場人物がいない場合はモデルを呼ばずに空のマップを返します。
func (sr *ScriptRunner) DescribeCharacters(ctx context.Context, script *domain.Script) (domain.CharacterDescriptions, error) {
	if script == nil {
		return domain.CharacterDescriptions{}, nil
	}
	names := script.Panels.CharacterNames()
	if len(names) == 0 {
		return domain.CharacterDescriptions{}, nil
	}

	finalPrompt, err := sr.promptBuilder.Build(prompts.ModeCharacters, prompts.TemplateData{
		Characters: strings.Join(names, ", "),
	})
	if err != nil {
		return nil, fmt.Errorf("プロンプト生成に失敗しました: %w", err)
	}

	slog.InfoContext(ctx, "ScriptRunner: Describing characters", "model", sr.cfg.GeminiModel, "count", len(names))
	raw, err := sr.aiClient.Generate(ctx, finalPrompt, sr.cfg.GeminiModel)
	if err != nil {
		return nil, fmt.Errorf("キャラクター説明の生成に失敗しました: %w", err)
	}
	return parser.ParseCharacterDescriptions(raw, names)
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
