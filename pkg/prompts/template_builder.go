package prompts

import (
	"fmt"
	"strings"
	"text/template"
)

// TextPromptBuilder は台本とキャラクター説明のプロンプトを組み立てます。
// 埋め込みテンプレートは1つのテンプレート集合にモード名で登録され、実行前にモードごとの入力検証を通します。
type TextPromptBuilder struct {
	set      *template.Template
	validate map[string]func(TemplateData) error
}

// NewTextPromptBuilder は埋め込みテンプレートを解析して TextPromptBuilder を初期化します。
// 未定義のフィールドを参照するテンプレートは実行時にエラーになります。
func NewTextPromptBuilder() (*TextPromptBuilder, error) {
	set := template.New("prompts").Option("missingkey=error")
	validate := make(map[string]func(TemplateData) error, len(promptModes))

	for mode, pm := range promptModes {
		if strings.TrimSpace(pm.source) == "" {
			return nil, fmt.Errorf("プロンプトテンプレート '%s' (go:embed) が空です", mode)
		}
		if _, err := set.New(mode).Parse(pm.source); err != nil {
			return nil, fmt.Errorf("プロンプト '%s' の解析に失敗: %w", mode, err)
		}
		validate[mode] = pm.validate
	}

	return &TextPromptBuilder{set: set, validate: validate}, nil
}

// Build は mode のテンプレートに data を流し込み、前後の空白を除いたプロンプトを返します。
func (b *TextPromptBuilder) Build(mode string, data TemplateData) (string, error) {
	check, ok := b.validate[mode]
	if !ok {
		return "", fmt.Errorf("不明なモードです: '%s'", mode)
	}
	if err := check(data); err != nil {
		return "", fmt.Errorf("プロンプト '%s' の入力が不正です: %w", mode, err)
	}

	var sb strings.Builder
	if err := b.set.ExecuteTemplate(&sb, mode, data); err != nil {
		return "", fmt.Errorf("プロンプトテンプレートの実行に失敗しました: %w", err)
	}
	return strings.TrimSpace(sb.String()), nil
}
