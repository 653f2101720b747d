package prompts

import "github.com/shouni/go-news-comic/pkg/domain"

// ScriptPrompt は台本生成とキャラクター説明のプロンプトを構築する契約です。
type ScriptPrompt interface {
	// Build は、指定されたモード（ModeScript / ModeCharacters）とデータに基づいてプロンプト文字列を生成します。
	Build(mode string, data TemplateData) (string, error)
}

// ImagePrompt はパネル画像のプロンプトを構築する契約です。
type ImagePrompt interface {
	// BuildPanel は、単一パネル用のプロンプト、ネガティブプロンプト、シード値を決定します。
	BuildPanel(panel domain.Panel, descriptions domain.CharacterDescriptions) (prompt string, negative string, seed int64)
}
