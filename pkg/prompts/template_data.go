package prompts

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
)

const (
	ModeScript     = "script"
	ModeCharacters = "characters"
)

// TemplateData はテキストプロンプトのテンプレートに渡すデータ構造です。
type TemplateData struct {
	InputText  string
	PanelCount int
	Characters string
}

var (
	//go:embed script.md
	ScriptPromptTemplate string
	//go:embed characters.md
	CharactersPromptTemplate string
)

// promptMode はモードごとのテンプレートと、その実行に必要な入力の検証です。
type promptMode struct {
	source   string
	validate func(TemplateData) error
}

var promptModes = map[string]promptMode{
	ModeScript: {
		source: ScriptPromptTemplate,
		validate: func(d TemplateData) error {
			if strings.TrimSpace(d.InputText) == "" {
				return errors.New("記事本文が空です")
			}
			if d.PanelCount < 1 {
				return fmt.Errorf("パネル数は1以上が必要です: %d", d.PanelCount)
			}
			return nil
		},
	},
	ModeCharacters: {
		source: CharactersPromptTemplate,
		validate: func(d TemplateData) error {
			if strings.TrimSpace(d.Characters) == "" {
				return errors.New("登場人物の名前がありません")
			}
			return nil
		},
	},
}
