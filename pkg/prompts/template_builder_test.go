package prompts

import (
	"strings"
	"testing"
)

func TestTextPromptBuilder_Build(t *testing.T) {
	b, err := NewTextPromptBuilder()
	if err != nil {
		t.Fatalf("初期化に失敗したのだ: %v", err)
	}

	t.Run("台本プロンプトに本文とパネル数が入るのだ", func(t *testing.T) {
		got, err := b.Build(ModeScript, TemplateData{InputText: "The river flooded the town.", PanelCount: 6})
		if err != nil {
			t.Fatalf("構築に失敗したのだ: %v", err)
		}
		for _, want := range []string{"6-panel comic script", "Create exactly 6 panels", "The river flooded the town.", `"panel_number": 1`} {
			if !strings.Contains(got, want) {
				t.Errorf("プロンプトに %q が含まれていないのだ", want)
			}
		}
	})

	t.Run("キャラクタープロンプトに名前が入るのだ", func(t *testing.T) {
		got, err := b.Build(ModeCharacters, TemplateData{Characters: "Mayor, Reporter"})
		if err != nil {
			t.Fatalf("構築に失敗したのだ: %v", err)
		}
		if !strings.Contains(got, "Characters: Mayor, Reporter") {
			t.Errorf("名前が含まれていないのだ: %s", got)
		}
	})

	t.Run("前後の空白は取り除くのだ", func(t *testing.T) {
		got, err := b.Build(ModeCharacters, TemplateData{Characters: "Mayor"})
		if err != nil {
			t.Fatalf("構築に失敗したのだ: %v", err)
		}
		if got != strings.TrimSpace(got) {
			t.Errorf("前後に空白が残っているのだ: %q", got)
		}
	})

	t.Run("モードに必要な入力が無ければエラーなのだ", func(t *testing.T) {
		invalid := []struct {
			mode string
			data TemplateData
		}{
			{ModeScript, TemplateData{InputText: "  ", PanelCount: 4}},
			{ModeScript, TemplateData{InputText: "text", PanelCount: 0}},
			{ModeCharacters, TemplateData{}},
		}
		for _, tt := range invalid {
			if _, err := b.Build(tt.mode, tt.data); err == nil {
				t.Errorf("%s %+v はエラーになるはずなのだ", tt.mode, tt.data)
			}
		}
	})

	t.Run("不明なモードはエラーなのだ", func(t *testing.T) {
		if _, err := b.Build("unknown", TemplateData{}); err == nil {
			t.Error("エラーを期待したのだ")
		}
	})
}
