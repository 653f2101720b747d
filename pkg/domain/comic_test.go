package domain

import (
	"reflect"
	"testing"
)

func TestPanels_CharacterNames(t *testing.T) {
	t.Run("重複を除いてソートされるのだ", func(t *testing.T) {
		panels := Panels{
			{PanelNumber: 1, Characters: []string{"Mayor", "Reporter"}},
			{PanelNumber: 2, Characters: []string{"Reporter", ""}},
			{PanelNumber: 3, Characters: nil},
			{PanelNumber: 4, Characters: []string{"Citizen"}},
		}

		want := []string{"Citizen", "Mayor", "Reporter"}
		if got := panels.CharacterNames(); !reflect.DeepEqual(got, want) {
			t.Errorf("期待値 %v, 実際の値 %v", want, got)
		}
	})

	t.Run("登場人物がいなければ空なのだ", func(t *testing.T) {
		panels := Panels{{PanelNumber: 1}}
		if got := panels.CharacterNames(); len(got) != 0 {
			t.Errorf("空のはずなのだ: %v", got)
		}
	})
}

func TestSortRenderedPanels(t *testing.T) {
	input := []RenderedPanel{{PanelNumber: 3}, {PanelNumber: 1}, {PanelNumber: 2}}
	got := SortRenderedPanels(input)

	for i, p := range got {
		if p.PanelNumber != i+1 {
			t.Errorf("位置 %d: 期待値 %d, 実際の値 %d", i, i+1, p.PanelNumber)
		}
	}
	if input[0].PanelNumber != 3 {
		t.Errorf("入力スライスが書き換えられているのだ")
	}
}

func TestSeedFromName(t *testing.T) {
	a := SeedFromName("Mayor")
	b := SeedFromName("Mayor")
	c := SeedFromName("Reporter")

	if a != b {
		t.Errorf("同じ名前なら同じシードのはずなのだ: %d != %d", a, b)
	}
	if a == c {
		t.Errorf("異なる名前で同じシードになったのだ: %d", a)
	}
	if a < 0 || c < 0 {
		t.Errorf("シードは非負のはずなのだ: %d, %d", a, c)
	}
}

func TestArticle_HasText(t *testing.T) {
	var nilArticle *Article
	if nilArticle.HasText() {
		t.Error("nil の記事は本文を持たないのだ")
	}
	if (&Article{Title: "t"}).HasText() {
		t.Error("本文が空なら false なのだ")
	}
	if !(&Article{Text: "body"}).HasText() {
		t.Error("本文があれば true なのだ")
	}
}
