package domain

import "sort"

// DefaultTitle は台本にタイトルが無い場合に使う既定のタイトルです。
const DefaultTitle = "News Comic"

// Script はひとつの記事から作られた台本全体です。
type Script struct {
	Title  string `json:"title"`
	Panels Panels `json:"panels"`
}

// Panel は台本の1コマ分の情景、セリフ、登場人物を保持します。
type Panel struct {
	PanelNumber int      `json:"panel_number"`
	Scene       string   `json:"scene"`
	Dialogue    string   `json:"dialogue"`
	Characters  []string `json:"characters"`
}

// Panels は Panel のスライスです。
type Panels []Panel

// CharacterNames は全パネルで参照される登場人物名の和集合をソートして返します。
func (ps Panels) CharacterNames() []string {
	set := make(map[string]struct{})
	for _, panel := range ps {
		for _, name := range panel.Characters {
			if name != "" {
				set[name] = struct{}{}
			}
		}
	}

	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// CharacterDescriptions は登場人物名から外見の説明文へのマップです。
type CharacterDescriptions map[string]string

// RenderedPanel は画像生成済みのパネルです。画像はコミックID配下のファイルとして保持されます。
type RenderedPanel struct {
	PanelNumber int    `json:"panel_number"`
	ImagePath   string `json:"image_path"`
	Dialogue    string `json:"dialogue"`
	Scene       string `json:"scene"`
	Placeholder bool   `json:"placeholder,omitempty"`
}

// SortRenderedPanels は panel_number の昇順に並べ替えた新しいスライスを返します。
func SortRenderedPanels(panels []RenderedPanel) []RenderedPanel {
	sorted := make([]RenderedPanel, len(panels))
	copy(sorted, panels)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PanelNumber < sorted[j].PanelNumber
	})
	return sorted
}

// ComicArtifact は生成リクエスト1件の最終成果物です。
type ComicArtifact struct {
	ID     string  `json:"comic_id"`
	Dir    string  `json:"-"`
	Path   string  `json:"-"`
	Script *Script `json:"script"`
}
