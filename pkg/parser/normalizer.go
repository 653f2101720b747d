// Package parser は AI が返す台本やキャラクター説明を検証・補完し、ドメインモデルに変換します。
package parser

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/shouni/go-news-comic/pkg/domain"
)

// DefaultScene は scene が欠けているパネルに入れる情景です。
const DefaultScene = "Scene description"

const errorExcerptLen = 200

// rawScript は信頼できない台本 JSON の受け皿です。欠損を判別するためにポインタで受けます。
type rawScript struct {
	Title  flexString  `json:"title"`
	Panels *[]rawPanel `json:"panels"`
}

type rawPanel struct {
	PanelNumber flexInt     `json:"panel_number"`
	Scene       flexString  `json:"scene"`
	Dialogue    flexString  `json:"dialogue"`
	Characters  flexStrings `json:"characters"`
}

// flexString は文字列に加えて数値と真偽値も文字列として受け付けます。
// null・オブジェクト・配列は欠損扱いです。
type flexString struct {
	value string
	ok    bool
}

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err == nil {
			f.value, f.ok = s, true
		}
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err == nil {
			f.value, f.ok = strconv.FormatBool(b), true
		}
	case 'n', '{', '[':
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err == nil {
			f.value, f.ok = n.String(), true
		}
	}
	return nil
}

// flexInt は数値と数値文字列の両方を受け付けます。解釈できない値は欠損扱いです。
type flexInt struct {
	value int
	ok    bool
}

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		n = json.Number(strings.TrimSpace(s))
	}
	if v, err := strconv.Atoi(n.String()); err == nil {
		f.value, f.ok = v, true
		return nil
	}
	if v, err := n.Float64(); err == nil {
		f.value, f.ok = int(v), true
	}
	return nil
}

// flexStrings は文字列の配列と単一の文字列の両方を受け付けます。
type flexStrings []string

func (f *flexStrings) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*f = list
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err == nil && single != "" {
		*f = []string{single}
	}
	return nil
}

// ScriptNormalizer は台本の解析と補完を行う唯一の境界です。
type ScriptNormalizer struct {
	defaultTitle string
	defaultScene string
}

// NewScriptNormalizer は既定値で ScriptNormalizer を生成します。
func NewScriptNormalizer() *ScriptNormalizer {
	return &ScriptNormalizer{
		defaultTitle: domain.DefaultTitle,
		defaultScene: DefaultScene,
	}
}

// Normalize は AI の生の応答を解析し、正規化した台本を返します。
//
//   - panel_number が無いパネルには入力順の 1 始まりの番号を振ります
//   - characters が無ければ空、dialogue が無ければ空文字列、scene が無ければ既定の情景です
//   - 並びは panel_number 昇順になり、番号は 1..N の連番に揃えます
//   - panelCount が正なら先頭 panelCount 枚に切り詰めます
//
// パネル列として解釈できない応答は script_parse エラーです。
// 正規化済みの台本を JSON にして再び渡すと同じ台本が返ります。
func (n *ScriptNormalizer) Normalize(raw string, panelCount int) (*domain.Script, error) {
	candidates := JSONCandidates(raw)
	if len(candidates) == 0 {
		return nil, domain.NewError(domain.CodeScriptParse, "AIの応答が空です")
	}

	title, panels, decoded, err := decodeFirstScript(candidates)
	if panels == nil {
		if decoded {
			return nil, domain.NewError(domain.CodeScriptParse,
				"台本に panels がありません (応答抜粋: %q)", truncateString(raw, errorExcerptLen))
		}
		return nil, domain.WrapError(domain.CodeScriptParse, err,
			"AIからの応答に含まれるJSONの解析に失敗しました (応答抜粋: %q)", truncateString(raw, errorExcerptLen))
	}
	if len(panels) == 0 {
		return nil, domain.NewError(domain.CodeScriptParse, "台本のパネルが0枚です")
	}

	script := &domain.Script{
		Title:  strings.TrimSpace(title),
		Panels: make(domain.Panels, 0, len(panels)),
	}
	if script.Title == "" {
		script.Title = n.defaultTitle
	}

	for i, rp := range panels {
		script.Panels = append(script.Panels, n.normalizePanel(i, rp))
	}

	sort.SliceStable(script.Panels, func(i, j int) bool {
		return script.Panels[i].PanelNumber < script.Panels[j].PanelNumber
	})

	if panelCount > 0 && len(script.Panels) > panelCount {
		script.Panels = script.Panels[:panelCount]
	}
	renumber(script.Panels)

	return script, nil
}

func (n *ScriptNormalizer) normalizePanel(index int, rp rawPanel) domain.Panel {
	p := domain.Panel{
		PanelNumber: index + 1,
		Scene:       n.defaultScene,
		Characters:  []string{},
	}
	if rp.PanelNumber.ok && rp.PanelNumber.value > 0 {
		p.PanelNumber = rp.PanelNumber.value
	}
	if scene := strings.TrimSpace(rp.Scene.value); rp.Scene.ok && scene != "" {
		p.Scene = scene
	}
	if rp.Dialogue.ok {
		p.Dialogue = strings.TrimSpace(rp.Dialogue.value)
	}
	for _, name := range rp.Characters {
		if name = strings.TrimSpace(name); name != "" {
			p.Characters = append(p.Characters, name)
		}
	}
	return p
}

// renumber は番号が 1..N の連番でない場合に並び順どおり振り直します。
func renumber(panels domain.Panels) {
	for i := range panels {
		if panels[i].PanelNumber != i+1 {
			for j := range panels {
				panels[j].PanelNumber = j + 1
			}
			return
		}
	}
}

// decodeFirstScript は候補を順に試し、パネル列を持つ最初の候補を採用します。
// decoded は JSON として読めたがパネル列の無い候補があったことを示し、err は最初の解析エラーです。
func decodeFirstScript(candidates []string) (title string, panels []rawPanel, decoded bool, err error) {
	for _, payload := range candidates {
		t, p, decodeErr := decodePanels(payload)
		if decodeErr != nil {
			if err == nil {
				err = decodeErr
			}
			continue
		}
		if p == nil {
			decoded = true
			continue
		}
		return t, p, true, nil
	}
	return "", nil, decoded, err
}

// decodePanels は {title, panels} 形式とパネルの配列そのものの両方を受け付けます。
// panels キーが無いオブジェクトは nil のパネル列を返します。
func decodePanels(payload string) (string, []rawPanel, error) {
	var obj rawScript
	objErr := json.Unmarshal([]byte(payload), &obj)
	if objErr == nil {
		if obj.Panels == nil {
			return obj.Title.value, nil, nil
		}
		return obj.Title.value, *obj.Panels, nil
	}

	var list []rawPanel
	if err := json.Unmarshal([]byte(payload), &list); err == nil {
		return "", list, nil
	}
	return "", nil, objErr
}
