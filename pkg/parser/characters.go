package parser

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/shouni/go-news-comic/pkg/domain"
)

// ParseCharacterDescriptions は登場人物の説明 JSON を解析します。
// 返すマップのキーは names と完全に一致します。応答に無い人物は空文字列、
// names に無い人物は捨てます。名前の照合は完全一致、次に大文字小文字を無視して行います。
func ParseCharacterDescriptions(raw string, names []string) (domain.CharacterDescriptions, error) {
	decoded, err := decodeFirstObject(raw)
	if err != nil {
		return nil, fmt.Errorf("キャラクター説明のJSON解析に失敗しました (応答抜粋: %q): %w", truncateString(raw, errorExcerptLen), err)
	}

	folded := make(map[string]string, len(decoded))
	for k, v := range decoded {
		folded[strings.ToLower(strings.TrimSpace(k))] = describe(v)
	}

	result := make(domain.CharacterDescriptions, len(names))
	for _, name := range names {
		if v, ok := decoded[name]; ok {
			result[name] = describe(v)
			continue
		}
		result[name] = folded[strings.ToLower(name)]
	}
	return result, nil
}

// decodeFirstObject は JSON オブジェクトとして読める最初の候補を返します。
func decodeFirstObject(raw string) (map[string]any, error) {
	var firstErr error
	for _, payload := range JSONCandidates(raw) {
		var decoded map[string]any
		err := json.Unmarshal([]byte(payload), &decoded)
		if err == nil {
			return decoded, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	if firstErr == nil {
		firstErr = fmt.Errorf("応答が空です")
	}
	return nil, firstErr
}

// describe は説明の値を文字列にします。オブジェクトで返ってきた場合は値を連結します。
func describe(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case nil:
		return ""
	case map[string]any:
		parts := make([]string, 0, len(t))
		for _, key := range sortedKeys(t) {
			if s := describe(t[key]); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
