package parser

import (
	"encoding/json"
	"strings"
)

// JSONCandidates は AI の応答から JSON として試す部分を優先順に返します。
// コードフェンスの中身、最も外側の {...}、最も外側の [...]、応答全体の順で、重複は除きます。
// 前置きに角括弧の注記が付いた応答でも、後ろのオブジェクトが候補に残ります。
func JSONCandidates(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var candidates []string
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		for _, c := range candidates {
			if c == s {
				return
			}
		}
		candidates = append(candidates, s)
	}

	if matches := jsonBlockRegex.FindStringSubmatch(raw); len(matches) > 1 {
		add(matches[1])
	}

	// 閉じられていない先頭のフェンスだけが付いている場合
	body := raw
	if strings.HasPrefix(body, "```") {
		body = strings.TrimPrefix(body, "```")
		body = strings.TrimPrefix(body, "json")
		body = strings.TrimSpace(strings.TrimSuffix(body, "```"))
	}

	if s, ok := outermost(body, '{', '}'); ok {
		add(s)
	}
	if a, ok := outermost(body, '[', ']'); ok {
		add(a)
	}
	add(body)
	return candidates
}

// ExtractJSON は JSONCandidates のうち JSON として妥当な最初の候補を返します。
// 妥当な候補が無ければ先頭の候補を返します。
func ExtractJSON(raw string) string {
	candidates := JSONCandidates(raw)
	for _, c := range candidates {
		if json.Valid([]byte(c)) {
			return c
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	return candidates[0]
}

func outermost(s string, open, close byte) (string, bool) {
	first := strings.IndexByte(s, open)
	last := strings.LastIndexByte(s, close)
	if first == -1 || last == -1 || last <= first {
		return "", false
	}
	return s[first : last+1], true
}

func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}
