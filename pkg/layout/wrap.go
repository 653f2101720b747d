// Package layout は吹き出しとコマ割りの純粋な幾何計算を提供します。
// 画像には一切触れないため、描画パッケージから独立してテストできます。
package layout

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// DefaultWrapColumns は吹き出し1行あたりの最大桁数です。
const DefaultWrapColumns = 35

// Wrap は text を貪欲法で maxColumns 桁以内の行に折り返します。
// 単語は可能な限り分割せず、1単語だけで桁数を超える場合に限り桁数ごとに分割します。
// 空白のみの入力は空のスライスを返します。
//
// 桁数は runewidth の表示幅で数えますが、結合文字のような幅0のルーンも1桁とします。
// そのため1行のルーン数が maxColumns を超えることはありません。全角文字は2桁です。
func Wrap(text string, maxColumns int) []string {
	if maxColumns < 1 {
		maxColumns = 1
	}

	var (
		lines   []string
		current strings.Builder
		width   int
		hasWord bool
	)

	flush := func() {
		if hasWord {
			lines = append(lines, current.String())
		}
		current.Reset()
		width = 0
		hasWord = false
	}

	for _, word := range strings.Fields(text) {
		w := stringColumns(word)

		if w > maxColumns {
			flush()
			chunks := splitWord(word, maxColumns)
			lines = append(lines, chunks[:len(chunks)-1]...)
			last := chunks[len(chunks)-1]
			current.WriteString(last)
			width = stringColumns(last)
			hasWord = true
			continue
		}

		if !hasWord {
			current.WriteString(word)
			width = w
			hasWord = true
			continue
		}

		if width+1+w <= maxColumns {
			current.WriteByte(' ')
			current.WriteString(word)
			width += 1 + w
			continue
		}

		flush()
		current.WriteString(word)
		width = w
		hasWord = true
	}
	flush()

	return lines
}

// splitWord は桁数を超える単語を maxColumns 桁ごとの断片に分割します。
// 1文字で桁数を超える全角文字はその1文字だけの断片になります。
func splitWord(word string, maxColumns int) []string {
	var (
		chunks  []string
		current strings.Builder
		width   int
	)
	for _, r := range word {
		rw := runeColumns(r)
		if width > 0 && width+rw > maxColumns {
			chunks = append(chunks, current.String())
			current.Reset()
			width = 0
		}
		current.WriteRune(r)
		width += rw
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

// runeColumns は1ルーンの桁数です。幅0のルーンも1桁として数えます。
func runeColumns(r rune) int {
	return max(runewidth.RuneWidth(r), 1)
}

func stringColumns(s string) int {
	n := 0
	for _, r := range s {
		n += runeColumns(r)
	}
	return n
}
