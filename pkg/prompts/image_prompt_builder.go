package prompts

import (
	"fmt"
	"strings"

	"github.com/shouni/go-news-comic/pkg/domain"
)

const (
	// DefaultComicStyle はパネル画像の共通の画風です。
	DefaultComicStyle = "comic book illustration, professional comic art, clear lines, vibrant colors, " +
		"graphic novel style, detailed, high quality, realistic shading"

	// ComicNegativePrompt は吹き出しを後から描くため、画像内の文字を抑制します。
	ComicNegativePrompt = "speech bubble, dialogue balloon, text, alphabet, letters, words, signatures, watermark, username, low quality, distorted, bad anatomy, anime, manga"

	panelDirective = "NOT anime, NOT manga. Realistic Western comic style. One single panel."

	maxPromptCharacters = 2
	maxDescriptionRunes = 120
	maxSceneRunes       = 200
)

// ImagePromptBuilder はパネルの情景と登場人物の説明から画像プロンプトを組み立てます。
type ImagePromptBuilder struct {
	style string
}

// NewImagePromptBuilder は画風を指定して ImagePromptBuilder を生成します。空なら既定の画風です。
func NewImagePromptBuilder(style string) *ImagePromptBuilder {
	if strings.TrimSpace(style) == "" {
		style = DefaultComicStyle
	}
	return &ImagePromptBuilder{style: style}
}

// BuildPanel は1パネル分のプロンプトを返します。
// 説明を持つ登場人物を先頭から最大2人まで、説明は120文字、情景は200文字で切り詰めます。
// シードは先頭の登場人物名から決まり、登場人物がいなければ 0 です。
func (b *ImagePromptBuilder) BuildPanel(panel domain.Panel, descriptions domain.CharacterDescriptions) (string, string, int64) {
	var details strings.Builder
	used := 0
	for _, name := range panel.Characters {
		if used >= maxPromptCharacters {
			break
		}
		desc := descriptions[name]
		if desc == "" {
			continue
		}
		fmt.Fprintf(&details, "%s: %s. ", name, truncateRunes(desc, maxDescriptionRunes))
		used++
	}

	prompt := fmt.Sprintf("%s. %s Scene showing: %s. %s",
		b.style,
		details.String(),
		truncateRunes(panel.Scene, maxSceneRunes),
		panelDirective,
	)

	var seed int64
	if name := panel.PrimaryCharacter(); name != "" {
		seed = domain.SeedFromName(name)
	}

	return prompt, ComicNegativePrompt, seed
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
