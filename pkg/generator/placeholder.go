package generator

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	imagedom "github.com/shouni/gemini-image-kit/pkg/domain"
	"github.com/shouni/go-news-comic/pkg/assembler"
	"github.com/shouni/go-news-comic/pkg/domain"
	"github.com/shouni/go-news-comic/pkg/layout"
)

const (
	// PlaceholderName は TryInOrder で使うプレースホルダーの候補名です。
	PlaceholderName = "placeholder"

	placeholderSize       = 1024
	placeholderLabelSize  = 64
	placeholderSceneSize  = 32
	placeholderWrap       = 48
	placeholderLineHeight = 44
	placeholderMaxLines   = 12
)

var placeholderBackground = color.RGBA{R: 240, G: 240, B: 240, A: 255}

// PlaceholderModel はリモート生成に失敗したパネルの代替画像をローカルで描きます。
type PlaceholderModel struct {
	fonts *assembler.FontProvider
}

// NewPlaceholderModel は PlaceholderModel を生成します。
func NewPlaceholderModel(fonts *assembler.FontProvider) *PlaceholderModel {
	if fonts == nil {
		fonts = assembler.NewFontProvider(assembler.DefaultFontCandidates...)
	}
	return &PlaceholderModel{fonts: fonts}
}

// Generate は薄い灰色の 1024px 四方にパネル番号と情景を描いた PNG を返します。
func (m *PlaceholderModel) Generate(panel domain.Panel) (*imagedom.ImageResponse, error) {
	dc := gg.NewContext(placeholderSize, placeholderSize)
	dc.SetColor(placeholderBackground)
	dc.Clear()

	dc.SetRGB255(160, 160, 160)
	dc.SetLineWidth(6)
	dc.DrawRectangle(24, 24, placeholderSize-48, placeholderSize-48)
	dc.Stroke()

	label := m.fonts.Face(placeholderLabelSize)
	dc.SetFontFace(label)
	dc.SetRGB255(90, 90, 90)
	dc.DrawStringAnchored(fmt.Sprintf("Panel %d", panel.PanelNumber), placeholderSize/2, 120, 0.5, 1)
	label.Close()

	body := m.fonts.Face(placeholderSceneSize)
	defer body.Close()
	dc.SetFontFace(body)
	dc.SetRGB255(110, 110, 110)
	lines := layout.Wrap(panel.Scene, placeholderWrap)
	if len(lines) > placeholderMaxLines {
		lines = append(lines[:placeholderMaxLines-1], "...")
	}
	top := float64(placeholderSize/2 - len(lines)*placeholderLineHeight/2)
	for i, line := range lines {
		dc.DrawStringAnchored(line, placeholderSize/2, top+float64(i*placeholderLineHeight), 0.5, 1)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, dc.Image(), imaging.PNG); err != nil {
		return nil, fmt.Errorf("プレースホルダー画像のエンコードに失敗しました: %w", err)
	}
	return &imagedom.ImageResponse{Data: buf.Bytes(), MimeType: "image/png"}, nil
}
