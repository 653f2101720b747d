package parser

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/shouni/go-news-comic/pkg/domain"
)

// Parser は保存済みの台本を読み込むためのインターフェースです。
type Parser interface {
	ParseFromPath(ctx context.Context, fullPath string) (*domain.Script, error)
}

// ScriptFileParser はローカルの script.json を読み込み、正規化して返します。
type ScriptFileParser struct {
	normalizer *ScriptNormalizer
}

// NewScriptFileParser は新しい ScriptFileParser を生成します。
func NewScriptFileParser() *ScriptFileParser {
	return &ScriptFileParser{normalizer: NewScriptNormalizer()}
}

// ParseFromPath は指定パスの台本を読み込みます。
func (p *ScriptFileParser) ParseFromPath(ctx context.Context, scriptFile string) (*domain.Script, error) {
	slog.InfoContext(ctx, "台本ファイルを読み込んでいます", "path", scriptFile)
	data, err := os.ReadFile(scriptFile)
	if err != nil {
		return nil, fmt.Errorf("台本ファイルの読み込みに失敗しました (%s): %w", scriptFile, err)
	}
	return p.normalizer.Normalize(string(data), 0)
}
