package asset

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/shouni/go-utils/urlpath"

	"github.com/shouni/go-news-comic/pkg/domain"
)

const (
	// DefaultPanelFileName はパネル画像の共通のベースファイル名です。
	DefaultPanelFileName = "panel.png"
	// DefaultComicFileName は組み上がったコミック画像のファイル名です。
	DefaultComicFileName = "final_comic.png"
	// DefaultScriptFileName は正規化済み台本の保存ファイル名です。
	DefaultScriptFileName = "script.json"
	// PublicPrefix はコミックを配信する URL のプレフィックスです。
	PublicPrefix = "/comics"
)

var (
	// PanelFileRegex はパネル画像 (panel_1.png 等) に一致します
	PanelFileRegex = createIndexedRegex(DefaultPanelFileName)
)

// Layout はコミック成果物のルートディレクトリを保持し、各ファイルのパスを解決します。
// 配置は <root>/<comicID>/panel_<n>.png, final_comic.png, script.json です。
type Layout struct {
	root string
}

// NewLayout は root を基点とする Layout を生成します。
func NewLayout(root string) *Layout {
	return &Layout{root: root}
}

// Root はルートディレクトリを返します。
func (l *Layout) Root() string {
	return l.root
}

// ComicDir はコミックID専用のディレクトリを返します。
// ID はパス区切りや ".." を含めない UUID 形式でなければなりません。
func (l *Layout) ComicDir(comicID string) (string, error) {
	if err := ValidateComicID(comicID); err != nil {
		return "", err
	}
	return filepath.Join(l.root, comicID), nil
}

// PanelPath は n 番目のパネル画像のパスを返します。
func PanelPath(comicDir string, n int) (string, error) {
	basePath, err := urlpath.ResolveOutputPath(comicDir, DefaultPanelFileName)
	if err != nil {
		return "", fmt.Errorf("出力パスの解決に失敗しました: %w", err)
	}
	panelPath, err := urlpath.GenerateIndexedPath(basePath, n)
	if err != nil {
		return "", fmt.Errorf("パネル %d の出力パス生成に失敗しました: %w", n, err)
	}
	return panelPath, nil
}

// ComicPath は最終画像のパスを返します。
func ComicPath(comicDir string) (string, error) {
	return urlpath.ResolveOutputPath(comicDir, DefaultComicFileName)
}

// ScriptPath は台本 JSON のパスを返します。
func ScriptPath(comicDir string) (string, error) {
	return urlpath.ResolveOutputPath(comicDir, DefaultScriptFileName)
}

// PublicURL はコミックID配下のファイルを配信する URL パスを返します。
func PublicURL(comicID, fileName string) string {
	return path.Join(PublicPrefix, comicID, fileName)
}

// NewComicID は新しいコミックIDを発行します。
func NewComicID() string {
	return uuid.NewString()
}

// ValidateComicID は ID が UUID 形式であることを確認します。
func ValidateComicID(comicID string) error {
	if _, err := uuid.Parse(comicID); err != nil {
		return fmt.Errorf("不正なコミックIDです (%q): %w", comicID, err)
	}
	if strings.ContainsAny(comicID, `/\`) {
		return fmt.Errorf("不正なコミックIDです (%q)", comicID)
	}
	return nil
}

// CollectPanels は comicDir に保存済みのパネル画像を台本の各コマに対応付けます。
// 画像が見つからないコマは ImagePath が空のまま返ります。
func CollectPanels(comicDir string, script *domain.Script) ([]domain.RenderedPanel, error) {
	entries, err := os.ReadDir(comicDir)
	if err != nil {
		return nil, fmt.Errorf("コミックディレクトリを読み込めませんでした (%s): %w", comicDir, err)
	}
	found := make(map[string]struct{})
	for _, e := range entries {
		if !e.IsDir() && PanelFileRegex.MatchString(e.Name()) {
			found[e.Name()] = struct{}{}
		}
	}

	panels := make([]domain.RenderedPanel, 0, len(script.Panels))
	for _, p := range script.Panels {
		rp := domain.RenderedPanel{PanelNumber: p.PanelNumber, Dialogue: p.Dialogue, Scene: p.Scene}
		panelPath, err := PanelPath(comicDir, p.PanelNumber)
		if err != nil {
			return nil, err
		}
		if _, ok := found[filepath.Base(panelPath)]; ok {
			rp.ImagePath = panelPath
		}
		panels = append(panels, rp)
	}
	return panels, nil
}

// createIndexedRegex は、ファイル名に基づきインデックス付きファイル用の正規表現を生成します。
// 例: "panel.png" -> ^panel_\d+\.png$
func createIndexedRegex(fileName string) *regexp.Regexp {
	ext := filepath.Ext(fileName)
	baseName := strings.TrimSuffix(fileName, ext)

	pattern := fmt.Sprintf(`^%s_\d+%s$`, regexp.QuoteMeta(baseName), regexp.QuoteMeta(ext))
	return regexp.MustCompile(pattern)
}
