package config

import "testing"

func TestConfig_ClampPanels(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name string
		in   int
		want int
	}{
		{name: "0は既定値", in: 0, want: 4},
		{name: "負数も既定値", in: -3, want: 4},
		{name: "範囲内はそのまま", in: 6, want: 6},
		{name: "上限で切る", in: 25, want: 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cfg.ClampPanels(tt.in); got != tt.want {
				t.Errorf("期待値 %d, 実際の値 %d", tt.want, got)
			}
		})
	}

	t.Run("ゼロ値の設定でも正の値を返すのだ", func(t *testing.T) {
		if got := (Config{}).ClampPanels(0); got != DefaultPanelCount {
			t.Errorf("期待値 %d, 実際の値 %d", DefaultPanelCount, got)
		}
	})
}
