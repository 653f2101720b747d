package domain

import (
	"crypto/sha256"
	"encoding/binary"
)

// SeedFromName は名前から決定論的なシード値を生成します。
// 同じ登場人物には同じシードを渡し、コマ間の見た目をできるだけ揃えます。
func SeedFromName(name string) int64 {
	hash := sha256.Sum256([]byte(name))
	seed := int32(binary.BigEndian.Uint32(hash[:4]))
	// 正の値だけを使うのだ
	return int64(seed & 0x7FFFFFFF)
}

// PrimaryCharacter はパネルの先頭の登場人物名を返します。居なければ空文字列です。
func (p Panel) PrimaryCharacter() string {
	for _, name := range p.Characters {
		if name != "" {
			return name
		}
	}
	return ""
}
