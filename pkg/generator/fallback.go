package generator

import (
	"context"
	"errors"
	"fmt"
)

// Provider は TryInOrder で評価される候補のひとつです。
type Provider[T any] struct {
	Name string
	Run  func(ctx context.Context) (T, error)
}

// TryInOrder は providers を順に評価し、最初に成功した結果とその名前を返します。
// すべて失敗した場合は各候補のエラーをまとめて返します。
// コンテキストが終了した時点で残りの候補は評価しません。
func TryInOrder[T any](ctx context.Context, providers ...Provider[T]) (T, string, error) {
	var (
		zero T
		errs []error
	)
	for _, p := range providers {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		result, err := p.Run(ctx)
		if err == nil {
			return result, p.Name, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", p.Name, err))
	}
	if len(errs) == 0 {
		return zero, "", errors.New("候補が1つもありません")
	}
	return zero, "", errors.Join(errs...)
}
