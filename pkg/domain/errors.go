package domain

import (
	"errors"
	"fmt"
)

// ErrorCode はパイプラインの失敗種別を表す機械可読なコードです。
type ErrorCode string

const (
	// CodeArticleUnavailable は記事本文もタイトル/概要も得られなかったことを示します（終端）。
	CodeArticleUnavailable ErrorCode = "article_unavailable"
	// CodeScriptGeneration はテキスト生成モデルの呼び出し失敗です（終端）。
	CodeScriptGeneration ErrorCode = "script_generation"
	// CodeScriptParse は台本がパネル列として解釈できなかったことを示します（終端）。
	CodeScriptParse ErrorCode = "script_parse"
	// CodeImageRender はパネル単位の画像生成失敗です（プレースホルダーで回復可能）。
	CodeImageRender ErrorCode = "image_render"
	// CodeAssembly は最終画像を組み立てられなかったことを示します（終端）。
	CodeAssembly ErrorCode = "assembly"
	// CodeImageLoad はパネル画像の読み込み失敗です（そのパネルのみスキップ）。
	CodeImageLoad ErrorCode = "image_load"
	// CodeInvalidImage は描画対象の画像が nil であることを示します。
	CodeInvalidImage ErrorCode = "invalid_image"
)

// errors.Is で比較するための番兵エラーです。比較はコードのみで行います。
var (
	ErrArticleUnavailable = &Error{Code: CodeArticleUnavailable}
	ErrScriptGeneration   = &Error{Code: CodeScriptGeneration}
	ErrScriptParse        = &Error{Code: CodeScriptParse}
	ErrImageRender        = &Error{Code: CodeImageRender}
	ErrAssembly           = &Error{Code: CodeAssembly}
	ErrImageLoad          = &Error{Code: CodeImageLoad}
	ErrInvalidImage       = &Error{Code: CodeInvalidImage}
)

// Error はコードと原因を保持する構造化エラーです。
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	if e.Message == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is は同じコードを持つ *Error と一致します。
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewError はコードと書式付きメッセージから Error を生成します。
func NewError(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapError は既存のエラーを原因として保持した Error を生成します。
func WrapError(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// IsCode はエラーチェーン中に指定コードの *Error が含まれるかを判定します。
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

// CodeOf はエラーチェーンから最初に見つかった *Error のコードを返します。
// 見つからない場合は空文字列です。
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// MessageOf は利用者向けのメッセージを返します。*Error でない場合は err.Error() です。
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return err.Error()
}
