// Package model は、アプリケーションのデータモデル定義を提供します。
package model

import "errors"

// センチネルエラー
var (
	// ErrPlantNotFound は指定された植物が存在しない場合のエラーです。
	ErrPlantNotFound = errors.New("plant not found")
	// ErrConflict はインポート時に既存のIDと衝突した場合のエラーです。
	ErrConflict = errors.New("conflicting identifier")
)

// ValidationError はバリデーションエラーを表す型
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError はValidationErrorを生成するヘルパー関数
func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}
