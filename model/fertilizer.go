// Package model は、アプリケーションのデータモデル定義を提供します。
package model

import "time"

// Fertilizer は肥料エンティティを表すモデルです。
// 植物とは外部キーで関連付けられません。
type Fertilizer struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Type      FertilizerType `json:"type"`
	CreatedAt string         `json:"createdAt"`
}

// NewFertilizer は新しいFertilizerインスタンスを作成します。
func NewFertilizer(id, name string, fertilizerType FertilizerType, today time.Time) (*Fertilizer, error) {
	f := &Fertilizer{
		ID:        id,
		Name:      name,
		Type:      fertilizerType,
		CreatedAt: FormatDate(today),
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Normalize は旧形式のラベルを正規の値に変換します。
func (f *Fertilizer) Normalize() error {
	t, err := ParseFertilizerType(string(f.Type))
	if err != nil {
		return NewValidationError(err.Error())
	}
	f.Type = t
	return nil
}

// Validate は肥料のデータバリデーションを行います。
func (f *Fertilizer) Validate() error {
	switch {
	case f.ID == "":
		return NewValidationError("id is required")
	case f.Name == "":
		return NewValidationError("name is required")
	case f.Type == "":
		return NewValidationError("type is required")
	case f.CreatedAt == "":
		return NewValidationError("createdAt is required")
	}
	if _, err := ParseFertilizerType(string(f.Type)); err != nil {
		return NewValidationError(err.Error())
	}
	if _, err := ParseDate(f.CreatedAt); err != nil {
		return NewValidationError("invalid createdAt: use YYYY-MM-DD or RFC3339")
	}
	return nil
}
