// Package model は、アプリケーションのデータモデル定義を提供します。
package model

import "time"

// CareLogLimit は養護記録一覧で返す最大件数です。
const CareLogLimit = 50

// CareLog は一回の水やり・施肥を表す追記専用の記録です。
type CareLog struct {
	ID        string     `json:"id"`
	PlantID   string     `json:"plantId"`   // 植物IDへの弱参照
	PlantName string     `json:"plantName"` // 記録時点の植物名
	Action    CareAction `json:"action"`
	CreatedAt string     `json:"createdAt"`
}

// NewCareLog は植物に対する新しい養護記録を作成します。
func NewCareLog(id string, plant *Plant, action CareAction, at time.Time) (*CareLog, error) {
	l := &CareLog{
		ID:        id,
		PlantID:   plant.ID,
		PlantName: plant.Name,
		Action:    action,
		CreatedAt: at.UTC().Format(time.RFC3339),
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

// Normalize は旧形式のラベルを正規の値に変換します。
func (l *CareLog) Normalize() error {
	a, err := ParseCareAction(string(l.Action))
	if err != nil {
		return NewValidationError(err.Error())
	}
	l.Action = a
	return nil
}

// Validate は養護記録のデータバリデーションを行います。
func (l *CareLog) Validate() error {
	switch {
	case l.ID == "":
		return NewValidationError("id is required")
	case l.PlantID == "":
		return NewValidationError("plantId is required")
	case l.PlantName == "":
		return NewValidationError("plantName is required")
	case l.Action == "":
		return NewValidationError("action is required")
	case l.CreatedAt == "":
		return NewValidationError("createdAt is required")
	}
	if _, err := ParseCareAction(string(l.Action)); err != nil {
		return NewValidationError(err.Error())
	}
	if _, err := ParseDate(l.CreatedAt); err != nil {
		return NewValidationError("invalid createdAt: use YYYY-MM-DD or RFC3339")
	}
	return nil
}
