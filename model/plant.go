// Package model は、アプリケーションのデータモデル定義を提供します。
package model

import (
	"fmt"
	"time"
)

// DefaultPlantStatus は新しい植物の生育状態です。
const DefaultPlantStatus = "growing"

// Plant は植物エンティティを表すモデルです。
type Plant struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Type            PlantType `json:"type"`
	WaterCycle      int       `json:"waterCycle"`      // 水やり周期（日）
	FertilizerCycle int       `json:"fertilizerCycle"` // 施肥周期（日）
	LastWatered     string    `json:"lastWatered"`     // 最終水やり日
	LastFertilized  string    `json:"lastFertilized"`  // 最終施肥日
	Status          string    `json:"status"`          // 生育状態（自由記述）
	CreatedAt       string    `json:"createdAt"`
}

// NewPlant は新しいPlantインスタンスを作成します。
// 最終水やり日・最終施肥日・作成日にはいずれも today の日付が入ります。
func NewPlant(id, name string, plantType PlantType, waterCycle, fertilizerCycle int, today time.Time) (*Plant, error) {
	date := FormatDate(today)
	p := &Plant{
		ID:              id,
		Name:            name,
		Type:            plantType,
		WaterCycle:      waterCycle,
		FertilizerCycle: fertilizerCycle,
		LastWatered:     date,
		LastFertilized:  date,
		Status:          DefaultPlantStatus,
		CreatedAt:       date,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Normalize は旧形式のラベルを正規の値に変換します。
func (p *Plant) Normalize() error {
	t, err := ParsePlantType(string(p.Type))
	if err != nil {
		return NewValidationError(err.Error())
	}
	p.Type = t
	return nil
}

// Validate は植物のデータバリデーションを行います。
func (p *Plant) Validate() error {
	switch {
	case p.ID == "":
		return NewValidationError("id is required")
	case p.Name == "":
		return NewValidationError("name is required")
	case p.Type == "":
		return NewValidationError("type is required")
	case p.Status == "":
		return NewValidationError("status is required")
	case p.CreatedAt == "":
		return NewValidationError("createdAt is required")
	case p.LastWatered == "":
		return NewValidationError("lastWatered is required")
	case p.LastFertilized == "":
		return NewValidationError("lastFertilized is required")
	}
	if _, err := ParsePlantType(string(p.Type)); err != nil {
		return NewValidationError(err.Error())
	}
	if p.WaterCycle <= 0 {
		return NewValidationError("waterCycle must be a positive integer")
	}
	if p.FertilizerCycle <= 0 {
		return NewValidationError("fertilizerCycle must be a positive integer")
	}
	dates := []struct{ field, value string }{
		{"lastWatered", p.LastWatered},
		{"lastFertilized", p.LastFertilized},
		{"createdAt", p.CreatedAt},
	}
	for _, d := range dates {
		if _, err := ParseDate(d.value); err != nil {
			return NewValidationError(fmt.Sprintf("invalid %s: use YYYY-MM-DD or RFC3339", d.field))
		}
	}
	return nil
}

// PlantCareUpdate は植物の最終水やり日・最終施肥日の部分更新です。
// nil のフィールドは更新されません。
type PlantCareUpdate struct {
	ID             string
	LastWatered    *string
	LastFertilized *string
}

// Validate は部分更新のバリデーションを行います。
func (u *PlantCareUpdate) Validate() error {
	if u.ID == "" {
		return NewValidationError("id is required")
	}
	if u.LastWatered == nil && u.LastFertilized == nil {
		return NewValidationError("lastWatered or lastFertilized is required")
	}
	if u.LastWatered != nil {
		if _, err := ParseDate(*u.LastWatered); err != nil {
			return NewValidationError("invalid lastWatered: use YYYY-MM-DD or RFC3339")
		}
	}
	if u.LastFertilized != nil {
		if _, err := ParseDate(*u.LastFertilized); err != nil {
			return NewValidationError("invalid lastFertilized: use YYYY-MM-DD or RFC3339")
		}
	}
	return nil
}
