// Package model provides value objects for API parameter validation.
package model

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar date format used for care dates.
const DateLayout = "2006-01-02"

// PlantType is the growing season classification of a plant.
type PlantType string

const (
	PlantTypeWinter       PlantType = "winter-growing"
	PlantTypeSummer       PlantType = "summer-growing"
	PlantTypeIntermediate PlantType = "intermediate"
)

// plantTypeAliases maps labels written by older backups onto canonical types.
var plantTypeAliases = map[string]PlantType{
	"winter":       PlantTypeWinter,
	"冬型种":          PlantTypeWinter,
	"summer":       PlantTypeSummer,
	"夏型种":          PlantTypeSummer,
	"中间型":          PlantTypeIntermediate,
	"intermediate": PlantTypeIntermediate,
}

// ParsePlantType parses a plant type, accepting legacy labels.
func ParsePlantType(s string) (PlantType, error) {
	s = strings.TrimSpace(s)
	switch PlantType(s) {
	case PlantTypeWinter, PlantTypeSummer, PlantTypeIntermediate:
		return PlantType(s), nil
	}
	if t, ok := plantTypeAliases[strings.ToLower(s)]; ok {
		return t, nil
	}
	return "", fmt.Errorf("invalid plant type %q", s)
}

// FertilizerType is the purpose of a fertilizer.
type FertilizerType string

const (
	FertilizerTypeGrowth    FertilizerType = "growth-promoting"
	FertilizerTypeFlowering FertilizerType = "flowering-promoting"
	FertilizerTypeGeneral   FertilizerType = "general-purpose"
)

// 短縮名と旧ラベル
var fertilizerTypeAliases = map[string]FertilizerType{
	"growth":    FertilizerTypeGrowth,
	"促生长":       FertilizerTypeGrowth,
	"flowering": FertilizerTypeFlowering,
	"促花":        FertilizerTypeFlowering,
	"general":   FertilizerTypeGeneral,
	"通用":        FertilizerTypeGeneral,
}

// ParseFertilizerType parses a fertilizer type, accepting legacy labels.
func ParseFertilizerType(s string) (FertilizerType, error) {
	s = strings.TrimSpace(s)
	switch FertilizerType(s) {
	case FertilizerTypeGrowth, FertilizerTypeFlowering, FertilizerTypeGeneral:
		return FertilizerType(s), nil
	}
	if t, ok := fertilizerTypeAliases[strings.ToLower(s)]; ok {
		return t, nil
	}
	return "", fmt.Errorf("invalid fertilizer type %q", s)
}

// CareAction is a single kind of care event.
type CareAction string

const (
	ActionWatering    CareAction = "watering"
	ActionFertilizing CareAction = "fertilizing"
)

// ParseCareAction parses a care action, accepting legacy labels.
func ParseCareAction(s string) (CareAction, error) {
	switch strings.TrimSpace(s) {
	case string(ActionWatering), "water", "浇水":
		return ActionWatering, nil
	case string(ActionFertilizing), "fertilize", "施肥":
		return ActionFertilizing, nil
	}
	return "", fmt.Errorf("invalid care action %q", s)
}

// ParseDate parses date string with flexible format support.
func ParseDate(dateStr string) (time.Time, error) {
	// Try RFC3339 format first (with time)
	if t, err := time.Parse(time.RFC3339, dateStr); err == nil {
		return t, nil
	}

	// Try date-only format (YYYY-MM-DD)
	if t, err := time.Parse(DateLayout, dateStr); err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("unable to parse date %q", dateStr)
}

// FormatDate formats t as a UTC calendar date.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// ConflictPolicy decides what a bulk import does with identifiers that
// already exist in the store.
type ConflictPolicy string

const (
	// ConflictSkip keeps the existing row and ignores the imported one.
	ConflictSkip ConflictPolicy = "skip"
	// ConflictReplace overwrites the existing row.
	ConflictReplace ConflictPolicy = "replace"
	// ConflictReject aborts the whole import.
	ConflictReject ConflictPolicy = "reject"
)

// NewConflictPolicy creates a conflict policy value object.
func NewConflictPolicy(s string) (ConflictPolicy, error) {
	if s == "" {
		return ConflictSkip, nil
	}
	switch p := ConflictPolicy(strings.ToLower(s)); p {
	case ConflictSkip, ConflictReplace, ConflictReject:
		return p, nil
	}
	return "", fmt.Errorf("invalid conflict policy %q: use skip, replace or reject", s)
}

// ID represents a required identifier value object.
type ID struct {
	value string
}

// NewID creates a new identifier value object.
func NewID(idStr string) (*ID, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return nil, fmt.Errorf("id is required")
	}
	return &ID{value: idStr}, nil
}

// String returns the identifier string.
func (i *ID) String() string {
	return i.value
}
