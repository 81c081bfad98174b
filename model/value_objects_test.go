package model

import (
	"testing"
	"time"
)

func TestParsePlantType(t *testing.T) {
	tests := []struct {
		input   string
		want    PlantType
		wantErr bool
	}{
		{"winter-growing", PlantTypeWinter, false},
		{"summer-growing", PlantTypeSummer, false},
		{"intermediate", PlantTypeIntermediate, false},
		{"冬型种", PlantTypeWinter, false},
		{"夏型种", PlantTypeSummer, false},
		{"中间型", PlantTypeIntermediate, false},
		{" Winter ", PlantTypeWinter, false},
		{"", "", true},
		{"cactus", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePlantType(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error for %q, got nil", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestParseFertilizerType(t *testing.T) {
	for input, want := range map[string]FertilizerType{
		"growth-promoting":    FertilizerTypeGrowth,
		"flowering-promoting": FertilizerTypeFlowering,
		"general-purpose":     FertilizerTypeGeneral,
		" General ":           FertilizerTypeGeneral,
		"growth":              FertilizerTypeGrowth,
		"促生长":                 FertilizerTypeGrowth,
		"flowering":           FertilizerTypeFlowering,
		"促花":                  FertilizerTypeFlowering,
		"general":             FertilizerTypeGeneral,
		"通用":                  FertilizerTypeGeneral,
	} {
		got, err := ParseFertilizerType(input)
		if err != nil {
			t.Errorf("ParseFertilizerType(%q) returned error: %v", input, err)
			continue
		}
		if got != want {
			t.Errorf("ParseFertilizerType(%q) = %q, want %q", input, got, want)
		}
	}

	if _, err := ParseFertilizerType("compost"); err == nil {
		t.Error("Expected error for unknown fertilizer type")
	}
}

func TestFertilizerTypeCanonicalNames(t *testing.T) {
	for _, want := range []string{"growth-promoting", "flowering-promoting", "general-purpose"} {
		got, err := ParseFertilizerType(want)
		if err != nil {
			t.Fatalf("ParseFertilizerType(%q) returned error: %v", want, err)
		}
		if string(got) != want {
			t.Errorf("Expected canonical name %q to be kept, got %q", want, got)
		}
	}
}

func TestParseCareAction(t *testing.T) {
	for input, want := range map[string]CareAction{
		"watering":    ActionWatering,
		"浇水":          ActionWatering,
		"fertilizing": ActionFertilizing,
		"施肥":          ActionFertilizing,
	} {
		got, err := ParseCareAction(input)
		if err != nil {
			t.Errorf("ParseCareAction(%q) returned error: %v", input, err)
			continue
		}
		if got != want {
			t.Errorf("ParseCareAction(%q) = %q, want %q", input, got, want)
		}
	}

	if _, err := ParseCareAction("pruning"); err == nil {
		t.Error("Expected error for unknown action")
	}
}

func TestParseDate(t *testing.T) {
	// 日付のみ
	d, err := ParseDate("2025-03-04")
	if err != nil {
		t.Fatalf("Failed to parse date-only string: %v", err)
	}
	if !d.Equal(time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected date: %v", d)
	}

	// RFC3339
	d, err = ParseDate("2025-03-04T10:30:00+09:00")
	if err != nil {
		t.Fatalf("Failed to parse RFC3339 string: %v", err)
	}
	if got := FormatDate(d); got != "2025-03-04" {
		t.Errorf("Expected UTC date 2025-03-04, got %s", got)
	}

	// 不正な形式
	for _, s := range []string{"", "yesterday", "2025/03/04", "2025-13-01"} {
		if _, err := ParseDate(s); err == nil {
			t.Errorf("Expected error for %q", s)
		}
	}
}

func TestNewConflictPolicy(t *testing.T) {
	p, err := NewConflictPolicy("")
	if err != nil || p != ConflictSkip {
		t.Errorf("Expected default policy skip, got %q (err=%v)", p, err)
	}
	p, err = NewConflictPolicy("REPLACE")
	if err != nil || p != ConflictReplace {
		t.Errorf("Expected replace, got %q (err=%v)", p, err)
	}
	if _, err := NewConflictPolicy("merge"); err == nil {
		t.Error("Expected error for unknown policy")
	}
}

func TestNewID(t *testing.T) {
	id, err := NewID("  abc ")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if id.String() != "abc" {
		t.Errorf("Expected trimmed id, got %q", id.String())
	}
	if _, err := NewID(" "); err == nil {
		t.Error("Expected error for blank id")
	}
}
