package model

import (
	"errors"
	"testing"
	"time"
)

func validPlant() *Plant {
	return &Plant{
		ID:              "p1",
		Name:            "Aloe",
		Type:            PlantTypeSummer,
		WaterCycle:      7,
		FertilizerCycle: 14,
		LastWatered:     "2025-05-01",
		LastFertilized:  "2025-05-01",
		Status:          DefaultPlantStatus,
		CreatedAt:       "2025-05-01",
	}
}

func TestNewPlant(t *testing.T) {
	today := time.Date(2025, 5, 21, 14, 30, 0, 0, time.UTC)

	plant, err := NewPlant("p1", "Aloe", PlantTypeSummer, 7, 14, today)
	if err != nil {
		t.Fatalf("Failed to create plant: %v", err)
	}

	// 作成日が最終水やり日・最終施肥日に設定されることを確認
	if plant.LastWatered != "2025-05-21" {
		t.Errorf("Expected LastWatered to be 2025-05-21, got %s", plant.LastWatered)
	}
	if plant.LastFertilized != "2025-05-21" {
		t.Errorf("Expected LastFertilized to be 2025-05-21, got %s", plant.LastFertilized)
	}
	if plant.CreatedAt != "2025-05-21" {
		t.Errorf("Expected CreatedAt to be 2025-05-21, got %s", plant.CreatedAt)
	}
	if plant.Status != DefaultPlantStatus {
		t.Errorf("Expected default status, got %s", plant.Status)
	}
}

func TestNewPlantRejectsInvalidCycle(t *testing.T) {
	today := time.Date(2025, 5, 21, 0, 0, 0, 0, time.UTC)
	if _, err := NewPlant("p1", "Aloe", PlantTypeSummer, 0, 14, today); err == nil {
		t.Error("Expected error for zero water cycle")
	}
	if _, err := NewPlant("p1", "Aloe", PlantTypeSummer, 7, -1, today); err == nil {
		t.Error("Expected error for negative fertilizer cycle")
	}
}

func TestPlantValidate(t *testing.T) {
	if err := validPlant().Validate(); err != nil {
		t.Fatalf("Expected valid plant, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(p *Plant)
	}{
		{"missing id", func(p *Plant) { p.ID = "" }},
		{"missing name", func(p *Plant) { p.Name = "" }},
		{"missing type", func(p *Plant) { p.Type = "" }},
		{"unknown type", func(p *Plant) { p.Type = "cactus" }},
		{"missing status", func(p *Plant) { p.Status = "" }},
		{"missing createdAt", func(p *Plant) { p.CreatedAt = "" }},
		{"missing lastWatered", func(p *Plant) { p.LastWatered = "" }},
		{"bad lastFertilized", func(p *Plant) { p.LastFertilized = "soon" }},
		{"zero water cycle", func(p *Plant) { p.WaterCycle = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPlant()
			tt.mutate(p)
			err := p.Validate()
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Errorf("Expected ValidationError, got %v", err)
			}
		})
	}
}

func TestPlantNormalize(t *testing.T) {
	p := validPlant()
	p.Type = "冬型种"
	if err := p.Normalize(); err != nil {
		t.Fatalf("Failed to normalize: %v", err)
	}
	if p.Type != PlantTypeWinter {
		t.Errorf("Expected %s, got %s", PlantTypeWinter, p.Type)
	}
}

func TestPlantCareUpdateValidate(t *testing.T) {
	date := "2025-05-21"
	bad := "tomorrow"

	if err := (&PlantCareUpdate{ID: "p1", LastWatered: &date}).Validate(); err != nil {
		t.Errorf("Expected valid update, got %v", err)
	}
	if err := (&PlantCareUpdate{LastWatered: &date}).Validate(); err == nil {
		t.Error("Expected error for missing id")
	}
	if err := (&PlantCareUpdate{ID: "p1"}).Validate(); err == nil {
		t.Error("Expected error when no field is present")
	}
	if err := (&PlantCareUpdate{ID: "p1", LastFertilized: &bad}).Validate(); err == nil {
		t.Error("Expected error for unparseable date")
	}
}
