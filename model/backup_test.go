package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNewBackup(t *testing.T) {
	now := time.Date(2025, 6, 1, 23, 0, 0, 0, time.UTC)
	b := NewBackup(nil, nil, now)

	if b.Version != "2.0" {
		t.Errorf("Expected version 2.0, got %s", b.Version)
	}
	if b.ExportDate != "2025-06-01" {
		t.Errorf("Expected export date 2025-06-01, got %s", b.ExportDate)
	}
	if b.FileName() != "plant-care-backup-2025-06-01.json" {
		t.Errorf("Unexpected file name %s", b.FileName())
	}

	// 空のコレクションは null ではなく [] として出力される
	raw, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("Failed to marshal backup: %v", err)
	}
	want := `{"exportDate":"2025-06-01","version":"2.0","data":{"plants":[],"fertilizers":[]}}`
	if string(raw) != want {
		t.Errorf("Expected %s, got %s", want, raw)
	}
}

func TestBackupValidate(t *testing.T) {
	var missing Backup
	if err := json.Unmarshal([]byte(`{"exportDate":"2025-01-01","version":"2.0","data":{}}`), &missing); err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	if err := missing.Validate(); err == nil {
		t.Error("Expected error when data.plants is missing")
	}

	// 旧形式のラベルを含むバックアップ
	legacy := `{
		"exportDate": "2025-01-01",
		"version": "2.0",
		"data": {
			"plants": [{"id":"1","name":"Aloe","type":"中间型","waterCycle":7,"fertilizerCycle":14,
				"lastWatered":"2025-01-01","lastFertilized":"2025-01-01","status":"生长期","createdAt":"2025-01-01"}]
		}
	}`
	var b Backup
	if err := json.Unmarshal([]byte(legacy), &b); err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	if err := b.Validate(); err != nil {
		t.Fatalf("Expected legacy backup to validate, got %v", err)
	}
	if b.Data.Plants[0].Type != PlantTypeIntermediate {
		t.Errorf("Expected normalized type, got %s", b.Data.Plants[0].Type)
	}
	if b.Data.Fertilizers != nil {
		t.Error("Expected missing fertilizers to stay nil")
	}
}
