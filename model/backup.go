package model

import (
	"fmt"
	"time"
)

// BackupVersion is the format version written by Export.
const BackupVersion = "2.0"

// Backup is the snapshot format used for export and import. Care logs are
// not part of it.
type Backup struct {
	ExportDate string     `json:"exportDate"`
	Version    string     `json:"version"`
	Data       BackupData `json:"data"`
}

// BackupData holds the exported collections. Plants is nil when the key was
// missing (or null) in a decoded document.
type BackupData struct {
	Plants      []*Plant      `json:"plants"`
	Fertilizers []*Fertilizer `json:"fertilizers"`
}

// NewBackup creates a backup of the given collections dated now.
func NewBackup(plants []*Plant, fertilizers []*Fertilizer, now time.Time) *Backup {
	if plants == nil {
		plants = []*Plant{}
	}
	if fertilizers == nil {
		fertilizers = []*Fertilizer{}
	}
	return &Backup{
		ExportDate: FormatDate(now),
		Version:    BackupVersion,
		Data: BackupData{
			Plants:      plants,
			Fertilizers: fertilizers,
		},
	}
}

// FileName returns the download name of the backup.
func (b *Backup) FileName() string {
	return fmt.Sprintf("plant-care-backup-%s.json", b.ExportDate)
}

// Validate checks the structure of a decoded backup and normalises legacy
// labels in place.
func (b *Backup) Validate() error {
	if b.Data.Plants == nil {
		return NewValidationError("backup has no data.plants")
	}
	for i, p := range b.Data.Plants {
		if p == nil {
			return NewValidationError(fmt.Sprintf("data.plants[%d] is null", i))
		}
		if err := p.Normalize(); err != nil {
			return NewValidationError(fmt.Sprintf("data.plants[%d]: %v", i, err))
		}
		if err := p.Validate(); err != nil {
			return NewValidationError(fmt.Sprintf("data.plants[%d]: %v", i, err))
		}
	}
	for i, f := range b.Data.Fertilizers {
		if f == nil {
			return NewValidationError(fmt.Sprintf("data.fertilizers[%d] is null", i))
		}
		if err := f.Normalize(); err != nil {
			return NewValidationError(fmt.Sprintf("data.fertilizers[%d]: %v", i, err))
		}
		if err := f.Validate(); err != nil {
			return NewValidationError(fmt.Sprintf("data.fertilizers[%d]: %v", i, err))
		}
	}
	return nil
}

// ImportResult reports how many rows a backup import wrote or skipped.
type ImportResult struct {
	Policy              ConflictPolicy `json:"policy"`
	PlantsImported      int            `json:"plantsImported"`
	PlantsSkipped       int            `json:"plantsSkipped"`
	FertilizersImported int            `json:"fertilizersImported"`
	FertilizersSkipped  int            `json:"fertilizersSkipped"`
}
