package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/stsysd/plantcare/model"
)

// ErrInvalidBackup is returned by Import when the document is not a backup.
var ErrInvalidBackup = errors.New("invalid backup file")

// Export writes the local plants and fertilizers as an indented backup
// document dated now. Care logs are not exported.
func (s *Synchronizer) Export(w io.Writer, now time.Time) (*model.Backup, error) {
	backup := model.NewBackup(s.Plants(), s.Fertilizers(), now)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(backup); err != nil {
		return nil, fmt.Errorf("failed to write backup: %w", err)
	}
	return backup, nil
}

// BackupFileName returns the suggested file name of a backup taken at now.
func BackupFileName(now time.Time) string {
	return model.NewBackup(nil, nil, now).FileName()
}

// ReadBackup decodes and validates a backup document.
func ReadBackup(r io.Reader) (*model.Backup, error) {
	var backup model.Backup
	if err := json.NewDecoder(r).Decode(&backup); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	if err := backup.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	return &backup, nil
}

// Import sends a backup to the server in one request and reloads plants and
// fertilizers. Care logs are neither imported nor reloaded.
func (s *Synchronizer) Import(ctx context.Context, r io.Reader, policy model.ConflictPolicy) (*model.ImportResult, error) {
	backup, err := ReadBackup(r)
	if err != nil {
		return nil, err
	}

	result, err := s.api.ImportBackup(ctx, backup, policy)
	if err != nil {
		return nil, err
	}
	return result, s.refresh(ctx, model.CollectionPlants, model.CollectionFertilizers)
}
