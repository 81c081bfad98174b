package client

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/stsysd/plantcare/care"
	"github.com/stsysd/plantcare/model"
)

// Synchronizer keeps in-memory copies of the plants, fertilizers and care
// logs held by the server. Every mutation is sent to the server first and the
// affected collections are refetched afterwards, so the local copy never
// holds data the server rejected.
type Synchronizer struct {
	api *Client

	mu          sync.RWMutex
	plants      []*model.Plant
	fertilizers []*model.Fertilizer
	logs        []*model.CareLog
	ready       bool

	now   func() time.Time
	newID func() string
}

// NewSynchronizer returns an empty, not yet ready synchronizer.
func NewSynchronizer(api *Client) *Synchronizer {
	return &Synchronizer{
		api:         api,
		plants:      []*model.Plant{},
		fertilizers: []*model.Fertilizer{},
		logs:        []*model.CareLog{},
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// Load fetches all three collections in parallel. The synchronizer becomes
// ready once every fetch has finished, whether it succeeded or not:
// collections that loaded are swapped in, failed ones keep their previous
// snapshot, and the failures are returned joined.
func (s *Synchronizer) Load(ctx context.Context) error {
	err := s.refresh(ctx, model.CollectionPlants, model.CollectionFertilizers, model.CollectionLogs)
	s.mu.Lock()
	s.ready = true
	s.mu.Unlock()
	return err
}

// refresh refetches the named collections in parallel. Each fetch is
// independent: a failure neither cancels the others nor keeps their results
// from being swapped in.
func (s *Synchronizer) refresh(ctx context.Context, collections ...model.Collection) error {
	for _, c := range collections {
		switch c {
		case model.CollectionPlants, model.CollectionFertilizers, model.CollectionLogs:
		default:
			return fmt.Errorf("unknown collection %q", c)
		}
	}

	var (
		g           errgroup.Group
		errs        = make([]error, len(collections))
		plants      []*model.Plant
		fertilizers []*model.Fertilizer
		logs        []*model.CareLog
	)
	for i, c := range collections {
		g.Go(func() error {
			var err error
			switch c {
			case model.CollectionPlants:
				plants, err = s.api.ListPlants(ctx)
			case model.CollectionFertilizers:
				fertilizers, err = s.api.ListFertilizers(ctx)
			case model.CollectionLogs:
				logs, err = s.api.ListCareLogs(ctx)
			}
			if err != nil {
				errs[i] = fmt.Errorf("load %s: %w", c, err)
			}
			return nil
		})
	}
	g.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range collections {
		if errs[i] != nil {
			continue
		}
		switch c {
		case model.CollectionPlants:
			s.plants = nonNil(plants)
		case model.CollectionFertilizers:
			s.fertilizers = nonNil(fertilizers)
		case model.CollectionLogs:
			s.logs = nonNil(logs)
		}
	}
	return errors.Join(errs...)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Ready reports whether the initial Load completed.
func (s *Synchronizer) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Plants returns a snapshot of the local plants, newest first.
func (s *Synchronizer) Plants() []*model.Plant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.plants)
}

// Fertilizers returns a snapshot of the local fertilizers.
func (s *Synchronizer) Fertilizers() []*model.Fertilizer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.fertilizers)
}

// Logs returns a snapshot of the local care logs.
func (s *Synchronizer) Logs() []*model.CareLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.logs)
}

// Plant returns the local plant with the given id.
func (s *Synchronizer) Plant(id string) (*model.Plant, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.plants {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// AddPlant creates a plant with a fresh id. Both last-care dates and the
// creation date are set to today's UTC date.
func (s *Synchronizer) AddPlant(ctx context.Context, name string, plantType model.PlantType, waterCycle, fertilizerCycle int) (*model.Plant, error) {
	plant, err := model.NewPlant(s.newID(), name, plantType, waterCycle, fertilizerCycle, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.api.CreatePlant(ctx, plant); err != nil {
		return nil, err
	}
	return plant, s.refresh(ctx, model.CollectionPlants)
}

// AddFertilizer creates a fertilizer with a fresh id.
func (s *Synchronizer) AddFertilizer(ctx context.Context, name string, fertilizerType model.FertilizerType) (*model.Fertilizer, error) {
	fertilizer, err := model.NewFertilizer(s.newID(), name, fertilizerType, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.api.CreateFertilizer(ctx, fertilizer); err != nil {
		return nil, err
	}
	return fertilizer, s.refresh(ctx, model.CollectionFertilizers)
}

// Water records a watering. date may be empty for today.
func (s *Synchronizer) Water(ctx context.Context, plantID, date string) (*model.CareLog, error) {
	return s.recordCare(ctx, plantID, model.ActionWatering, date)
}

// Fertilize records a fertilizing. date may be empty for today.
func (s *Synchronizer) Fertilize(ctx context.Context, plantID, date string) (*model.CareLog, error) {
	return s.recordCare(ctx, plantID, model.ActionFertilizing, date)
}

func (s *Synchronizer) recordCare(ctx context.Context, plantID string, action model.CareAction, date string) (*model.CareLog, error) {
	if date == "" {
		date = model.FormatDate(s.now())
	}
	careLog, err := s.api.RecordCare(ctx, plantID, action, date)
	if err != nil {
		return nil, err
	}
	return careLog, s.refresh(ctx, model.CollectionPlants, model.CollectionLogs)
}

// DeletePlant removes a plant. Its care logs are kept.
func (s *Synchronizer) DeletePlant(ctx context.Context, id string) error {
	if err := s.api.DeletePlant(ctx, id); err != nil {
		return err
	}
	return s.refresh(ctx, model.CollectionPlants)
}

// DeleteFertilizer removes a fertilizer.
func (s *Synchronizer) DeleteFertilizer(ctx context.Context, id string) error {
	if err := s.api.DeleteFertilizer(ctx, id); err != nil {
		return err
	}
	return s.refresh(ctx, model.CollectionFertilizers)
}

// Due evaluates the local plants at now. Plants with unparseable dates are
// skipped and returned as errors.
func (s *Synchronizer) Due(now time.Time) (*care.Report, []error) {
	return care.BuildReport(s.Plants(), now)
}

// Watch subscribes to the server's event stream and refetches the collection
// named in each change event. It blocks until ctx is cancelled.
func (s *Synchronizer) Watch(ctx context.Context) error {
	return s.api.Subscribe(ctx, func(ev model.ChangeEvent) {
		if ev.Type != model.EventChanged {
			return
		}
		if err := s.refresh(ctx, ev.Collection); err != nil && ctx.Err() == nil {
			log.Printf("Error refreshing %s: %v", ev.Collection, err)
		}
	})
}
