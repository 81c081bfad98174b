// Package reminder は毎日決まった時刻に世話が必要な植物を通知します。
package reminder

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/stsysd/plantcare/care"
	"github.com/stsysd/plantcare/model"
)

// PlantLister は植物の一覧を返します。store.PlantStore が満たします。
type PlantLister interface {
	ListPlants(ctx context.Context) ([]*model.Plant, error)
}

// Job は一回分のリマインダー処理です。
type Job struct {
	plants   PlantLister
	notifier Notifier
	logger   *log.Logger
	now      func() time.Time
}

// NewJob はリマインダー処理を作成します。
func NewJob(plants PlantLister, notifier Notifier, logger *log.Logger) *Job {
	return &Job{
		plants:   plants,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Run は今日のやることリストを作って通知します。
// 世話が必要な植物がなければ何も送りません。
func (j *Job) Run(ctx context.Context) error {
	plants, err := j.plants.ListPlants(ctx)
	if err != nil {
		return fmt.Errorf("list plants: %w", err)
	}

	report, skipped := care.BuildReport(plants, j.now())
	for _, err := range skipped {
		j.logger.Printf("Warning: skipping plant: %v", err)
	}

	text := report.Todo.Summary()
	if text == "" {
		return nil
	}
	return j.notifier.Notify(ctx, text)
}

// Scheduler はJobを毎日UTCの指定時刻に実行します。
type Scheduler struct {
	cron    *cron.Cron
	job     *Job
	timeout time.Duration
}

// NewScheduler は HH:MM 形式の時刻でJobを登録します。
func NewScheduler(clock string, job *Job) (*Scheduler, error) {
	at, err := ParseClock(clock)
	if err != nil {
		return nil, err
	}

	s := &Scheduler{
		cron:    cron.New(cron.WithLocation(time.UTC), cron.WithSeconds()),
		job:     job,
		timeout: time.Minute,
	}
	if _, err := s.cron.AddFunc(at.Spec(), s.run); err != nil {
		return nil, fmt.Errorf("schedule reminder at %s: %w", at, err)
	}
	return s, nil
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.job.Run(ctx); err != nil {
		s.job.logger.Printf("Error sending reminder: %v", err)
	}
}

// Next は次回の実行時刻を返します。
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop は実行中のJobの終了を待ってから戻ります。
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// Clock は毎日の通知時刻（UTC）です。
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock は "HH:MM" 形式の時刻を読み取ります。時は1桁でも構いません。
func ParseClock(s string) (Clock, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return Clock{}, fmt.Errorf("invalid reminder time %q, expected HH:MM", s)
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// Spec は robfig/cron の秒付き式を返します。
func (c Clock) Spec() string {
	return fmt.Sprintf("0 %d %d * * *", c.Minute, c.Hour)
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}
