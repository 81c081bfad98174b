// Package care computes whether a plant is due for watering or fertilizing.
//
// All arithmetic uses whole UTC calendar days: both the last-care date and
// "now" are reduced to their UTC date before subtracting, so results depend
// only on the instants passed in and never on the host time zone.
package care

import (
	"fmt"
	"time"

	"github.com/stsysd/plantcare/model"
)

const day = 24 * time.Hour

// Cycle is the evaluation of one care cycle (watering or fertilizing).
type Cycle struct {
	DaysSince    int  `json:"daysSince"`
	DaysUntilDue int  `json:"daysUntilDue"`
	IsDue        bool `json:"isDue"`
}

// utcDate truncates t to midnight of its UTC calendar date.
func utcDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysSince returns the number of whole UTC days from last to now.
// It is negative when last lies after now.
func DaysSince(last, now time.Time) int {
	return int(utcDate(now).Sub(utcDate(last)) / day)
}

// Evaluate computes the cycle state for a care action performed at last
// with the given cycle length in days.
func Evaluate(last time.Time, cycleDays int, now time.Time) Cycle {
	since := DaysSince(last, now)
	return Cycle{
		DaysSince:    since,
		DaysUntilDue: cycleDays - since,
		IsDue:        since >= cycleDays,
	}
}

// IsDue reports whether care performed at last is due at now.
func IsDue(cycleDays int, last, now time.Time) bool {
	return Evaluate(last, cycleDays, now).IsDue
}

// Status is the full care evaluation of a plant.
type Status struct {
	PlantID     string `json:"plantId"`
	PlantName   string `json:"plantName"`
	Watering    Cycle  `json:"watering"`
	Fertilizing Cycle  `json:"fertilizing"`
	Mood        Mood   `json:"mood"`
}

// EvaluatePlant evaluates both care cycles of p at now. It fails when one of
// the stored dates cannot be parsed.
func EvaluatePlant(p *model.Plant, now time.Time) (*Status, error) {
	watered, err := model.ParseDate(p.LastWatered)
	if err != nil {
		return nil, fmt.Errorf("plant %s: lastWatered: %w", p.ID, err)
	}
	fertilized, err := model.ParseDate(p.LastFertilized)
	if err != nil {
		return nil, fmt.Errorf("plant %s: lastFertilized: %w", p.ID, err)
	}

	watering := Evaluate(watered, p.WaterCycle, now)
	return &Status{
		PlantID:     p.ID,
		PlantName:   p.Name,
		Watering:    watering,
		Fertilizing: Evaluate(fertilized, p.FertilizerCycle, now),
		Mood:        MoodFor(watering),
	}, nil
}
