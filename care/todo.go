package care

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/stsysd/plantcare/model"
)

// Task is one pending care action for a plant.
type Task struct {
	PlantID   string           `json:"plantId"`
	PlantName string           `json:"plantName"`
	Action    model.CareAction `json:"action"`
	DaysSince int              `json:"daysSince"`
}

// Todo lists the care actions due at a given date.
type Todo struct {
	Date      string `json:"date"`
	Water     []Task `json:"water"`
	Fertilize []Task `json:"fertilize"`
}

// Len returns the total number of pending actions.
func (t *Todo) Len() int {
	return len(t.Water) + len(t.Fertilize)
}

// Report is the evaluation of every plant together with the to-do list.
type Report struct {
	Plants []*Status `json:"plants"`
	Todo   *Todo     `json:"todo"`
}

// BuildReport evaluates plants at now. Plants whose dates cannot be parsed
// are returned in skipped instead of failing the whole report.
func BuildReport(plants []*model.Plant, now time.Time) (report *Report, skipped []error) {
	report = &Report{
		Plants: []*Status{},
		Todo: &Todo{
			Date:      model.FormatDate(now),
			Water:     []Task{},
			Fertilize: []Task{},
		},
	}

	for _, p := range plants {
		st, err := EvaluatePlant(p, now)
		if err != nil {
			skipped = append(skipped, err)
			continue
		}
		report.Plants = append(report.Plants, st)
		if st.Watering.IsDue {
			report.Todo.Water = append(report.Todo.Water, Task{
				PlantID:   p.ID,
				PlantName: p.Name,
				Action:    model.ActionWatering,
				DaysSince: st.Watering.DaysSince,
			})
		}
		if st.Fertilizing.IsDue {
			report.Todo.Fertilize = append(report.Todo.Fertilize, Task{
				PlantID:   p.ID,
				PlantName: p.Name,
				Action:    model.ActionFertilizing,
				DaysSince: st.Fertilizing.DaysSince,
			})
		}
	}

	// longest neglected first
	byNeglect := func(tasks []Task) {
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].DaysSince > tasks[j].DaysSince
		})
	}
	byNeglect(report.Todo.Water)
	byNeglect(report.Todo.Fertilize)

	return report, skipped
}

// Summary renders the to-do list as plain text, one line per action.
// It returns an empty string when nothing is due.
func (t *Todo) Summary() string {
	if t.Len() == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🌅 %d care tasks for %s\n", t.Len(), t.Date))
	for _, task := range t.Water {
		sb.WriteString(fmt.Sprintf("💧 %s has not been watered for %d days\n", task.PlantName, task.DaysSince))
	}
	for _, task := range t.Fertilize {
		sb.WriteString(fmt.Sprintf("🌿 %s has not been fertilized for %d days\n", task.PlantName, task.DaysSince))
	}
	return strings.TrimSpace(sb.String())
}
