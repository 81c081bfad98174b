package care

import (
	"encoding/json"
	"fmt"
)

// MoodKind classifies how a plant feels about its watering.
type MoodKind string

const (
	MoodJustWatered MoodKind = "just-watered"
	MoodFine        MoodKind = "fine"
	MoodDueSoon     MoodKind = "due-soon"
	MoodDueToday    MoodKind = "due-today"
	MoodOverdue     MoodKind = "overdue"
)

// Urgency orders moods by how soon the plant needs attention.
type Urgency int

const (
	UrgencyNone Urgency = iota
	UrgencyLow
	UrgencyMedium
	UrgencyHigh
)

var urgencyNames = [...]string{"none", "low", "medium", "high"}

func (u Urgency) String() string {
	if u < 0 || int(u) >= len(urgencyNames) {
		return fmt.Sprintf("Urgency(%d)", int(u))
	}
	return urgencyNames[u]
}

// MarshalJSON encodes the urgency by name.
func (u Urgency) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.String())
}

// UnmarshalJSON decodes an urgency written by MarshalJSON.
func (u *Urgency) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for i, n := range urgencyNames {
		if n == name {
			*u = Urgency(i)
			return nil
		}
	}
	return fmt.Errorf("unknown urgency %q", name)
}

// Mood is the qualitative watering state shown next to a plant.
type Mood struct {
	Kind    MoodKind `json:"kind"`
	Emoji   string   `json:"emoji"`
	Label   string   `json:"label"`
	Urgency Urgency  `json:"urgency"`
	// Days is the remaining days for due-soon and the overdue days for
	// overdue, zero otherwise.
	Days int `json:"days"`
}

// MoodFor classifies a watering cycle. Conditions are checked from the most
// recent watering to the most overdue.
func MoodFor(c Cycle) Mood {
	switch {
	case c.DaysSince == 0:
		return Mood{Kind: MoodJustWatered, Emoji: "😊", Label: "just watered", Urgency: UrgencyNone}
	case c.DaysUntilDue > 2:
		return Mood{Kind: MoodFine, Emoji: "😌", Label: "fine", Urgency: UrgencyNone}
	case c.DaysUntilDue > 0:
		return Mood{
			Kind:    MoodDueSoon,
			Emoji:   "😐",
			Label:   fmt.Sprintf("due soon in %d days", c.DaysUntilDue),
			Urgency: UrgencyLow,
			Days:    c.DaysUntilDue,
		}
	case c.DaysUntilDue == 0:
		return Mood{Kind: MoodDueToday, Emoji: "😰", Label: "due today", Urgency: UrgencyMedium}
	default:
		return Mood{
			Kind:    MoodOverdue,
			Emoji:   "😫",
			Label:   fmt.Sprintf("overdue by %d days", -c.DaysUntilDue),
			Urgency: UrgencyHigh,
			Days:    -c.DaysUntilDue,
		}
	}
}
