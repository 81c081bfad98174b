package model

import "time"

// Collection names a data set that change events refer to.
type Collection string

const (
	CollectionPlants      Collection = "plants"
	CollectionFertilizers Collection = "fertilizers"
	CollectionLogs        Collection = "logs"
)

const (
	// EventHello is sent once right after a subscriber connects.
	EventHello = "hello"
	// EventChanged means the named collection was modified.
	EventChanged = "changed"
)

// ChangeEvent is a notification pushed to subscribers of the event stream.
type ChangeEvent struct {
	Type       string     `json:"type"`
	Collection Collection `json:"collection,omitempty"`
	Timestamp  time.Time  `json:"timestamp"`
}
