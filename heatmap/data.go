package heatmap

import (
	"time"
)

// Data holds the date and count for each day.
type Data struct {
	Date  time.Time
	Count int
}

// Options configures rendering parameters.
type Options struct {
	CellSize    int       // size of each day cell (px)
	CellPadding int       // padding between cells (px)
	Colors      []string  // array of N CSS colors for levels 0..N-1
	FontSize    int       // font size for month labels (px)
	FontFamily  string    // font family for labels
	Title       string    // title drawn above the grid
	From        time.Time // first day to draw; zero means the first data point
	To          time.Time // last day to draw; zero means the last data point
}

// DefaultOptions returns the green palette used by the care activity graph.
func DefaultOptions() *Options {
	return &Options{
		CellSize:    12,
		CellPadding: 2,
		FontSize:    10,
		FontFamily:  "sans-serif",
		Colors:      []string{"#ebedf0", "#9be9a8", "#40c463", "#30a14e", "#216e39"},
	}
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Aggregate counts timestamps per UTC day between from and to (both
// inclusive). Days without events are present with a zero count, so the
// result always covers the whole range in ascending order.
func Aggregate(timestamps []time.Time, from, to time.Time) []Data {
	from, to = dayOf(from), dayOf(to)
	if to.Before(from) {
		return nil
	}

	counts := make(map[time.Time]int, len(timestamps))
	for _, ts := range timestamps {
		counts[dayOf(ts)]++
	}

	var data []Data
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		data = append(data, Data{Date: d, Count: counts[d]})
	}
	return data
}
