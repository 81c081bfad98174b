// yearly_heatmap.go
// Generates a GitHub-like yearly contribution heatmap as an SVG string in Go.
package heatmap

import (
	"fmt"
	"html"
	"strings"
	"time"
)

// GenerateYearlyHeatmapSVG returns an SVG string representing the yearly heatmap.
// data should be sorted in ascending order by date.
func GenerateYearlyHeatmapSVG(data []Data, opts *Options) string {
	// default options
	if opts == nil {
		opts = DefaultOptions()
	}

	if len(data) == 0 {
		return ""
	}

	// determine date range from options, falling back to the data (ascending order)
	startDate := dayOf(data[0].Date)
	endDate := dayOf(data[len(data)-1].Date)
	if !opts.From.IsZero() {
		startDate = dayOf(opts.From)
	}
	if !opts.To.IsZero() {
		endDate = dayOf(opts.To)
	}

	// map date string to count
	countMap := make(map[string]int, len(data))
	for _, d := range data {
		key := d.Date.UTC().Format("2006-01-02")
		countMap[key] += d.Count
	}

	// align first column to Sunday
	firstSunday := startDate.AddDate(0, 0, -int(startDate.Weekday()))

	// calculate required number of weeks
	dayDiff := int(endDate.Sub(firstSunday).Hours() / 24)
	weeks := dayDiff/7 + 1

	// compute dimensions
	titleHeight := 0
	if opts.Title != "" {
		titleHeight = opts.FontSize + 8 // title text + padding
	}
	width := weeks*(opts.CellSize+opts.CellPadding) + opts.CellPadding
	height := 7*(opts.CellSize+opts.CellPadding) + opts.CellPadding + opts.FontSize + 4 + titleHeight

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">`+"\n", width, height))
	sb.WriteString(fmt.Sprintf(`  <style>.label{font-family:%s;font-size:%dpx;fill:#666}.title{font-family:%s;font-size:%dpx;fill:#333;font-weight:bold}</style>`+"\n",
		opts.FontFamily, opts.FontSize, opts.FontFamily, opts.FontSize))

	if opts.Title != "" {
		sb.WriteString(fmt.Sprintf(`  <text x="%d" y="%d" class="title">%s</text>`+"\n",
			opts.CellPadding, opts.FontSize, html.EscapeString(opts.Title)))
	}

	// month labels
	months := []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
	lastMonth := -1
	monthLabelY := opts.FontSize + titleHeight
	for w := range weeks {
		x := opts.CellPadding + w*(opts.CellSize+opts.CellPadding)
		current := firstSunday.AddDate(0, 0, w*7)
		if current.Day() <= 7 && int(current.Month())-1 != lastMonth {
			sb.WriteString(fmt.Sprintf(`  <text x="%d" y="%d" class="label">%s</text>`+"\n",
				x, monthLabelY, months[current.Month()-1]))
			lastMonth = int(current.Month()) - 1
		}
	}

	// find the maximum count for auto-scaling
	supCount := 5
	for _, d := range data {
		if d.Count+1 > supCount {
			supCount = d.Count + 1
		}
	}

	levels := len(opts.Colors)
	for w := range weeks {
		for i := range 7 {
			current := firstSunday.AddDate(0, 0, w*7+i)
			// 範囲外の日は描画しない
			if current.Before(startDate) || current.After(endDate) {
				continue
			}
			key := current.Format("2006-01-02")
			count := countMap[key]
			x := opts.CellPadding + w*(opts.CellSize+opts.CellPadding)
			y := opts.CellPadding + opts.FontSize + 4 + titleHeight + i*(opts.CellSize+opts.CellPadding)

			// 各セルに矩形と、その中にtitle要素（ツールチップ）を追加
			sb.WriteString(fmt.Sprintf(`  <rect x="%d" y="%d" width="%d" height="%d" fill="%s" data-date="%s" data-count="%d">`+"\n",
				x, y, opts.CellSize, opts.CellSize, opts.Colors[level(count, supCount, levels)], key, count))
			sb.WriteString(fmt.Sprintf(`    <title>%s: %d</title>`+"\n", key, count))
			sb.WriteString(`  </rect>` + "\n")
		}
	}

	sb.WriteString(`</svg>`)
	return sb.String()
}

// level maps a count onto a palette index. 0値の場合は常にレベル0（薄いグレー）、
// 1以上の値は1からlevels-1の範囲に分散します。
func level(count, supCount, levels int) int {
	if count <= 0 || levels < 2 {
		return 0
	}
	if levels == 2 || supCount <= 1 {
		return 1
	}
	l := (count-1)*(levels-2)/(supCount-1) + 1
	return min(max(l, 1), levels-1)
}

// LastYear returns the range drawn by default: the 365 days ending at now.
func LastYear(now time.Time) (from, to time.Time) {
	to = dayOf(now)
	return to.AddDate(0, 0, -364), to
}
