package timeseries

import (
	"fmt"
	"time"
)

type Granularity string

const (
	Day       Granularity = "day"
	HourOfDay Granularity = "hour_of_day"
	Weekday   Granularity = "weekday"
)

const (
	HoursPerDay = 24
	DaysPerWeek = 7
	dateLayout  = "2006-01-02"
)

// Bucket is one slot of a dense, gap-filled series.
type Bucket struct {
	Index int
	Key   string    // "2025-12-07", "3 PM", "Monday"
	Start time.Time // local midnight, Day granularity only
	Count int
}

// Bucketize groups timestamps into buckets of the given granularity.
//
// Day buckets span the earliest to the latest observed calendar day and are
// empty for empty input. HourOfDay and Weekday always cover their full domain.
func Bucketize(times []time.Time, g Granularity, loc *time.Location) []Bucket {
	if loc == nil {
		loc = time.UTC
	}

	switch g {
	case Day:
		return bucketizeDays(times, loc)
	case HourOfDay:
		buckets := make([]Bucket, HoursPerDay)
		for h := range buckets {
			buckets[h] = Bucket{Index: h, Key: HourLabel(h)}
		}
		for _, t := range times {
			buckets[t.In(loc).Hour()].Count++
		}
		return buckets
	case Weekday:
		buckets := make([]Bucket, DaysPerWeek)
		for d := range buckets {
			buckets[d] = Bucket{Index: d, Key: time.Weekday(d).String()}
		}
		for _, t := range times {
			buckets[int(t.In(loc).Weekday())].Count++
		}
		return buckets
	default:
		return nil
	}
}

func bucketizeDays(times []time.Time, loc *time.Location) []Bucket {
	if len(times) == 0 {
		return []Bucket{}
	}

	counts := make(map[string]int, len(times))
	first := StartOfDay(times[0], loc)
	last := first
	for _, t := range times {
		day := StartOfDay(t, loc)
		counts[day.Format(dateLayout)]++
		if day.Before(first) {
			first = day
		}
		if day.After(last) {
			last = day
		}
	}

	var buckets []Bucket
	for day, i := first, 0; !day.After(last); day, i = day.AddDate(0, 0, 1), i+1 {
		key := day.Format(dateLayout)
		buckets = append(buckets, Bucket{
			Index: i,
			Key:   key,
			Start: day,
			Count: counts[key],
		})
	}

	return buckets
}

// DistinctDays returns how many different calendar days appear in times.
func DistinctDays(times []time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.UTC
	}
	seen := make(map[string]struct{}, len(times))
	for _, t := range times {
		seen[t.In(loc).Format(dateLayout)] = struct{}{}
	}
	return len(seen)
}

// StartOfDay returns local midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}

// HourLabel formats an hour of day on a 12-hour clock, e.g. 0 -> "12 AM".
func HourLabel(hour int) string {
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	h := hour % 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d %s", h, suffix)
}
