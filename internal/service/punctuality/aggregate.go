package punctuality

import (
	"math"
	"sort"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/punctuality"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/timeofday"
)

// computeDays derives one deviation row per date holding at least one entry
// or exit event, oldest date first. Other actions are ignored.
func computeDays(events []attendance.Event, sch schedule.Schedule) ([]punctuality.DayDeviation, error) {
	byDate := map[string]*punctuality.DayDeviation{}
	var keys []string

	for _, ev := range events {
		if ev.Action != attendance.ActionEntry && ev.Action != attendance.ActionExit {
			continue
		}
		key := ev.Date.Format("2006-01-02")
		day, ok := byDate[key]
		if !ok {
			day = &punctuality.DayDeviation{Date: ev.Date}
			byDate[key] = day
			keys = append(keys, key)
		}

		t := ev.Time
		switch ev.Action {
		case attendance.ActionEntry:
			if day.FirstEntry == nil || t < *day.FirstEntry {
				day.FirstEntry = &t
			}
		case attendance.ActionExit:
			if day.LastExit == nil || t > *day.LastExit {
				day.LastExit = &t
			}
		}
	}
	sort.Strings(keys)

	days := make([]punctuality.DayDeviation, 0, len(keys))
	for _, key := range keys {
		day := byDate[key]
		day.EntryStatus = punctuality.StatusNoRecord
		day.ExitStatus = punctuality.StatusNoRecord

		if day.FirstEntry != nil {
			// positive: late
			diff, err := timeofday.DiffMinutes(*day.FirstEntry, sch.EntryTime)
			if err != nil {
				return nil, err
			}
			day.EntryDiff = &diff
			day.EntryStatus = entryStatus(diff, sch.ToleranceMinutes)
		}
		if day.LastExit != nil {
			// positive: overtime
			diff, err := timeofday.DiffMinutes(*day.LastExit, sch.ExitTime)
			if err != nil {
				return nil, err
			}
			day.ExitDiff = &diff
			day.ExitStatus = exitStatus(diff)
		}
		days = append(days, *day)
	}
	return days, nil
}

func entryStatus(diff, tolerance int) punctuality.Status {
	switch {
	case abs(diff) <= tolerance:
		return punctuality.StatusOnTime
	case diff > 0:
		return punctuality.StatusLate
	default:
		return punctuality.StatusEarly
	}
}

// exitStatus has no tolerance band.
func exitStatus(diff int) punctuality.Status {
	switch {
	case diff < 0:
		return punctuality.StatusEarly
	case diff > 0:
		return punctuality.StatusLate
	default:
		return punctuality.StatusOnTime
	}
}

// groupDays rolls days into buckets keyed by granularity, newest first.
func groupDays(days []punctuality.DayDeviation, g attendance.Granularity) []punctuality.Bucket {
	type accumulator struct {
		bucket              punctuality.Bucket
		entrySum, entryDays int
		exitSum, exitDays   int
	}

	groups := map[string]*accumulator{}
	for _, day := range days {
		key := g.GroupKey(day.Date)
		acc, ok := groups[key]
		if !ok {
			acc = &accumulator{bucket: punctuality.Bucket{Group: key}}
			groups[key] = acc
		}

		switch day.EntryStatus {
		case punctuality.StatusOnTime:
			acc.bucket.OnTime++
		case punctuality.StatusLate:
			acc.bucket.Late++
		case punctuality.StatusEarly:
			acc.bucket.Early++
		}
		switch day.ExitStatus {
		case punctuality.StatusEarly:
			acc.bucket.EarlyExit++
		case punctuality.StatusLate:
			acc.bucket.Overtime++
		}

		if day.EntryDiff != nil {
			acc.entrySum += *day.EntryDiff
			acc.entryDays++
		}
		if day.ExitDiff != nil {
			acc.exitSum += *day.ExitDiff
			acc.exitDays++
		}
	}

	buckets := make([]punctuality.Bucket, 0, len(groups))
	for _, acc := range groups {
		acc.bucket.AvgEntryDiffMinutes = roundedAverage(acc.entrySum, acc.entryDays)
		acc.bucket.AvgExitDiffMinutes = roundedAverage(acc.exitSum, acc.exitDays)
		buckets = append(buckets, acc.bucket)
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Group > buckets[j].Group
	})
	return buckets
}

// roundedAverage rounds half away from zero; nil when n is zero.
func roundedAverage(sum, n int) *int {
	if n == 0 {
		return nil
	}
	avg := int(math.Round(float64(sum) / float64(n)))
	return &avg
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
