package punctuality

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/punctuality"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var officeHours = schedule.Schedule{
	EntryTime:        "09:00:00",
	ExitTime:         "18:00:00",
	ToleranceMinutes: 5,
}

func event(date string, action attendance.Action, at string) attendance.Event {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return attendance.Event{Date: d, Action: action, Time: at}
}

func intPtr(n int) *int { return &n }

func TestComputeDays_EntryStatus(t *testing.T) {
	cases := []struct {
		at     string
		diff   int
		status punctuality.Status
	}{
		{"09:00:00", 0, punctuality.StatusOnTime},
		{"09:05:00", 5, punctuality.StatusOnTime},
		{"09:06:00", 6, punctuality.StatusLate},
		{"08:55:00", -5, punctuality.StatusOnTime},
		{"08:50:00", -10, punctuality.StatusEarly},
		{"08:59:30", -1, punctuality.StatusOnTime},
		{"08:54:59", -6, punctuality.StatusEarly},
	}
	for _, c := range cases {
		t.Run(c.at, func(t *testing.T) {
			days, err := computeDays([]attendance.Event{event("2024-01-08", attendance.ActionEntry, c.at)}, officeHours)
			require.NoError(t, err)
			require.Len(t, days, 1)
			require.NotNil(t, days[0].EntryDiff)
			assert.Equal(t, c.diff, *days[0].EntryDiff)
			assert.Equal(t, c.status, days[0].EntryStatus)
			assert.Equal(t, punctuality.StatusNoRecord, days[0].ExitStatus)
			assert.Nil(t, days[0].ExitDiff)
		})
	}
}

func TestComputeDays_ExitSignConvention(t *testing.T) {
	cases := []struct {
		at     string
		diff   int
		status punctuality.Status
	}{
		{"17:50:00", -10, punctuality.StatusEarly},
		{"18:15:00", 15, punctuality.StatusLate},
		{"18:00:00", 0, punctuality.StatusOnTime},
		{"17:59:00", -1, punctuality.StatusEarly},
		{"17:59:30", -1, punctuality.StatusEarly},
		{"18:00:45", 0, punctuality.StatusOnTime},
	}
	for _, c := range cases {
		t.Run(c.at, func(t *testing.T) {
			days, err := computeDays([]attendance.Event{event("2024-01-08", attendance.ActionExit, c.at)}, officeHours)
			require.NoError(t, err)
			require.Len(t, days, 1)
			require.NotNil(t, days[0].ExitDiff)
			assert.Equal(t, c.diff, *days[0].ExitDiff)
			assert.Equal(t, c.status, days[0].ExitStatus)
			assert.Equal(t, punctuality.StatusNoRecord, days[0].EntryStatus)
		})
	}
}

func TestComputeDays_FirstEntryLastExit(t *testing.T) {
	events := []attendance.Event{
		event("2024-01-09", attendance.ActionExit, "17:00:00"),
		event("2024-01-08", attendance.ActionEntry, "09:20:00"),
		event("2024-01-08", attendance.ActionEntry, "08:58:00"),
		event("2024-01-08", attendance.ActionLunchStart, "13:00:00"),
		event("2024-01-08", attendance.ActionExit, "18:10:00"),
		event("2024-01-08", attendance.ActionExit, "17:30:00"),
	}

	days, err := computeDays(events, officeHours)
	require.NoError(t, err)
	require.Len(t, days, 2)

	assert.Equal(t, "2024-01-08", days[0].Date.Format("2006-01-02"))
	assert.Equal(t, "08:58:00", *days[0].FirstEntry)
	assert.Equal(t, "18:10:00", *days[0].LastExit)
	assert.Equal(t, -2, *days[0].EntryDiff)
	assert.Equal(t, 10, *days[0].ExitDiff)

	assert.Equal(t, "2024-01-09", days[1].Date.Format("2006-01-02"))
	assert.Nil(t, days[1].FirstEntry)
	assert.Equal(t, punctuality.StatusNoRecord, days[1].EntryStatus)
	assert.Equal(t, punctuality.StatusEarly, days[1].ExitStatus)
}

func TestComputeDays_OnlyLunchIsNoDay(t *testing.T) {
	days, err := computeDays([]attendance.Event{event("2024-01-08", attendance.ActionLunchEnd, "14:00:00")}, officeHours)
	require.NoError(t, err)
	assert.Empty(t, days)
}

func TestGroupDays_WeekAndDay(t *testing.T) {
	// Monday and Sunday of ISO week 2024-W02
	days, err := computeDays([]attendance.Event{
		event("2024-01-08", attendance.ActionEntry, "09:00:00"),
		event("2024-01-14", attendance.ActionEntry, "09:30:00"),
	}, officeHours)
	require.NoError(t, err)

	weeks := groupDays(days, attendance.GranularityWeek)
	require.Len(t, weeks, 1)
	assert.Equal(t, "2024-W02", weeks[0].Group)
	assert.Equal(t, 1, weeks[0].OnTime)
	assert.Equal(t, 1, weeks[0].Late)

	byDay := groupDays(days, attendance.GranularityDay)
	require.Len(t, byDay, 2)
	assert.Equal(t, "2024-01-14", byDay[0].Group)
	assert.Equal(t, "2024-01-08", byDay[1].Group)
}

func TestGroupDays_NextMondayStartsNewWeek(t *testing.T) {
	days, err := computeDays([]attendance.Event{
		event("2024-01-08", attendance.ActionEntry, "09:00:00"),
		event("2024-01-15", attendance.ActionEntry, "09:00:00"),
	}, officeHours)
	require.NoError(t, err)

	weeks := groupDays(days, attendance.GranularityWeek)
	require.Len(t, weeks, 2)
	assert.Equal(t, "2024-W03", weeks[0].Group)
	assert.Equal(t, "2024-W02", weeks[1].Group)
}

func TestGroupDays_Month(t *testing.T) {
	days, err := computeDays([]attendance.Event{
		event("2023-12-29", attendance.ActionExit, "18:20:00"),
		event("2024-01-02", attendance.ActionExit, "17:40:00"),
		event("2024-01-31", attendance.ActionExit, "18:00:00"),
	}, officeHours)
	require.NoError(t, err)

	months := groupDays(days, attendance.GranularityMonth)
	require.Len(t, months, 2)

	assert.Equal(t, "2024-01", months[0].Group)
	assert.Equal(t, 1, months[0].EarlyExit)
	assert.Equal(t, 0, months[0].Overtime)
	assert.Nil(t, months[0].AvgEntryDiffMinutes)
	assert.Equal(t, intPtr(-10), months[0].AvgExitDiffMinutes)

	assert.Equal(t, "2023-12", months[1].Group)
	assert.Equal(t, 1, months[1].Overtime)
	assert.Equal(t, intPtr(20), months[1].AvgExitDiffMinutes)
}

func TestGroupDays_AverageRounding(t *testing.T) {
	days, err := computeDays([]attendance.Event{
		event("2024-02-05", attendance.ActionEntry, "09:01:00"),
		event("2024-02-06", attendance.ActionEntry, "09:02:00"),
		event("2024-02-05", attendance.ActionExit, "17:59:00"),
		event("2024-02-06", attendance.ActionExit, "17:58:00"),
	}, officeHours)
	require.NoError(t, err)

	buckets := groupDays(days, attendance.GranularityMonth)
	require.Len(t, buckets, 1)
	// 1.5 and -1.5 round away from zero
	assert.Equal(t, intPtr(2), buckets[0].AvgEntryDiffMinutes)
	assert.Equal(t, intPtr(-2), buckets[0].AvgExitDiffMinutes)
}

func TestGroupDays_Empty(t *testing.T) {
	assert.Empty(t, groupDays(nil, attendance.GranularityDay))
}

func TestRoundedAverage(t *testing.T) {
	assert.Nil(t, roundedAverage(0, 0))
	assert.Equal(t, intPtr(3), roundedAverage(10, 3))
	assert.Equal(t, intPtr(-3), roundedAverage(-10, 3))
	assert.Equal(t, intPtr(1), roundedAverage(1, 2))
}
