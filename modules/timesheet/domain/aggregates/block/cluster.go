package block

import (
	"sort"
	"time"
)

// Cluster is a maximal run of consecutive calendar dates, the unit of block
// reconciliation.
type Cluster struct {
	Start time.Time
	End   time.Time
}

// Clusters partitions the given dates into maximal consecutive runs. Input
// may be unsorted and contain duplicates; dates are truncated to UTC
// calendar days.
func Clusters(dates []time.Time) []Cluster {
	if len(dates) == 0 {
		return nil
	}

	days := make([]time.Time, 0, len(dates))
	seen := make(map[time.Time]struct{}, len(dates))
	for _, d := range dates {
		day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	clusters := []Cluster{{Start: days[0], End: days[0]}}
	for _, day := range days[1:] {
		last := &clusters[len(clusters)-1]
		if day.Sub(last.End) <= 24*time.Hour {
			last.End = day
			continue
		}
		clusters = append(clusters, Cluster{Start: day, End: day})
	}
	return clusters
}
