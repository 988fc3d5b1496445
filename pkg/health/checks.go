package health

import (
	"fmt"
	"math"
	"runtime"
	"runtime/debug"

	"github.com/dd0wney/cluso-degrees/pkg/dataset"
)

// Alive always reports healthy; a process able to run it is alive
func Alive() Check {
	return Check{Status: StatusHealthy}
}

// DatasetCheck reports the loaded dataset. Without people no query can
// succeed, so that is unhealthy; without credits nobody is connected, which
// is degraded.
func DatasetCheck(stats func() dataset.Statistics) CheckFunc {
	return func() Check {
		st := stats()
		check := Check{
			Details: map[string]any{
				"people":  st.People,
				"movies":  st.Movies,
				"credits": st.Credits,
			},
		}

		switch {
		case st.People == 0:
			check.Status = StatusUnhealthy
			check.Message = "no people loaded"
		case st.Credits == 0:
			check.Status = StatusDegraded
			check.Message = "no credits loaded"
		default:
			check.Status = StatusHealthy
		}
		return check
	}
}

// MemoryCheck degrades when the heap passes 90% of limit bytes. A zero limit
// uses the runtime soft limit (GOMEMLIMIT); with neither set the check only
// reports usage.
func MemoryCheck(limit uint64) CheckFunc {
	return func() Check {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		return memoryCheck(m.HeapAlloc, effectiveLimit(limit))
	}
}

func effectiveLimit(limit uint64) uint64 {
	if limit > 0 {
		return limit
	}
	soft := debug.SetMemoryLimit(-1)
	if soft <= 0 || soft == math.MaxInt64 {
		return 0
	}
	return uint64(soft)
}

func memoryCheck(heap, limit uint64) Check {
	check := Check{
		Status:  StatusHealthy,
		Details: map[string]any{"heap_bytes": heap},
	}
	if limit == 0 {
		return check
	}

	used := float64(heap) / float64(limit) * 100
	check.Details["limit_bytes"] = limit
	check.Details["used_percent"] = math.Round(used*10) / 10
	if used > 90 {
		check.Status = StatusDegraded
		check.Message = fmt.Sprintf("heap at %.0f%% of limit", used)
	}
	return check
}
