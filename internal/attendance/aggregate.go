package attendance

import (
	"time"

	"rollcall/internal/names"
)

// unnamedKeyPrefix marks keys of labels that normalize to nothing ("iPhone",
// "12345"). Such labels are keyed by their lowercased raw text so unrelated
// devices are not merged into one participant.
const unnamedKeyPrefix = "~"

// Aggregation is the ordered result of Aggregate. Keys are unique and entries
// appear in the order their key was first seen.
type Aggregation []AggregatedParticipant

// Aggregate merges raw session entries sharing a normalized key. Durations are
// summed, the earliest join and latest leave are kept, and the first-seen raw
// label becomes the representative label.
func Aggregate(n *names.Normalizer, raw []SessionParticipant) Aggregation {
	if n == nil {
		n = names.NewDefault()
	}
	out := make(Aggregation, 0, len(raw))
	positions := make(map[string]int, len(raw))

	for _, entry := range raw {
		normalized := n.Normalize(entry.RawLabel)
		key := normalized
		if key == "" {
			key = unnamedKeyPrefix + LabelKey(entry.RawLabel)
		}
		duration := entry.DurationSeconds
		if duration < 0 {
			duration = 0
		}

		idx, seen := positions[key]
		if !seen {
			positions[key] = len(out)
			out = append(out, AggregatedParticipant{
				Key:                  key,
				Normalized:           normalized,
				RepresentativeLabel:  entry.RawLabel,
				TotalDurationSeconds: duration,
				EarliestJoin:         entry.JoinTime,
				LatestLeave:          entry.LeaveTime,
				Generic:              n.IsGeneric(entry.RawLabel),
				Entries:              1,
			})
			continue
		}

		agg := &out[idx]
		agg.TotalDurationSeconds += duration
		agg.EarliestJoin = earlier(agg.EarliestJoin, entry.JoinTime)
		agg.LatestLeave = later(agg.LatestLeave, entry.LeaveTime)
		agg.Entries++
	}
	return out
}

// Index returns the participants keyed by their aggregation key.
func (a Aggregation) Index() map[string]AggregatedParticipant {
	idx := make(map[string]AggregatedParticipant, len(a))
	for _, p := range a {
		idx[p.Key] = p
	}
	return idx
}

// TotalDuration sums every participant's duration.
func (a Aggregation) TotalDuration() int64 {
	var total int64
	for _, p := range a {
		total += p.TotalDurationSeconds
	}
	return total
}

func earlier(current, candidate time.Time) time.Time {
	if candidate.IsZero() {
		return current
	}
	if current.IsZero() || candidate.Before(current) {
		return candidate
	}
	return current
}

func later(current, candidate time.Time) time.Time {
	if candidate.IsZero() {
		return current
	}
	if current.IsZero() || candidate.After(current) {
		return candidate
	}
	return current
}
