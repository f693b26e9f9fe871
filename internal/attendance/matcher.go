package attendance

import (
	"sort"
	"strings"

	"rollcall/internal/names"
)

// LearnedLookup resolves a raw label to an operator-confirmed match.
type LearnedLookup interface {
	Lookup(rawLabel string) (LearnedMatch, bool)
}

// Stats summarizes how a Matcher run partitioned its input.
type Stats struct {
	Roster           int `json:"roster"`
	RawEntries       int `json:"rawEntries"`
	Participants     int `json:"participants"`
	Learned          int `json:"learned"`
	Fuzzy            int `json:"fuzzy"`
	Absent           int `json:"absent"`
	Unmatched        int `json:"unmatched"`
	GenericUnmatched int `json:"genericUnmatched"`
}

// Outcome is the base partition produced by a Matcher run.
type Outcome struct {
	Result       MatchResult `json:"result"`
	Participants Aggregation `json:"participants"`
	Stats        Stats       `json:"stats"`
}

// Matcher partitions a roster and an aggregated session log. It is stateless
// apart from its vocabulary and learned lookup and may be shared.
type Matcher struct {
	normalizer *names.Normalizer
	learned    LearnedLookup
}

// NewMatcher builds a Matcher. A nil normalizer uses the default vocabulary; a
// nil learned lookup skips the learned phase.
func NewMatcher(n *names.Normalizer, learned LearnedLookup) *Matcher {
	if n == nil {
		n = names.NewDefault()
	}
	return &Matcher{normalizer: n, learned: learned}
}

// Reconcile aggregates raw session entries and matches them against the roster.
func (m *Matcher) Reconcile(roster []RosterMember, raw []SessionParticipant) Outcome {
	return m.Match(roster, Aggregate(m.normalizer, raw))
}

type rosterSlot struct {
	member     RosterMember
	normalized string
	position   int
}

// Match runs the learned, fuzzy and classification phases. Fuzzy matching is
// first-match-wins: each unconsumed roster member, in roster order, takes the
// first unconsumed participant, in aggregation order, whose name matches.
func (m *Matcher) Match(roster []RosterMember, participants Aggregation) Outcome {
	slots := make([]rosterSlot, 0, len(roster))
	byPhone := make(map[string]int, len(roster))
	for _, member := range roster {
		if _, dup := byPhone[member.Phone]; dup {
			continue
		}
		byPhone[member.Phone] = len(slots)
		slots = append(slots, rosterSlot{
			member:     member,
			normalized: m.normalizer.Normalize(member.Name()),
			position:   len(slots),
		})
	}

	consumedPhone := make(map[string]bool, len(slots))
	consumedKey := make(map[string]bool, len(participants))
	type commit struct {
		entry    MatchedEntry
		position int
	}
	commits := make([]commit, 0, len(slots))
	stats := Stats{Roster: len(slots), Participants: len(participants)}
	for _, p := range participants {
		stats.RawEntries += p.Entries
	}

	// Phase 1: operator-confirmed matches.
	if m.learned != nil {
		for _, p := range participants {
			learned, ok := m.learned.Lookup(p.RepresentativeLabel)
			if !ok {
				continue
			}
			idx, onRoster := byPhone[learned.RosterPhone]
			if !onRoster || consumedPhone[learned.RosterPhone] || consumedKey[p.Key] {
				continue
			}
			slot := slots[idx]
			name := slot.member.Name()
			if name == slot.member.Phone && strings.TrimSpace(learned.RosterDisplayName) != "" {
				name = learned.RosterDisplayName
			}
			commits = append(commits, commit{entry: newMatchedEntry(slot.member.Phone, name, p, SourceLearned), position: slot.position})
			consumedPhone[slot.member.Phone] = true
			consumedKey[p.Key] = true
			stats.Learned++
		}
	}

	// Phase 2: fuzzy name matches.
	for _, slot := range slots {
		if consumedPhone[slot.member.Phone] || slot.normalized == "" {
			continue
		}
		for _, p := range participants {
			if consumedKey[p.Key] {
				continue
			}
			if !names.Match(slot.normalized, p.Normalized) {
				continue
			}
			commits = append(commits, commit{entry: newMatchedEntry(slot.member.Phone, slot.member.Name(), p, SourceFuzzy), position: slot.position})
			consumedPhone[slot.member.Phone] = true
			consumedKey[p.Key] = true
			stats.Fuzzy++
			break
		}
	}

	// Phase 3: classification.
	sort.SliceStable(commits, func(i, j int) bool { return commits[i].position < commits[j].position })
	result := MatchResult{
		Matched:   make([]MatchedEntry, 0, len(commits)),
		Absent:    make([]AbsentEntry, 0, len(slots)-len(commits)),
		Unmatched: make([]UnmatchedEntry, 0, len(participants)-len(commits)),
	}
	for _, c := range commits {
		result.Matched = append(result.Matched, c.entry)
	}
	for _, slot := range slots {
		if consumedPhone[slot.member.Phone] {
			continue
		}
		result.Absent = append(result.Absent, AbsentEntry{
			RosterDisplayName: slot.member.Name(),
			RosterPhone:       slot.member.Phone,
		})
	}
	for _, p := range participants {
		if consumedKey[p.Key] {
			continue
		}
		result.Unmatched = append(result.Unmatched, UnmatchedEntry{
			RawLabel:        p.RepresentativeLabel,
			SessionKey:      p.Key,
			DurationSeconds: p.TotalDurationSeconds,
			JoinTime:        p.EarliestJoin,
			LeaveTime:       p.LatestLeave,
			Generic:         p.Generic,
		})
	}

	stats.Absent = len(result.Absent)
	stats.Unmatched = len(result.Unmatched)
	stats.GenericUnmatched = result.GenericUnmatched()

	return Outcome{Result: result, Participants: participants, Stats: stats}
}

func newMatchedEntry(phone, name string, p AggregatedParticipant, source Source) MatchedEntry {
	return MatchedEntry{
		RosterPhone:       phone,
		RosterDisplayName: name,
		RawLabel:          p.RepresentativeLabel,
		SessionKey:        p.Key,
		DurationSeconds:   p.TotalDurationSeconds,
		JoinTime:          p.EarliestJoin,
		LeaveTime:         p.LatestLeave,
		Source:            source,
		Generic:           p.Generic,
	}
}
