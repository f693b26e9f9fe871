package learned

import (
	"sort"

	"rollcall/internal/attendance"
	"rollcall/internal/names"
)

// Index is an immutable-by-convention, in-memory view of learned matches.
type Index struct {
	normalizer   *names.Normalizer
	byKey        map[string]attendance.LearnedMatch
	byNormalized map[string]attendance.LearnedMatch
}

// NewIndex builds an index over entries. When several entries share a key or a
// normalized form, the most recently updated one wins.
func NewIndex(n *names.Normalizer, entries []attendance.LearnedMatch) *Index {
	if n == nil {
		n = names.NewDefault()
	}
	idx := &Index{
		normalizer:   n,
		byKey:        make(map[string]attendance.LearnedMatch, len(entries)),
		byNormalized: make(map[string]attendance.LearnedMatch, len(entries)),
	}
	ordered := make([]attendance.LearnedMatch, len(entries))
	copy(ordered, entries)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].UpdatedAt.Before(ordered[j].UpdatedAt)
	})
	for _, entry := range ordered {
		idx.put(entry)
	}
	return idx
}

func (i *Index) put(entry attendance.LearnedMatch) {
	key := attendance.LabelKey(entry.RawLabel)
	if key == "" || entry.RosterPhone == "" {
		return
	}
	i.byKey[key] = entry
	if normalized := i.normalizer.Normalize(entry.RawLabel); normalized != "" {
		i.byNormalized[normalized] = entry
	}
}

// Lookup returns the learned match for raw: exact case-insensitive key first,
// then normalized form. Labels that normalize to nothing only match exactly.
func (i *Index) Lookup(raw string) (attendance.LearnedMatch, bool) {
	if i == nil {
		return attendance.LearnedMatch{}, false
	}
	key := attendance.LabelKey(raw)
	if key == "" {
		return attendance.LearnedMatch{}, false
	}
	if entry, ok := i.byKey[key]; ok {
		return entry, true
	}
	normalized := i.normalizer.Normalize(raw)
	if normalized == "" {
		return attendance.LearnedMatch{}, false
	}
	entry, ok := i.byNormalized[normalized]
	return entry, ok
}

// Len returns the number of distinct keys.
func (i *Index) Len() int {
	if i == nil {
		return 0
	}
	return len(i.byKey)
}

// Entries returns every entry sorted newest first, ties broken by key.
func (i *Index) Entries() []attendance.LearnedMatch {
	if i == nil {
		return nil
	}
	out := make([]attendance.LearnedMatch, 0, len(i.byKey))
	for _, entry := range i.byKey {
		out = append(out, entry)
	}
	sort.Slice(out, func(a, b int) bool {
		if !out[a].UpdatedAt.Equal(out[b].UpdatedAt) {
			return out[a].UpdatedAt.After(out[b].UpdatedAt)
		}
		return attendance.LabelKey(out[a].RawLabel) < attendance.LabelKey(out[b].RawLabel)
	})
	return out
}

func (i *Index) with(entries ...attendance.LearnedMatch) *Index {
	all := i.Entries()
	all = append(all, entries...)
	return NewIndex(i.normalizer, all)
}

func (i *Index) without(key string) *Index {
	all := i.Entries()
	kept := all[:0]
	for _, entry := range all {
		if attendance.LabelKey(entry.RawLabel) == key {
			continue
		}
		kept = append(kept, entry)
	}
	return NewIndex(i.normalizer, kept)
}
