package api

import (
	"context"
	"fmt"

	"rollcall/internal/attendance"
)

// LearnedMatches returns learned matches, most recently updated first.
func (s *Service) LearnedMatches() []attendance.LearnedMatch {
	return s.learned.List()
}

// RemoveLearned forgets the learned match for a raw label.
func (s *Service) RemoveLearned(ctx context.Context, rawLabel string) error {
	return s.learned.Remove(ctx, rawLabel)
}

// RemoveLearnedByNumber removes a learned match using the 1-based numbering
// from learned list output.
func (s *Service) RemoveLearnedByNumber(ctx context.Context, entryNum int) (attendance.LearnedMatch, error) {
	if entryNum < 1 {
		return attendance.LearnedMatch{}, fmt.Errorf("invalid entry number: %d (must be a positive integer)", entryNum)
	}
	entries := s.learned.List()
	if entryNum > len(entries) {
		return attendance.LearnedMatch{}, fmt.Errorf("entry number %d out of range (only %d entries exist)", entryNum, len(entries))
	}
	entry := entries[entryNum-1]
	if err := s.learned.Remove(ctx, entry.RawLabel); err != nil {
		return attendance.LearnedMatch{}, fmt.Errorf("remove learned match: %w", err)
	}
	return entry, nil
}

// ClearLearned forgets every learned match.
func (s *Service) ClearLearned(ctx context.Context) (int64, error) {
	return s.learned.Clear(ctx)
}
