package docstore

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type ruleDoc struct {
	RawPattern string    `firestore:"rawPattern"`
	Category   string    `firestore:"category"`
	CreatedAt  time.Time `firestore:"createdAt"`
}

// MatchCategory scans every rule; Firestore has no substring queries and
// the rule set stays small.
func (s *Store) MatchCategory(ctx context.Context, rawDescription string) (string, error) {
	snaps, err := s.client.Collection(rulesCollection).Documents(ctx).GetAll()
	if err != nil {
		return "", fmt.Errorf("matching category: %w", err)
	}

	raw := strings.ToLower(rawDescription)

	var best *ruleDoc

	for _, snap := range snaps {
		var r ruleDoc
		if err := snap.DataTo(&r); err != nil {
			return "", fmt.Errorf("decoding category rule %s: %w", snap.Ref.ID, err)
		}

		if r.RawPattern == "" || !strings.Contains(raw, strings.ToLower(r.RawPattern)) {
			continue
		}

		if best == nil || len(r.RawPattern) > len(best.RawPattern) ||
			(len(r.RawPattern) == len(best.RawPattern) && r.CreatedAt.After(best.CreatedAt)) {
			best = &r
		}
	}

	if best == nil {
		return "", nil
	}

	return best.Category, nil
}

func (s *Store) CreateRule(ctx context.Context, rawPattern, category string) error {
	_, _, err := s.client.Collection(rulesCollection).Add(ctx, ruleDoc{
		RawPattern: rawPattern,
		Category:   category,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("creating category rule: %w", err)
	}

	return nil
}
