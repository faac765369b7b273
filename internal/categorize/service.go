// Package categorize learns which category a bank statement line belongs to
// from the patterns the user confirmed before.
package categorize

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/agency/internal/transaction"
)

var ErrEmptyRule = errors.New("category rule needs a pattern and a category")

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=categorize
type Repository interface {
	// MatchCategory returns the category of the longest pattern contained
	// in rawDescription, ignoring case, or "" when none matches.
	MatchCategory(ctx context.Context, rawDescription string) (string, error)
	CreateRule(ctx context.Context, rawPattern, category string) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest returns the learned category for rawDescription, or "".
func (s *Service) Suggest(ctx context.Context, rawDescription string) (string, error) {
	if strings.TrimSpace(rawDescription) == "" {
		return "", nil
	}

	return s.repo.MatchCategory(ctx, rawDescription)
}

// Learn remembers that statement lines containing rawPattern belong to category.
func (s *Service) Learn(ctx context.Context, rawPattern, category string) error {
	rawPattern = strings.TrimSpace(rawPattern)
	category = strings.TrimSpace(category)

	if rawPattern == "" || category == "" {
		return ErrEmptyRule
	}

	return s.repo.CreateRule(ctx, rawPattern, category)
}

// Apply fills the category of every uncategorized line that matches a rule.
func (s *Service) Apply(ctx context.Context, params []transaction.CreateParams) error {
	for i := range params {
		if params[i].Category != "" {
			continue
		}

		raw := params[i].RawDescription
		if raw == "" {
			raw = params[i].Description
		}

		category, err := s.Suggest(ctx, raw)
		if err != nil {
			return fmt.Errorf("suggesting category for line %d: %w", i+1, err)
		}

		params[i].Category = category
	}

	return nil
}
