package category

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

var ErrBlankName = errors.New("category needs a name")

// limits on how much ledger data one suggestion pass reads.
const (
	maxUncategorized = 500
	maxExemplars     = 2000
)

// Service owns the category vocabulary and suggestion logic.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) List(ctx context.Context) ([]*Category, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListByType(ctx context.Context, t Type) ([]*Category, error) {
	return s.repo.ListByType(ctx, t)
}

func (s *Service) Add(ctx context.Context, c *Category) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return ErrBlankName
	}
	switch c.Type {
	case TypeExpense, TypeIncome, TypeTravel:
	case "":
		c.Type = TypeExpense
	default:
		return errors.New("category type must be expense, income, or travel")
	}
	if err := s.repo.Add(ctx, c); err != nil {
		return err
	}
	s.logger.Info("category added", slog.String("name", c.Name), slog.String("type", string(c.Type)))
	return nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// Suggest proposes categories for uncategorized ledger entries by
// comparing them against descriptions the user has already
// categorized.
func (s *Service) Suggest(ctx context.Context, threshold int) ([]Suggestion, error) {
	descriptions, err := s.repo.UncategorizedDescriptions(ctx, maxUncategorized)
	if err != nil {
		return nil, err
	}
	if len(descriptions) == 0 {
		return nil, nil
	}

	exemplars, err := s.repo.CategorizedExemplars(ctx, maxExemplars)
	if err != nil {
		return nil, err
	}

	suggestions := suggest(descriptions, exemplars, threshold)
	s.logger.Debug("category suggestions computed",
		slog.Int("uncategorized", len(descriptions)),
		slog.Int("suggestions", len(suggestions)))
	return suggestions, nil
}
