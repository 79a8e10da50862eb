package service

import (
	"context"
	"fmt"

	"github.com/omri-harel/cost-ledger/internal/domain/entity"
	"github.com/omri-harel/cost-ledger/internal/domain/repository"
	"github.com/omri-harel/cost-ledger/internal/infrastructure/logger"
)

// ExpenseService handles business logic for expense records.
type ExpenseService struct {
	repo   repository.ExpenseRepository
	logger logger.Logger
}

// NewExpenseService creates a new expense service.
func NewExpenseService(repo repository.ExpenseRepository, log logger.Logger) *ExpenseService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &ExpenseService{repo: repo, logger: log}
}

// CreateExpense persists a new expense record. The store assigns the id and
// the recorded-at stamp; draft fields are stored verbatim, with no
// normalization at write time.
func (s *ExpenseService) CreateExpense(ctx context.Context, draft entity.ExpenseDraft) (*entity.ExpenseRecord, error) {
	rec, err := s.repo.Create(ctx, draft)
	if err != nil {
		s.logger.Error("Failed to create expense", map[string]interface{}{
			"currency": draft.Currency,
			"category": draft.Category,
			"error":    err.Error(),
		})
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	s.logger.Info("Expense created", map[string]interface{}{
		"id":       rec.ID,
		"amount":   rec.Amount,
		"currency": rec.Currency,
		"category": rec.Category,
	})

	return rec, nil
}

// ListExpenses returns every stored expense record.
func (s *ExpenseService) ListExpenses(ctx context.Context) ([]entity.ExpenseRecord, error) {
	records, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.Error("Failed to list expenses", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	return records, nil
}
