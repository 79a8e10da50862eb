package service

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/omri-harel/cost-ledger/internal/domain/entity"
	"github.com/omri-harel/cost-ledger/internal/domain/repository"
	"github.com/omri-harel/cost-ledger/internal/infrastructure/logger"
)

// LineItem is one record's contribution to a monthly report, kept in its
// original currency. Only the day of month survives from the timestamp.
type LineItem struct {
	Day         int     `json:"day"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
}

// ReportTotal is the single converted figure of a monthly report.
type ReportTotal struct {
	Currency string  `json:"currency"`
	Total    float64 `json:"total"`
}

// MonthlyReport is the detailed report for one month: original-currency line
// items plus one converted grand total.
type MonthlyReport struct {
	Year  int         `json:"year"`
	Month int         `json:"month"`
	Costs []LineItem  `json:"costs"`
	Total ReportTotal `json:"total"`
}

// CategoryTotal is one category's converted sum for a month.
type CategoryTotal struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// MonthTotal is one month's converted sum in a yearly breakdown.
type MonthTotal struct {
	Month    int     `json:"month"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// RatesProvider supplies the rate table for a single report request.
// Satisfied by *RateProvider.
type RatesProvider interface {
	CurrentRates(ctx context.Context) (entity.RateTable, error)
}

// ReportService builds the three read-side report shapes. Each builder
// follows the same sequence: read all records, filter by period, fetch the
// rate table at most once, convert, fold. An empty period never triggers a
// rate fetch. Rate provider failures propagate to the caller; per-record
// conversion problems degrade silently per the rate table rules.
type ReportService struct {
	expenses repository.ExpenseRepository
	rates    RatesProvider
	logger   logger.Logger
}

// NewReportService creates a new report service.
func NewReportService(expenses repository.ExpenseRepository, rates RatesProvider, log logger.Logger) *ReportService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &ReportService{expenses: expenses, rates: rates, logger: log}
}

// BuildMonthlyReport produces the detailed report for year/month. Line items
// keep their original amounts and currencies; only the total is converted to
// targetCurrency and rounded to two decimals.
func (s *ReportService) BuildMonthlyReport(ctx context.Context, year, month int, targetCurrency string) (*MonthlyReport, error) {
	records, err := s.recordsInPeriod(ctx, year, month)
	if err != nil {
		return nil, err
	}

	report := &MonthlyReport{
		Year:  year,
		Month: month,
		Costs: make([]LineItem, 0, len(records)),
		Total: ReportTotal{Currency: targetCurrency},
	}

	for _, rec := range records {
		report.Costs = append(report.Costs, LineItem{
			Day:         rec.RecordedAt.Local().Day(),
			Amount:      rec.Amount,
			Currency:    rec.Currency,
			Category:    rec.Category,
			Description: rec.Description,
		})
	}

	// Nothing to convert, so skip the fetch and report a zero total.
	if len(records) == 0 {
		return report, nil
	}

	table, err := s.rates.CurrentRates(ctx)
	if err != nil {
		return nil, err
	}

	var sum float64
	for _, rec := range records {
		sum += table.Convert(rec.Amount, rec.Currency, targetCurrency)
	}
	report.Total.Total = roundToCents(sum)

	s.logger.Info("Monthly report built", map[string]interface{}{
		"year":     year,
		"month":    month,
		"currency": targetCurrency,
		"lines":    len(report.Costs),
		"total":    report.Total.Total,
	})

	return report, nil
}

// BuildCategoryBreakdown produces one converted sum per category present in
// year/month. Categories with no matching records are omitted, not
// zero-filled. Entries come back sorted by category name.
func (s *ReportService) BuildCategoryBreakdown(ctx context.Context, year, month int, targetCurrency string) ([]CategoryTotal, error) {
	records, err := s.recordsInPeriod(ctx, year, month)
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return []CategoryTotal{}, nil
	}

	table, err := s.rates.CurrentRates(ctx)
	if err != nil {
		return nil, err
	}

	sums := make(map[string]float64)
	for _, rec := range records {
		sums[rec.Category] += table.Convert(rec.Amount, rec.Currency, targetCurrency)
	}

	categories := make([]string, 0, len(sums))
	for category := range sums {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	breakdown := make([]CategoryTotal, 0, len(categories))
	for _, category := range categories {
		breakdown = append(breakdown, CategoryTotal{
			Category: category,
			Amount:   roundToCents(sums[category]),
			Currency: targetCurrency,
		})
	}

	return breakdown, nil
}

// BuildYearlyBreakdown produces exactly twelve converted sums for year, one
// per month 1..12, zero-filled where no records exist. A year with no
// records still yields all twelve entries without a rate fetch.
func (s *ReportService) BuildYearlyBreakdown(ctx context.Context, year int, targetCurrency string) ([]MonthTotal, error) {
	records, err := s.recordsInPeriod(ctx, year, 0)
	if err != nil {
		return nil, err
	}

	breakdown := make([]MonthTotal, 12)
	for i := range breakdown {
		breakdown[i] = MonthTotal{Month: i + 1, Currency: targetCurrency}
	}

	if len(records) == 0 {
		return breakdown, nil
	}

	table, err := s.rates.CurrentRates(ctx)
	if err != nil {
		return nil, err
	}

	var sums [12]float64
	for _, rec := range records {
		_, m, _ := rec.RecordedAt.Local().Date()
		sums[int(m)-1] += table.Convert(rec.Amount, rec.Currency, targetCurrency)
	}

	for i := range breakdown {
		breakdown[i].Amount = roundToCents(sums[i])
	}

	return breakdown, nil
}

// recordsInPeriod reads all records and keeps those whose recorded-at stamp,
// decomposed in local time, falls in the given year (and month, when month
// is 1-12; month 0 filters by year alone).
func (s *ReportService) recordsInPeriod(ctx context.Context, year, month int) ([]entity.ExpenseRecord, error) {
	all, err := s.expenses.ListAll(ctx)
	if err != nil {
		s.logger.Error("Failed to read expenses for report", map[string]interface{}{
			"year":  year,
			"month": month,
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to read expenses: %w", err)
	}

	matched := make([]entity.ExpenseRecord, 0, len(all))
	for _, rec := range all {
		y, m, _ := rec.RecordedAt.Local().Date()
		if y != year {
			continue
		}
		if month != 0 && int(m) != month {
			continue
		}
		matched = append(matched, rec)
	}

	return matched, nil
}

// roundToCents rounds to two decimal places, half away from zero on the
// underlying float.
func roundToCents(v float64) float64 {
	return math.Round(v*100) / 100
}
