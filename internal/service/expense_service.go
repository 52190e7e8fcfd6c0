package service

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"spendlog/internal/models"
	"spendlog/internal/storage"
)

// ExpenseService owns expense CRUD, filtering, aggregation and export.
// Every operation is scoped to the calling user; ownership is checked
// before any read or mutation of an existing record.
type ExpenseService struct {
	db *storage.DB
}

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(db *storage.DB) *ExpenseService {
	return &ExpenseService{db: db}
}

// ExpenseInput carries raw form values for add/edit. Fields are
// validated as a whole before any state changes.
type ExpenseInput struct {
	Description string
	Amount      string
	Date        string
	Category    string
}

func (in ExpenseInput) validate() (*models.Expense, error) {
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		return nil, &ValidationError{Reason: "Description cannot be empty."}
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(in.Amount), 64)
	if err != nil {
		return nil, &ValidationError{Reason: fmt.Sprintf("Invalid amount %q: must be a number.", in.Amount)}
	}

	date, err := time.Parse(models.DateLayout, strings.TrimSpace(in.Date))
	if err != nil {
		return nil, &ValidationError{Reason: fmt.Sprintf("Invalid date %q: use YYYY-MM-DD.", in.Date)}
	}

	return &models.Expense{
		Description: desc,
		Amount:      amount,
		Date:        date,
		Category:    strings.TrimSpace(in.Category),
	}, nil
}

// canAccess is the authorization predicate applied before every read or
// mutation of an existing expense.
func canAccess(userID int64, e *models.Expense) bool {
	return e.UserID == userID
}

// Add validates the input and inserts a new expense owned by owner.
func (s *ExpenseService) Add(owner int64, in ExpenseInput) (*models.Expense, error) {
	e, err := in.validate()
	if err != nil {
		return nil, err
	}
	e.UserID = owner

	id, err := s.db.CreateExpense(e)
	if err != nil {
		return nil, err
	}
	e.ID = id
	return e, nil
}

// Get returns the expense with the given id, enforcing ownership.
func (s *ExpenseService) Get(id, owner int64) (*models.Expense, error) {
	e, err := s.db.GetExpense(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !canAccess(owner, e) {
		return nil, ErrForbidden
	}
	return e, nil
}

// Edit validates the input and applies all field updates in one
// statement, so a record is never left partially updated. The owner is
// immutable.
func (s *ExpenseService) Edit(id, owner int64, in ExpenseInput) (*models.Expense, error) {
	existing, err := s.Get(id, owner)
	if err != nil {
		return nil, err
	}

	e, err := in.validate()
	if err != nil {
		return nil, err
	}
	e.ID = existing.ID
	e.UserID = existing.UserID

	if err := s.db.UpdateExpense(e); err != nil {
		return nil, err
	}
	return e, nil
}

// Delete removes an expense after the same NotFound/Forbidden checks as
// Edit.
func (s *ExpenseService) Delete(id, owner int64) error {
	if _, err := s.Get(id, owner); err != nil {
		return err
	}
	return s.db.DeleteExpense(id)
}

// List returns the owner's expenses sorted by date descending,
// optionally bounded by start/end date strings in YYYY-MM-DD form. An
// unparsable bound is dropped rather than fatal: the query runs with
// the remaining valid bound(s) and a warning is returned for display.
func (s *ExpenseService) List(owner int64, startDate, endDate string) ([]models.Expense, []string, error) {
	var warnings []string

	start := parseBound(startDate, "start", &warnings)
	end := parseBound(endDate, "end", &warnings)

	expenses, err := s.db.ListExpenses(owner, start, end)
	if err != nil {
		return nil, warnings, err
	}
	return expenses, warnings, nil
}

func parseBound(value, which string, warnings *[]string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	t, err := time.Parse(models.DateLayout, value)
	if err != nil {
		*warnings = append(*warnings, fmt.Sprintf("Invalid %s date format. Use YYYY-MM-DD.", which))
		return nil
	}
	return &t
}

// CategoryTotals groups the owner's expenses by exact category string.
// Categories with no expenses are omitted.
func (s *ExpenseService) CategoryTotals(owner int64) ([]models.CategoryTotal, error) {
	return s.db.CategoryTotals(owner)
}

// MonthlyTotals returns exactly 12 buckets, January through December.
// Only the month component of each date counts: the same month across
// years is summed together, and empty months report 0.
func (s *ExpenseService) MonthlyTotals(owner int64) ([]models.MonthTotal, error) {
	sums, err := s.db.MonthTotals(owner)
	if err != nil {
		return nil, err
	}

	totals := make([]models.MonthTotal, 0, 12)
	for m := time.January; m <= time.December; m++ {
		totals = append(totals, models.MonthTotal{Month: m, Total: sums[m]})
	}
	return totals, nil
}

// ExportCSV writes the owner's expenses as CSV: a header row, then one
// row per expense sorted by date descending. Amounts print in their
// shortest decimal form (3.50 becomes 3.5).
func (s *ExpenseService) ExportCSV(owner int64, w io.Writer) error {
	expenses, err := s.db.ListExpenses(owner, nil, nil)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Date", "Description", "Category", "Amount"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range expenses {
		record := []string{
			e.Date.Format(models.DateLayout),
			e.Description,
			e.Category,
			strconv.FormatFloat(e.Amount, 'f', -1, 64),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
