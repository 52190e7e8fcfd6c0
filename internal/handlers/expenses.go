package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"spendlog/internal/models"
	"spendlog/internal/service"
)

// ListViewModel is the data passed to the expense list template.
type ListViewModel struct {
	Expenses  []models.Expense
	Warnings  []string
	Total     float64
	StartDate string
	EndDate   string
}

// FormViewModel is the data passed to the add/edit form template.
type FormViewModel struct {
	IsEdit bool
	ID     int64
	Error  string
	Input  service.ExpenseInput
}

// ListExpenses renders the authenticated user's expenses, optionally
// filtered by start_date/end_date query parameters. An unparsable bound
// is ignored and reported as a warning instead of failing the listing.
func (h *Handlers) ListExpenses(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	startDate := r.URL.Query().Get("start_date")
	endDate := r.URL.Query().Get("end_date")

	expenses, warnings, err := h.expenses.List(user.ID, startDate, endDate)
	if err != nil {
		h.logger.Error("list expenses failed", "error", err, "user_id", user.ID)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	var total float64
	for _, e := range expenses {
		total += e.Amount
	}

	h.render(w, r, "expenses.html", ListViewModel{
		Expenses:  expenses,
		Warnings:  warnings,
		Total:     total,
		StartDate: startDate,
		EndDate:   endDate,
	})
}

// AddExpenseForm renders the form to create a new expense.
func (h *Handlers) AddExpenseForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "expense_form.html", FormViewModel{})
}

// AddExpense handles the creation of a new expense.
func (h *Handlers) AddExpense(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	input, err := parseExpenseForm(r)
	if err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	if _, err := h.expenses.Add(user.ID, input); err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			h.render(w, r, "expense_form.html", FormViewModel{Error: verr.Reason, Input: input})
			return
		}
		h.logger.Error("add expense failed", "error", err, "user_id", user.ID)
		h.setFlash(w, "danger", "Error adding expense.")
		http.Redirect(w, r, "/add", http.StatusFound)
		return
	}

	h.setFlash(w, "success", "Expense added successfully!")
	http.Redirect(w, r, "/expenses", http.StatusFound)
}

// EditExpenseForm renders the form to edit an existing expense,
// pre-filled with its current values.
func (h *Handlers) EditExpenseForm(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.expenseError(w, r, service.ErrNotFound, "edit")
		return
	}

	expense, err := h.expenses.Get(id, user.ID)
	if err != nil {
		h.expenseError(w, r, err, "edit")
		return
	}

	h.render(w, r, "expense_form.html", FormViewModel{
		IsEdit: true,
		ID:     expense.ID,
		Input: service.ExpenseInput{
			Description: expense.Description,
			Amount:      strconv.FormatFloat(expense.Amount, 'f', -1, 64),
			Date:        expense.Date.Format(models.DateLayout),
			Category:    expense.Category,
		},
	})
}

// EditExpense handles the update of an existing expense.
func (h *Handlers) EditExpense(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.expenseError(w, r, service.ErrNotFound, "edit")
		return
	}

	input, err := parseExpenseForm(r)
	if err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	if _, err := h.expenses.Edit(id, user.ID, input); err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			h.render(w, r, "expense_form.html", FormViewModel{IsEdit: true, ID: id, Error: verr.Reason, Input: input})
			return
		}
		h.expenseError(w, r, err, "edit")
		return
	}

	h.setFlash(w, "success", "Expense updated successfully!")
	http.Redirect(w, r, "/expenses", http.StatusFound)
}

// DeleteExpense removes an expense owned by the authenticated user.
func (h *Handlers) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.expenseError(w, r, service.ErrNotFound, "delete")
		return
	}

	if err := h.expenses.Delete(id, user.ID); err != nil {
		h.expenseError(w, r, err, "delete")
		return
	}

	h.setFlash(w, "success", "Expense deleted successfully!")
	http.Redirect(w, r, "/expenses", http.StatusFound)
}

// expenseError surfaces NotFound/Forbidden/storage failures as a flash
// and sends the user back to the list. Nothing is swallowed silently.
func (h *Handlers) expenseError(w http.ResponseWriter, r *http.Request, err error, action string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		h.setFlash(w, "danger", "Expense not found.")
	case errors.Is(err, service.ErrForbidden):
		h.setFlash(w, "danger", "You are not authorized to "+action+" this expense.")
	default:
		h.logger.Error("expense operation failed", "action", action, "error", err)
		h.setFlash(w, "danger", "An error occurred. Please try again.")
	}
	http.Redirect(w, r, "/expenses", http.StatusFound)
}

func parseExpenseForm(r *http.Request) (service.ExpenseInput, error) {
	if err := r.ParseForm(); err != nil {
		return service.ExpenseInput{}, err
	}
	return service.ExpenseInput{
		Description: r.FormValue("description"),
		Amount:      r.FormValue("amount"),
		Date:        r.FormValue("date"),
		Category:    r.FormValue("category"),
	}, nil
}
