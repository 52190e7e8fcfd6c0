package handlers

import (
	"encoding/json"
	"html/template"
	"net/http"

	"spendlog/internal/models"
)

// DashboardViewModel carries both aggregates plus their JSON form for
// the chart script.
type DashboardViewModel struct {
	Categories []models.CategoryTotal
	Months     []models.MonthTotal

	CategoryLabelsJSON template.JS
	CategoryValuesJSON template.JS
	MonthLabelsJSON    template.JS
	MonthValuesJSON    template.JS
}

// Dashboard renders per-category and per-month spending totals for the
// authenticated user. The pie chart omits empty categories; the bar
// chart always shows all 12 months.
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)

	categories, err := h.expenses.CategoryTotals(user.ID)
	if err != nil {
		h.logger.Error("category totals failed", "error", err, "user_id", user.ID)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	months, err := h.expenses.MonthlyTotals(user.ID)
	if err != nil {
		h.logger.Error("monthly totals failed", "error", err, "user_id", user.ID)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	catLabels := make([]string, 0, len(categories))
	catValues := make([]float64, 0, len(categories))
	for _, c := range categories {
		catLabels = append(catLabels, c.Category)
		catValues = append(catValues, c.Total)
	}

	monthLabels := make([]string, 0, 12)
	monthValues := make([]float64, 0, 12)
	for _, m := range months {
		monthLabels = append(monthLabels, m.Month.String()[:3])
		monthValues = append(monthValues, m.Total)
	}

	h.render(w, r, "dashboard.html", DashboardViewModel{
		Categories:         categories,
		Months:             months,
		CategoryLabelsJSON: mustJSON(catLabels),
		CategoryValuesJSON: mustJSON(catValues),
		MonthLabelsJSON:    mustJSON(monthLabels),
		MonthValuesJSON:    mustJSON(monthValues),
	})
}

func mustJSON(v any) template.JS {
	b, err := json.Marshal(v)
	if err != nil {
		return template.JS("[]")
	}
	return template.JS(b)
}
