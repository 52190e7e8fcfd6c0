package models

import "time"

// DateLayout is the calendar-date format used everywhere: forms, query
// parameters, storage and CSV export.
const DateLayout = "2006-01-02"

// Expense is a single dated, categorized expense record. Every expense
// has exactly one owner, set at creation and immutable thereafter.
type Expense struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Date        time.Time `json:"date"`
	Category    string    `json:"category"`
	UserID      int64     `json:"user_id"`
}

// User is a registered account.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session is a server-side login session, identified by a random token
// carried in a cookie.
type Session struct {
	Token     string    `json:"token"`
	UserID    int64     `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CategoryTotal is the per-category aggregate shown on the dashboard.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// MonthTotal is one calendar-month bucket of the dashboard bar chart.
// Month runs 1..12; expenses from different years in the same month are
// summed together.
type MonthTotal struct {
	Month time.Month `json:"month"`
	Total float64    `json:"total"`
}
