package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"spendlog/internal/models"

	// Import sqlite driver
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection.
type DB struct {
	conn *sql.DB
}

// NewDB opens a database connection and runs migrations.
func NewDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// A pooled ":memory:" handle would open a fresh empty database per
	// connection; writes serialize in SQLite anyway.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, err
	}

	if err := runMigrations(conn); err != nil {
		conn.Close()
		return nil, err
	}

	return &DB{conn: conn}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// CreateExpense inserts a new expense owned by e.UserID and returns its id.
func (db *DB) CreateExpense(e *models.Expense) (int64, error) {
	result, err := db.conn.Exec(
		"INSERT INTO expenses (description, amount, date, category, user_id) VALUES (?, ?, ?, ?, ?)",
		e.Description, e.Amount, e.Date.Format(models.DateLayout), e.Category, e.UserID,
	)
	if err != nil {
		return 0, fmt.Errorf("insert expense: %w", err)
	}
	return result.LastInsertId()
}

// GetExpense retrieves a single expense by ID, including its owner.
func (db *DB) GetExpense(id int64) (*models.Expense, error) {
	row := db.conn.QueryRow(
		"SELECT id, description, amount, date, category, user_id FROM expenses WHERE id = ?",
		id,
	)
	return scanExpense(row)
}

// UpdateExpense rewrites all mutable fields of an expense in one
// statement. The owner column is never touched.
func (db *DB) UpdateExpense(e *models.Expense) error {
	_, err := db.conn.Exec(
		"UPDATE expenses SET description = ?, amount = ?, date = ?, category = ? WHERE id = ?",
		e.Description, e.Amount, e.Date.Format(models.DateLayout), e.Category, e.ID,
	)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	return nil
}

// DeleteExpense removes an expense by ID.
func (db *DB) DeleteExpense(id int64) error {
	_, err := db.conn.Exec("DELETE FROM expenses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return nil
}

// ListExpenses returns a user's expenses ordered by date descending,
// optionally constrained to start <= date <= end.
func (db *DB) ListExpenses(userID int64, start, end *time.Time) ([]models.Expense, error) {
	query := "SELECT id, description, amount, date, category, user_id FROM expenses WHERE user_id = ?"
	args := []any{userID}

	// Dates are stored as YYYY-MM-DD text, so string comparison is
	// chronological.
	if start != nil {
		query += " AND date >= ?"
		args = append(args, start.Format(models.DateLayout))
	}
	if end != nil {
		query += " AND date <= ?"
		args = append(args, end.Format(models.DateLayout))
	}
	query += " ORDER BY date DESC, id DESC"

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, *e)
	}
	return expenses, rows.Err()
}

// CategoryTotals sums a user's expenses per category. Categories with no
// expenses do not appear.
func (db *DB) CategoryTotals(userID int64) ([]models.CategoryTotal, error) {
	rows, err := db.conn.Query(
		"SELECT category, SUM(amount) FROM expenses WHERE user_id = ? GROUP BY category",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("category totals: %w", err)
	}
	defer rows.Close()

	var totals []models.CategoryTotal
	for rows.Next() {
		var ct models.CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Total); err != nil {
			return nil, err
		}
		totals = append(totals, ct)
	}
	return totals, rows.Err()
}

// MonthTotals sums a user's expenses per calendar month (1..12), folding
// years together. Only months with expenses appear; callers fill in the
// empty ones.
func (db *DB) MonthTotals(userID int64) (map[time.Month]float64, error) {
	rows, err := db.conn.Query(
		"SELECT CAST(strftime('%m', date) AS INTEGER), SUM(amount) FROM expenses WHERE user_id = ? GROUP BY 1",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("month totals: %w", err)
	}
	defer rows.Close()

	totals := make(map[time.Month]float64)
	for rows.Next() {
		var month int
		var total float64
		if err := rows.Scan(&month, &total); err != nil {
			return nil, err
		}
		totals[time.Month(month)] = total
	}
	return totals, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (*models.Expense, error) {
	var e models.Expense
	var date string
	if err := row.Scan(&e.ID, &e.Description, &e.Amount, &date, &e.Category, &e.UserID); err != nil {
		return nil, err
	}
	parsed, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("parse stored date %q: %w", date, err)
	}
	e.Date = parsed
	return &e, nil
}

// CreateUser creates a new user with the given username and password hash.
func (db *DB) CreateUser(username, passwordHash string) (*models.User, error) {
	result, err := db.conn.Exec(
		"INSERT INTO users (username, password_hash) VALUES (?, ?)",
		username, passwordHash,
	)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return db.GetUserByID(id)
}

// GetUserByID retrieves a user by ID.
func (db *DB) GetUserByID(id int64) (*models.User, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, password_hash, created_at FROM users WHERE id = ?",
		id,
	)

	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByUsername retrieves a user by username.
func (db *DB) GetUserByUsername(username string) (*models.User, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, password_hash, created_at FROM users WHERE username = ?",
		username,
	)

	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// UserCount returns the number of users in the database.
func (db *DB) UserCount() (int, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}

// CreateSession creates a new session for a user.
func (db *DB) CreateSession(token string, userID int64, expiresAt time.Time) error {
	_, err := db.conn.Exec(
		"INSERT INTO sessions (token, user_id, expires_at, last_activity) VALUES (?, ?, ?, ?)",
		token, userID, expiresAt, time.Now(),
	)
	return err
}

// SessionInfo holds session validation data.
type SessionInfo struct {
	User         *models.User
	LastActivity time.Time
	ExpiresAt    time.Time
}

// ValidateSession checks if a session token is valid and returns the
// associated user.
func (db *DB) ValidateSession(token string) (*models.User, error) {
	info, err := db.ValidateSessionWithInfo(token)
	if err != nil {
		return nil, err
	}
	return info.User, nil
}

// ErrSessionExpired is returned when a session exists but its expiry has
// passed.
var ErrSessionExpired = errors.New("session expired")

// ValidateSessionWithInfo checks if a session token is valid and returns
// session details.
func (db *DB) ValidateSessionWithInfo(token string) (*SessionInfo, error) {
	row := db.conn.QueryRow(`
		SELECT u.id, u.username, u.password_hash, u.created_at, s.last_activity, s.expires_at
		FROM sessions s
		JOIN users u ON s.user_id = u.id
		WHERE s.token = ?
	`, token)

	var u models.User
	var lastActivity, expiresAt time.Time
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt, &lastActivity, &expiresAt); err != nil {
		return nil, err
	}
	if !expiresAt.After(time.Now()) {
		return nil, ErrSessionExpired
	}
	return &SessionInfo{
		User:         &u,
		LastActivity: lastActivity,
		ExpiresAt:    expiresAt,
	}, nil
}

// RenewSession updates the last_activity and expires_at for a session.
func (db *DB) RenewSession(token string, newExpiresAt time.Time) error {
	_, err := db.conn.Exec(
		"UPDATE sessions SET last_activity = ?, expires_at = ? WHERE token = ?",
		time.Now(), newExpiresAt, token,
	)
	return err
}

// DeleteSession removes a session by token.
func (db *DB) DeleteSession(token string) error {
	_, err := db.conn.Exec("DELETE FROM sessions WHERE token = ?", token)
	return err
}

// CleanExpiredSessions removes all expired sessions.
func (db *DB) CleanExpiredSessions() error {
	_, err := db.conn.Exec("DELETE FROM sessions WHERE expires_at <= ?", time.Now())
	return err
}
