package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"diet-tracker/internal/models"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrNotFound is returned when a record does not exist or is owned by
// another user. The two cases are deliberately indistinguishable.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateEmail is returned when registering with an email that is
// already taken.
var ErrDuplicateEmail = errors.New("email already registered")

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

	if err := conn.Ping(); err != nil {
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		return nil, err
	}

	return db, nil
}

func (db *DB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			email TEXT UNIQUE NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			token TEXT PRIMARY KEY,
			user_id INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS meals (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			description TEXT NOT NULL,
			is_on_diet BOOLEAN NOT NULL,
			date DATETIME NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		)`,
	}

	for _, m := range migrations {
		if _, err := db.conn.Exec(m); err != nil {
			return err
		}
	}

	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// RegisterUser creates a user and its session in a single transaction.
// The session token is the only credential the user ever holds.
func (db *DB) RegisterUser(name, email, token string) (*models.User, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		"INSERT INTO users (name, email) VALUES (?, ?)",
		name, email,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(
		"INSERT INTO sessions (token, user_id) VALUES (?, ?)",
		token, id,
	); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return db.GetUserByID(id)
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	return errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

// GetUserByID retrieves a user by ID.
func (db *DB) GetUserByID(id int64) (*models.User, error) {
	row := db.conn.QueryRow(
		"SELECT id, name, email, created_at FROM users WHERE id = ?",
		id,
	)

	var u models.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// ResolveSession maps an opaque token to its owning user. Tokens do not
// expire; an unknown token yields ErrNotFound.
func (db *DB) ResolveSession(token string) (*models.User, error) {
	row := db.conn.QueryRow(`
		SELECT u.id, u.name, u.email, u.created_at
		FROM sessions s
		JOIN users u ON s.user_id = u.id
		WHERE s.token = ?
	`, token)

	var u models.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// CreateMeal inserts a new meal owned by the given user.
func (db *DB) CreateMeal(userID int64, name, description string, isOnDiet bool, date time.Time) (*models.Meal, error) {
	result, err := db.conn.Exec(
		"INSERT INTO meals (user_id, name, description, is_on_diet, date) VALUES (?, ?, ?, ?, ?)",
		userID, name, description, isOnDiet, date,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create meal: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return db.GetMeal(userID, id)
}

// GetMeal retrieves a single meal by ID, scoped to its owner. A meal owned
// by another user is reported the same as a missing one.
func (db *DB) GetMeal(userID, id int64) (*models.Meal, error) {
	row := db.conn.QueryRow(
		"SELECT id, user_id, name, description, is_on_diet, date, created_at FROM meals WHERE id = ? AND user_id = ?",
		id, userID,
	)

	var m models.Meal
	if err := row.Scan(&m.ID, &m.UserID, &m.Name, &m.Description, &m.IsOnDiet, &m.Date, &m.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// ListMeals retrieves all meals owned by the given user in creation order.
func (db *DB) ListMeals(userID int64) ([]models.Meal, error) {
	rows, err := db.conn.Query(
		"SELECT id, user_id, name, description, is_on_diet, date, created_at FROM meals WHERE user_id = ? ORDER BY id",
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var meals []models.Meal
	for rows.Next() {
		var m models.Meal
		if err := rows.Scan(&m.ID, &m.UserID, &m.Name, &m.Description, &m.IsOnDiet, &m.Date, &m.CreatedAt); err != nil {
			return nil, err
		}
		meals = append(meals, m)
	}

	return meals, rows.Err()
}

// UpdateMeal replaces the mutable fields of a meal. Ownership never changes.
func (db *DB) UpdateMeal(userID int64, m *models.Meal) error {
	result, err := db.conn.Exec(
		"UPDATE meals SET name = ?, description = ?, is_on_diet = ?, date = ? WHERE id = ? AND user_id = ?",
		m.Name, m.Description, m.IsOnDiet, m.Date, m.ID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update meal: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteMeal removes a meal permanently. Deleting an already deleted meal
// yields ErrNotFound.
func (db *DB) DeleteMeal(userID, id int64) error {
	result, err := db.conn.Exec(
		"DELETE FROM meals WHERE id = ? AND user_id = ?",
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete meal: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// UserCount returns the number of users in the database.
func (db *DB) UserCount() (int, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}
