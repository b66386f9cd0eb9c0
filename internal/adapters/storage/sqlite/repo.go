package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hylla/tablero/internal/app"
	"github.com/hylla/tablero/internal/domain"
	_ "modernc.org/sqlite"
)

// driverName defines a package constant value.
const driverName = "sqlite"

// Repository persists record collections in a sqlite database.
type Repository struct {
	db            *sql.DB
	items         *table[domain.Item]
	employees     *table[domain.Employee]
	opportunities *table[domain.Opportunity]
}

// Open opens the database at path, creating its directory and schema as needed.
func Open(path string) (*Repository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return newRepository(db)
}

// OpenInMemory opens a private in-memory database.
func OpenInMemory() (*Repository, error) {
	db, err := sql.Open(driverName, ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open sqlite memory: %w", err)
	}
	// every pooled connection would otherwise get its own empty database
	db.SetMaxOpenConns(1)
	return newRepository(db)
}

func newRepository(db *sql.DB) (*Repository, error) {
	repo := &Repository{
		db:            db,
		items:         newItemTable(db),
		employees:     newEmployeeTable(db),
		opportunities: newOpportunityTable(db),
	}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// Close closes the requested operation.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Items returns the item table.
func (r *Repository) Items() app.Table[domain.Item] { return r.items }

// Employees returns the employee table.
func (r *Repository) Employees() app.Table[domain.Employee] { return r.employees }

// Opportunities returns the opportunity table.
func (r *Repository) Opportunities() app.Table[domain.Opportunity] { return r.opportunities }

// Ping reports whether the database is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// migrate handles migrate.
func (r *Repository) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS items (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			role TEXT NOT NULL,
			status TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS employees (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			phone TEXT NOT NULL DEFAULT '',
			position TEXT NOT NULL DEFAULT '',
			department TEXT NOT NULL,
			hire_date TEXT NOT NULL,
			status TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS opportunities (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			client TEXT NOT NULL,
			value REAL NOT NULL DEFAULT 0,
			status TEXT NOT NULL,
			priority TEXT NOT NULL,
			deadline TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT ''
		)`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return nil
}

// scanner abstracts *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// table maps one record kind onto a sqlite table ordered by its seq column.
type table[T app.Identified] struct {
	db      *sql.DB
	name    string
	columns []string
	values  func(T) []any
	scan    func(scanner) (T, error)
}

func (t *table[T]) List(ctx context.Context) ([]T, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY seq ASC`, strings.Join(t.columns, ", "), t.name)
	rows, err := t.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.name, err)
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		record, err := t.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.name, err)
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

func (t *table[T]) Insert(ctx context.Context, record T) error {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(t.columns)), ", ")
	query := fmt.Sprintf(`INSERT INTO %s(%s) VALUES (%s)`, t.name, strings.Join(t.columns, ", "), placeholders)
	if _, err := t.db.ExecContext(ctx, query, t.values(record)...); err != nil {
		return fmt.Errorf("insert %s: %w", t.name, err)
	}
	return nil
}

func (t *table[T]) Replace(ctx context.Context, record T) error {
	assignments := make([]string, 0, len(t.columns)-1)
	for _, column := range t.columns[1:] {
		assignments = append(assignments, column+" = ?")
	}
	values := t.values(record)
	args := append(values[1:], record.RecordID())
	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = ?`, t.name, strings.Join(assignments, ", "))
	res, err := t.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", t.name, err)
	}
	return translateNoRows(res)
}

func (t *table[T]) Remove(ctx context.Context, id string) error {
	res, err := t.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, t.name), id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", t.name, err)
	}
	return translateNoRows(res)
}

func newItemTable(db *sql.DB) *table[domain.Item] {
	return &table[domain.Item]{
		db:      db,
		name:    "items",
		columns: []string{"id", "name", "email", "role", "status", "created_at"},
		values: func(i domain.Item) []any {
			return []any{i.ID, i.Name, i.Email, string(i.Role), string(i.Status), i.CreatedAt.String()}
		},
		scan: func(s scanner) (domain.Item, error) {
			var (
				i                       domain.Item
				role, status, createdAt string
			)
			if err := s.Scan(&i.ID, &i.Name, &i.Email, &role, &status, &createdAt); err != nil {
				return domain.Item{}, err
			}
			i.Role = domain.Role(role)
			i.Status = domain.Status(status)
			i.CreatedAt = domain.Date(createdAt)
			return i, nil
		},
	}
}

func newEmployeeTable(db *sql.DB) *table[domain.Employee] {
	return &table[domain.Employee]{
		db:      db,
		name:    "employees",
		columns: []string{"id", "name", "email", "phone", "position", "department", "hire_date", "status"},
		values: func(e domain.Employee) []any {
			return []any{e.ID, e.Name, e.Email, e.Phone, e.Position, string(e.Department), e.HireDate.String(), string(e.Status)}
		},
		scan: func(s scanner) (domain.Employee, error) {
			var (
				e                            domain.Employee
				department, hireDate, status string
			)
			if err := s.Scan(&e.ID, &e.Name, &e.Email, &e.Phone, &e.Position, &department, &hireDate, &status); err != nil {
				return domain.Employee{}, err
			}
			e.Department = domain.Department(department)
			e.HireDate = domain.Date(hireDate)
			e.Status = domain.Status(status)
			return e, nil
		},
	}
}

func newOpportunityTable(db *sql.DB) *table[domain.Opportunity] {
	return &table[domain.Opportunity]{
		db:      db,
		name:    "opportunities",
		columns: []string{"id", "title", "client", "value", "status", "priority", "deadline", "description"},
		values: func(o domain.Opportunity) []any {
			return []any{o.ID, o.Title, o.Client, o.Value, string(o.Status), string(o.Priority), o.Deadline.String(), o.Description}
		},
		scan: func(s scanner) (domain.Opportunity, error) {
			var (
				o                          domain.Opportunity
				status, priority, deadline string
			)
			if err := s.Scan(&o.ID, &o.Title, &o.Client, &o.Value, &status, &priority, &deadline, &o.Description); err != nil {
				return domain.Opportunity{}, err
			}
			o.Status = domain.Stage(status)
			o.Priority = domain.Priority(priority)
			o.Deadline = domain.Date(deadline)
			return o, nil
		},
	}
}

// translateNoRows maps a write that touched no row to app.ErrNotFound.
func translateNoRows(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return app.ErrNotFound
	}
	return nil
}
