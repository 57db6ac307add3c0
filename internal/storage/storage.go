package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"planner/internal/duedate"
)

type Task struct {
	ID       int64
	Title    string
	Category string
	Due      string
	Done     bool
	Deleted  bool
}

type Stats struct {
	Total     int
	Completed int
}

type Store struct {
	db  *sql.DB
	now func() time.Time
}

type Option func(*Store)

// WithClock sets the clock used to resolve relative due dates.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func Open(ctx context.Context, dbPath string, opts ...Option) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if !strings.HasPrefix(dbPath, "file:") {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", sqliteDSN(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS todos (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT,
	category TEXT,
	due TEXT,
	done INTEGER DEFAULT 0,
	deleted INTEGER DEFAULT 0
);`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return s.ensureTodoColumns(ctx)
}

// ensureTodoColumns upgrades tables created by older builds that predate
// categories, due dates or soft deletion.
func (s *Store) ensureTodoColumns(ctx context.Context) error {
	required := map[string]string{
		"category": "ALTER TABLE todos ADD COLUMN category TEXT;",
		"due":      "ALTER TABLE todos ADD COLUMN due TEXT;",
		"done":     "ALTER TABLE todos ADD COLUMN done INTEGER DEFAULT 0;",
		"deleted":  "ALTER TABLE todos ADD COLUMN deleted INTEGER DEFAULT 0;",
	}
	existing := map[string]struct{}{}
	rows, err := s.db.QueryContext(ctx, `PRAGMA table_info(todos);`)
	if err != nil {
		return fmt.Errorf("table info: %w", err)
	}
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			rows.Close()
			return fmt.Errorf("table info scan: %w", err)
		}
		existing[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("table info rows: %w", err)
	}
	rows.Close()

	for col, alter := range required {
		if _, ok := existing[col]; ok {
			continue
		}
		if _, err := s.db.ExecContext(ctx, alter); err != nil {
			return fmt.Errorf("migrate alter %s: %w", col, err)
		}
	}
	return nil
}

// AddTask stores a new open task. dueRaw is normalized against the store's clock.
func (s *Store) AddTask(ctx context.Context, title, category, dueRaw string) (int64, error) {
	due := duedate.Normalize(dueRaw, s.now())
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO todos (title, category, due, done, deleted) VALUES (?, ?, ?, 0, 0);`,
		title, category, due)
	if err != nil {
		return 0, fmt.Errorf("todo insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("todo last insert id: %w", err)
	}
	return id, nil
}

func (s *Store) MarkDone(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `UPDATE todos SET done = 1 WHERE id = ? AND done = 0;`, id)
	if err != nil {
		return fmt.Errorf("todo mark done: %w", err)
	}
	return nil
}

func (s *Store) SoftDelete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `UPDATE todos SET deleted = 1 WHERE id = ? AND deleted = 0;`, id)
	if err != nil {
		return fmt.Errorf("todo soft delete: %w", err)
	}
	return nil
}

// ListActive returns open, non-deleted tasks matching p, newest first.
func (s *Store) ListActive(ctx context.Context, p Predicate) ([]Task, error) {
	clause, args := p.clause()
	return s.list(ctx, `
		SELECT id, title, category, due, done, deleted
		FROM todos
		WHERE deleted = 0 AND done = 0`+clause+`
		ORDER BY id DESC;`, args...)
}

// ListCompleted returns done, non-deleted tasks, newest first.
func (s *Store) ListCompleted(ctx context.Context) ([]Task, error) {
	return s.list(ctx, `
		SELECT id, title, category, due, done, deleted
		FROM todos
		WHERE deleted = 0 AND done = 1
		ORDER BY id DESC;`)
}

// Stats counts non-deleted tasks matching p, done or not, and how many of them are done.
func (s *Store) Stats(ctx context.Context, p Predicate) (Stats, error) {
	clause, args := p.clause()
	row := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN done = 1 THEN 1 ELSE 0 END), 0)
		FROM todos
		WHERE deleted = 0`+clause+`;`, args...)
	var st Stats
	if err := row.Scan(&st.Total, &st.Completed); err != nil {
		return Stats{}, fmt.Errorf("todo stats: %w", err)
	}
	return st, nil
}

// Get returns the task with the given id, deleted or not. It returns nil when
// no such task exists.
func (s *Store) Get(ctx context.Context, id int64) (*Task, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, category, due, done, deleted
		FROM todos
		WHERE id = ?;`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) list(ctx context.Context, query string, args ...any) ([]Task, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("todo list: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("todo list rows: %w", err)
	}
	return tasks, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (Task, error) {
	var t Task
	var title, category, due sql.NullString
	var done, deleted sql.NullInt64
	if err := row.Scan(&t.ID, &title, &category, &due, &done, &deleted); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Task{}, err
		}
		return Task{}, fmt.Errorf("todo scan: %w", err)
	}
	t.Title = title.String
	t.Category = category.String
	t.Due = due.String
	t.Done = done.Int64 != 0
	t.Deleted = deleted.Int64 != 0
	return t, nil
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
