package pg

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"taskdeck.org/internal/auth"
	"taskdeck.org/internal/task"
)

const pgErrUniqueViolation = "23505"

// Store backs both the credential store and the task repository with a
// shared *sql.DB handle. The handle is injected by the caller, which owns
// its lifecycle.
type Store struct {
	db *sql.DB
}

var (
	_ auth.UserStore = (*Store)(nil)
	_ task.Store     = (*Store)(nil)
)

// NewStore wraps an existing database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open connects to Postgres and returns a Store with tuned pool defaults.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

// --- auth.UserStore ---

func (s *Store) CreateUser(ctx context.Context, username, passwordHash string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		insert into users (username, password)
		values ($1, $2)
		returning id
	`, username, passwordHash).Scan(&id)
	if err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
			return 0, auth.ErrUsernameTaken
		}
		return 0, err
	}
	return id, nil
}

func (s *Store) FindByUsername(ctx context.Context, username string) (auth.User, error) {
	var u auth.User
	err := s.db.QueryRowContext(ctx, `
		select id, username, password, created_at
		from users
		where username = $1
	`, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return auth.User{}, auth.ErrNotFound
	}
	if err != nil {
		return auth.User{}, err
	}
	return u, nil
}

// --- task.Store ---

func (s *Store) CreateTask(ctx context.Context, t task.Task) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		insert into tasks (user_id, title, description, date, completed)
		values ($1, $2, $3, nullif($4, '')::date, $5)
		returning id
	`, t.UserID, t.Title, t.Description, t.Date, t.Completed).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Store) TasksByOwner(ctx context.Context, ownerID int64) ([]task.Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		select id, user_id, title, description, coalesce(to_char(date, 'YYYY-MM-DD'), ''), completed
		from tasks
		where user_id = $1
		order by id
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []task.Task
	for rows.Next() {
		var t task.Task
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Date, &t.Completed); err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Store) TaskByID(ctx context.Context, id, ownerID int64) (task.Task, error) {
	var t task.Task
	err := s.db.QueryRowContext(ctx, `
		select id, user_id, title, description, coalesce(to_char(date, 'YYYY-MM-DD'), ''), completed
		from tasks
		where id = $1 and user_id = $2
	`, id, ownerID).Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Date, &t.Completed)
	if errors.Is(err, sql.ErrNoRows) {
		return task.Task{}, task.ErrNotFound
	}
	if err != nil {
		return task.Task{}, err
	}
	return t, nil
}

// UpdateTask performs the ownership check and the mutation in one
// conditional statement; a zero row count means absent-or-foreign.
func (s *Store) UpdateTask(ctx context.Context, t task.Task) error {
	res, err := s.db.ExecContext(ctx, `
		update tasks
		set title = $1, description = $2, date = nullif($3, '')::date, completed = $4
		where id = $5 and user_id = $6
	`, t.Title, t.Description, t.Date, t.Completed, t.ID, t.UserID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return task.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteTask(ctx context.Context, id, ownerID int64) error {
	res, err := s.db.ExecContext(ctx, `
		delete from tasks
		where id = $1 and user_id = $2
	`, id, ownerID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return task.ErrNotFound
	}
	return nil
}

func maybePgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}
