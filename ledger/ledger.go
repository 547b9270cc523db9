// Package ledger stores users and their tasks in a single sqlite file.
//
// The ledger is the only component that touches the database, every
// operation is scoped by user so one user can never read or write
// entries that belong to somebody else.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	sqlite3 "github.com/mattn/go-sqlite3"
)

type (
	Ledger struct {
		db *sql.DB
	}

	User struct {
		ID           int64
		Username     string
		PasswordHash string
	}
)

func openLedgerDatabase(ctx context.Context, path string) (*sql.DB, error) {
	connstr := fmt.Sprintf("file:%v?_journal=wal&_fk=true&mode=rwc", path)
	conn, err := sql.Open("sqlite3", connstr)
	if err != nil {
		return nil, fmt.Errorf("unable to open %v, cause %w", path, err)
	}
	err = conn.PingContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to ping ledger %v, cause %w", path, err)
	}
	return conn, nil
}

// Open loads the ledger stored at path, creating the file and the
// schema when missing.
func Open(ctx context.Context, path string) (*Ledger, error) {
	conn, err := openLedgerDatabase(ctx, path)
	if err != nil {
		return nil, err
	}
	l := &Ledger{db: conn}
	err = l.init(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to init ledger %v, cause %w", path, err)
	}
	return l, nil
}

// InsertUser adds a new user with the given password hash (computed by
// the caller, the ledger never sees plaintext passwords) and returns
// its id.
func (l *Ledger) InsertUser(ctx context.Context, username string, passwordHash string) (int64, error) {
	username, userHash := normalizeUsername(username)
	if username == "" {
		return 0, InvalidInput{Field: "username", Reason: "must be a non-empty string"}
	}
	if strings.TrimSpace(passwordHash) == "" {
		return 0, InvalidInput{Field: "password_hash", Reason: "must be a non-empty string"}
	}
	var id int64
	err := l.db.QueryRowContext(ctx, `insert into users (username, username_hash64, password_hash) values (?, ?, ?) returning user_id`,
		username, userHash, passwordHash).Scan(&id)
	if isUniqueViolation(err) {
		return 0, UsernameTaken{Username: username}
	} else if err != nil {
		return 0, fmt.Errorf("unable to insert user %v, cause %w", username, err)
	}
	return id, nil
}

// UserByUsername returns the user registered under username or
// UserNotFound when there is no such user.
func (l *Ledger) UserByUsername(ctx context.Context, username string) (*User, error) {
	username, userHash := normalizeUsername(username)
	if username == "" {
		return nil, InvalidInput{Field: "username", Reason: "must be a non-empty string"}
	}
	var u User
	err := l.db.QueryRowContext(ctx, `select user_id, username, password_hash from users where username_hash64 = ? and username = ?`,
		userHash, username).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, UserNotFound{Username: username}
	} else if err != nil {
		return nil, fmt.Errorf("unable to load user %v, cause %w", username, err)
	}
	return &u, nil
}

// UserByID returns the user with the given id or UserNotFound when the
// user does not exist (anymore).
func (l *Ledger) UserByID(ctx context.Context, id int64) (*User, error) {
	if id <= 0 {
		return nil, InvalidInput{Field: "user_id", Reason: "must be a positive integer"}
	}
	var u User
	err := l.db.QueryRowContext(ctx, `select user_id, username, password_hash from users where user_id = ?`,
		id).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, UserNotFound{ID: id}
	} else if err != nil {
		return nil, fmt.Errorf("unable to load user %v, cause %w", id, err)
	}
	return &u, nil
}

// DeleteUser removes the user with the given id. Tokens issued for
// that user keep a valid signature but stop passing the gate, which is
// exactly the point.
func (l *Ledger) DeleteUser(ctx context.Context, id int64) error {
	if id <= 0 {
		return InvalidInput{Field: "user_id", Reason: "must be a positive integer"}
	}
	res, err := l.db.ExecContext(ctx, `delete from users where user_id = ?`, id)
	if err != nil {
		return fmt.Errorf("unable to delete user %v, cause %w", id, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("unable to delete user %v, cause %w", id, err)
	}
	if count == 0 {
		return UserNotFound{ID: id}
	}
	return nil
}

func normalizeUsername(username string) (string, int64) {
	username = strings.TrimSpace(username)
	return username, int64(xxhash.Sum64String(username))
}

func isUniqueViolation(err error) bool {
	var serr sqlite3.Error
	return errors.As(err, &serr) && serr.ExtendedCode == sqlite3.ErrConstraintUnique
}

func (l *Ledger) init(ctx context.Context) error {
	for _, cmd := range []string{
		`create table if not exists users(
			user_id integer primary key autoincrement,
			username text not null unique,
			username_hash64 integer not null,
			password_hash text not null
		)`,
		`create index if not exists idx_users_username_hash64
			on users(username_hash64)
		`,
		`create table if not exists tasks(
			task_id integer primary key autoincrement,
			user_id integer not null,
			title text not null,
			description text not null default '',
			due_date timestamp,
			is_completed boolean not null default false,
			foreign key (user_id) references users(user_id)
		)`,
		`create index if not exists idx_tasks_user_id
			on tasks(user_id)
		`,
	} {
		_, err := l.db.ExecContext(ctx, cmd)
		if err != nil {
			return err
		}
	}
	return nil
}

func (l *Ledger) Close() error {
	return l.db.Close()
}
