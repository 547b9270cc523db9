package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

type (
	Task struct {
		ID          int64
		UserID      int64
		Title       string
		Description string
		DueDate     *time.Time
		IsCompleted bool
	}
)

// InsertTask stores a new task for t.UserID and returns its id.
// Title is the only required field.
func (l *Ledger) InsertTask(ctx context.Context, t Task) (int64, error) {
	if t.UserID <= 0 {
		return 0, InvalidInput{Field: "user_id", Reason: "must be a positive integer"}
	}
	if strings.TrimSpace(t.Title) == "" {
		return 0, InvalidInput{Field: "title", Reason: "is required for creating a task"}
	}
	var id int64
	err := l.db.QueryRowContext(ctx, `insert into tasks (user_id, title, description, due_date, is_completed) values (?, ?, ?, ?, ?) returning task_id`,
		t.UserID, t.Title, t.Description, t.DueDate, t.IsCompleted).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("unable to insert task for user %v, cause %w", t.UserID, err)
	}
	return id, nil
}

// TaskByID loads one task owned by userID. Tasks that exist but belong
// to another user are indistinguishable from missing ones.
func (l *Ledger) TaskByID(ctx context.Context, userID, taskID int64) (*Task, error) {
	if taskID <= 0 {
		return nil, InvalidInput{Field: "task_id", Reason: "must be a positive integer"}
	}
	var t Task
	err := l.db.QueryRowContext(ctx, `select task_id, user_id, title, description, due_date, is_completed from tasks where user_id = ? and task_id = ?`,
		userID, taskID).Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.DueDate, &t.IsCompleted)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, TaskNotFound{ID: taskID}
	} else if err != nil {
		return nil, fmt.Errorf("unable to load task %v, cause %w", taskID, err)
	}
	return &t, nil
}

// TasksByUser lists every task owned by userID, oldest first.
func (l *Ledger) TasksByUser(ctx context.Context, userID int64) ([]Task, error) {
	if userID <= 0 {
		return nil, InvalidInput{Field: "user_id", Reason: "must be a positive integer"}
	}
	rows, err := l.db.QueryContext(ctx, `select task_id, user_id, title, description, due_date, is_completed from tasks where user_id = ? order by task_id asc`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("unable to list tasks for user %v, cause %w", userID, err)
	}
	defer rows.Close()
	out := []Task{}
	for rows.Next() {
		var t Task
		err = rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.DueDate, &t.IsCompleted)
		if err != nil {
			return nil, fmt.Errorf("unable to scan task for user %v, cause %w", userID, err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// UpdateTask overwrites the task t.ID as long as it is owned by
// userID, returning TaskNotFound otherwise.
func (l *Ledger) UpdateTask(ctx context.Context, userID int64, t Task) error {
	if t.ID <= 0 {
		return InvalidInput{Field: "task_id", Reason: "must be a positive integer"}
	}
	if strings.TrimSpace(t.Title) == "" {
		return InvalidInput{Field: "title", Reason: "is required for updating a task"}
	}
	res, err := l.db.ExecContext(ctx, `update tasks set title = ?, description = ?, due_date = ?, is_completed = ? where user_id = ? and task_id = ?`,
		t.Title, t.Description, t.DueDate, t.IsCompleted, userID, t.ID)
	if err != nil {
		return fmt.Errorf("unable to update task %v, cause %w", t.ID, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("unable to update task %v, cause %w", t.ID, err)
	}
	if count == 0 {
		return TaskNotFound{ID: t.ID}
	}
	return nil
}

// DeleteTask removes the task as long as it is owned by userID.
func (l *Ledger) DeleteTask(ctx context.Context, userID, taskID int64) error {
	if taskID <= 0 {
		return InvalidInput{Field: "task_id", Reason: "must be a positive integer"}
	}
	res, err := l.db.ExecContext(ctx, `delete from tasks where user_id = ? and task_id = ?`, userID, taskID)
	if err != nil {
		return fmt.Errorf("unable to delete task %v, cause %w", taskID, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("unable to delete task %v, cause %w", taskID, err)
	}
	if count == 0 {
		return TaskNotFound{ID: taskID}
	}
	return nil
}
