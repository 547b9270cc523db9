package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTaskLifecycle(t *testing.T) {
	ctx := context.Background()
	book, cleanup := tempLedger(ctx, t, "tasks")
	defer cleanup()
	alice := mustInsertUser(ctx, t, book, "alice")

	due := time.Date(2026, time.October, 1, 12, 0, 0, 0, time.UTC)
	id, err := book.InsertTask(ctx, Task{
		UserID:      alice,
		Title:       "buy milk",
		Description: "the lactose free one",
		DueDate:     &due,
	})
	require.NoError(t, err)

	task, err := book.TaskByID(ctx, alice, id)
	require.NoError(t, err)
	require.Equal(t, "buy milk", task.Title)
	require.Equal(t, "the lactose free one", task.Description)
	require.NotNil(t, task.DueDate)
	require.True(t, due.Equal(*task.DueDate))
	require.False(t, task.IsCompleted)

	task.IsCompleted = true
	task.Title = "buy oat milk"
	require.NoError(t, book.UpdateTask(ctx, alice, *task))
	updated, err := book.TaskByID(ctx, alice, id)
	require.NoError(t, err)
	require.Equal(t, "buy oat milk", updated.Title)
	require.True(t, updated.IsCompleted)

	require.NoError(t, book.DeleteTask(ctx, alice, id))
	_, err = book.TaskByID(ctx, alice, id)
	require.ErrorAs(t, err, &TaskNotFound{})
}

func TestTasksAreScopedByUser(t *testing.T) {
	ctx := context.Background()
	book, cleanup := tempLedger(ctx, t, "scoping")
	defer cleanup()
	alice := mustInsertUser(ctx, t, book, "alice")
	bob := mustInsertUser(ctx, t, book, "bob")

	aliceTask, err := book.InsertTask(ctx, Task{UserID: alice, Title: "alice's"})
	require.NoError(t, err)
	_, err = book.InsertTask(ctx, Task{UserID: bob, Title: "bob's"})
	require.NoError(t, err)

	// bob cannot see, change or remove alice's task
	_, err = book.TaskByID(ctx, bob, aliceTask)
	require.ErrorAs(t, err, &TaskNotFound{})
	err = book.UpdateTask(ctx, bob, Task{ID: aliceTask, Title: "hijacked"})
	require.ErrorAs(t, err, &TaskNotFound{})
	err = book.DeleteTask(ctx, bob, aliceTask)
	require.ErrorAs(t, err, &TaskNotFound{})

	aliceList, err := book.TasksByUser(ctx, alice)
	require.NoError(t, err)
	require.Len(t, aliceList, 1)
	require.Equal(t, "alice's", aliceList[0].Title)

	bobList, err := book.TasksByUser(ctx, bob)
	require.NoError(t, err)
	require.Len(t, bobList, 1)
	require.Equal(t, "bob's", bobList[0].Title)
}

func TestTaskValidation(t *testing.T) {
	ctx := context.Background()
	book, cleanup := tempLedger(ctx, t, "task-validation")
	defer cleanup()
	alice := mustInsertUser(ctx, t, book, "alice")

	_, err := book.InsertTask(ctx, Task{UserID: alice, Title: "   "})
	require.ErrorAs(t, err, &InvalidInput{})
	_, err = book.InsertTask(ctx, Task{Title: "orphan task"})
	require.ErrorAs(t, err, &InvalidInput{})
	err = book.UpdateTask(ctx, alice, Task{ID: 0, Title: "no id"})
	require.ErrorAs(t, err, &InvalidInput{})
	err = book.DeleteTask(ctx, alice, -1)
	require.ErrorAs(t, err, &InvalidInput{})
	_, err = book.TasksByUser(ctx, 0)
	require.ErrorAs(t, err, &InvalidInput{})
}

func mustInsertUser(ctx context.Context, t *testing.T, book *Ledger, username string) int64 {
	t.Helper()
	id, err := book.InsertUser(ctx, username, "irrelevant-hash")
	require.NoError(t, err)
	return id
}
