package ledger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUserLifecycle(t *testing.T) {
	ctx := context.Background()
	book, cleanup := tempLedger(ctx, t, "users")
	defer cleanup()

	id, err := book.InsertUser(ctx, "alice", "$2a$10$fakefakefakefakefakefake")
	require.NoError(t, err)
	require.Greater(t, id, int64(0))

	byName, err := book.UserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, id, byName.ID)
	require.Equal(t, "alice", byName.Username)
	require.Equal(t, "$2a$10$fakefakefakefakefakefake", byName.PasswordHash)

	byID, err := book.UserByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, *byName, *byID)

	// usernames are trimmed before storage and lookup
	trimmed, err := book.UserByUsername(ctx, "  alice  ")
	require.NoError(t, err)
	require.Equal(t, id, trimmed.ID)

	require.NoError(t, book.DeleteUser(ctx, id))
	_, err = book.UserByID(ctx, id)
	require.ErrorAs(t, err, &UserNotFound{})
	require.ErrorAs(t, book.DeleteUser(ctx, id), &UserNotFound{})
}

func TestUserLookupMisses(t *testing.T) {
	ctx := context.Background()
	book, cleanup := tempLedger(ctx, t, "misses")
	defer cleanup()

	_, err := book.UserByUsername(ctx, "nobody")
	var notFound UserNotFound
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "nobody", notFound.Username)

	_, err = book.UserByID(ctx, 424242)
	require.ErrorAs(t, err, &UserNotFound{})
}

func TestInsertUserValidation(t *testing.T) {
	ctx := context.Background()
	book, cleanup := tempLedger(ctx, t, "validation")
	defer cleanup()

	_, err := book.InsertUser(ctx, "  ", "hash")
	require.ErrorAs(t, err, &InvalidInput{})
	_, err = book.InsertUser(ctx, "alice", "  ")
	require.ErrorAs(t, err, &InvalidInput{})
	_, err = book.UserByUsername(ctx, "")
	require.ErrorAs(t, err, &InvalidInput{})
	_, err = book.UserByID(ctx, 0)
	require.ErrorAs(t, err, &InvalidInput{})
	_, err = book.UserByID(ctx, -1)
	require.ErrorAs(t, err, &InvalidInput{})
}

func TestUsernameUniqueness(t *testing.T) {
	ctx := context.Background()
	book, cleanup := tempLedger(ctx, t, "unique")
	defer cleanup()

	_, err := book.InsertUser(ctx, "alice", "hash-one")
	require.NoError(t, err)
	_, err = book.InsertUser(ctx, "alice", "hash-two")
	var taken UsernameTaken
	require.ErrorAs(t, err, &taken)
	require.Equal(t, "alice", taken.Username)
}

func tempLedger(ctx context.Context, t interface {
	Fatal(...interface{})
	Log(...interface{})
}, name string) (*Ledger, func()) {
	dir, err := os.MkdirTemp("", "tasktape-tests")
	if err != nil {
		t.Fatal(err)
	}
	book, err := Open(ctx, filepath.Join(dir, name+".db"))
	if err != nil {
		t.Fatal(err)
	}
	return book, func() {
		err := book.Close()
		if err != nil {
			t.Log("unable to close ledger", err)
		}
		err = os.RemoveAll(dir)
		if err != nil {
			t.Log("unable to cleanup temp dir", dir)
		}
	}
}
