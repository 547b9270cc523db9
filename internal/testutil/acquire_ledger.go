package testutil

import (
	"context"
	"os"
	"path/filepath"

	"github.com/andrebq/tasktape/ledger"
)

type (
	TestLog interface {
		Fatal(...interface{})
		Log(...interface{})
	}
)

// AcquireLedger opens a throwaway ledger backed by a temp directory,
// returning it together with its cleanup function.
func AcquireLedger(ctx context.Context, t TestLog, name string) (*ledger.Ledger, func()) {
	dir, err := os.MkdirTemp("", "tasktape-tests")
	if err != nil {
		t.Fatal(err)
	}
	abspath := filepath.Join(dir, name+".db")
	book, err := ledger.Open(ctx, abspath)
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
