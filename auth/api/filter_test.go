package api

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/andrebq/tasktape/auth"
	"github.com/andrebq/tasktape/internal/testutil"
	"github.com/andrebq/tasktape/ledger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/steinfletcher/apitest"
	"golang.org/x/crypto/bcrypt"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestProtect(t *testing.T) {
	ctx := context.Background()
	book, cleanup := testutil.AcquireLedger(ctx, t, "protect")
	defer cleanup()
	realm, hasher := testRealm(t, book)

	hashed, err := hasher.Hash("s3cret")
	if err != nil {
		t.Fatal(err)
	}
	aliceID, err := book.InsertUser(ctx, "alice", hashed)
	if err != nil {
		t.Fatal(err)
	}
	token, err := realm.tokens.Issue(aliceID)
	if err != nil {
		t.Fatal(err)
	}

	var count uint32
	var seenUserID int64
	protected := realm.Protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddUint32(&count, 1)
		seenUserID, _ = auth.UserID(r.Context())
		http.Error(w, "OK", http.StatusOK)
	}))

	apitest.Handler(protected).Get("/").Expect(t).Status(http.StatusUnauthorized).End()
	apitest.Handler(protected).Get("/").Header("Authorization", "Bearer not.a.token").Expect(t).Status(http.StatusUnauthorized).End()
	apitest.Handler(protected).Get("/").Header("Authorization", fmt.Sprintf("Bearer %v", expiredToken(t, aliceID))).Expect(t).Status(http.StatusUnauthorized).End()
	apitest.Handler(protected).Get("/").Header("Authorization", fmt.Sprintf("Bearer %v", token)).Expect(t).Status(http.StatusOK).End()
	if count != 1 {
		t.Fatal("protected endpoint should have been called exactly once, got", count)
	}
	if seenUserID != aliceID {
		t.Fatalf("handler should see user %v, got %v", aliceID, seenUserID)
	}

	// a valid token for a user that no longer exists must be refused
	if err := book.DeleteUser(ctx, aliceID); err != nil {
		t.Fatal(err)
	}
	apitest.Handler(protected).Get("/").Header("Authorization", fmt.Sprintf("Bearer %v", token)).Expect(t).Status(http.StatusUnauthorized).End()
	if count != 1 {
		t.Fatal("stale-user request should not reach the handler")
	}
}

func TestProtectReportsStoreFailures(t *testing.T) {
	ctx := context.Background()
	book, cleanup := testutil.AcquireLedger(ctx, t, "outage")
	defer cleanup()
	realm, hasher := testRealm(t, book)

	hashed, err := hasher.Hash("s3cret")
	if err != nil {
		t.Fatal(err)
	}
	aliceID, err := book.InsertUser(ctx, "alice", hashed)
	if err != nil {
		t.Fatal(err)
	}
	token, err := realm.tokens.Issue(aliceID)
	if err != nil {
		t.Fatal(err)
	}

	var count uint32
	protected := realm.Protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddUint32(&count, 1)
		http.Error(w, "OK", http.StatusOK)
	}))
	bearer := fmt.Sprintf("Bearer %v", token)
	apitest.Handler(protected).Get("/").Header("Authorization", bearer).Expect(t).Status(http.StatusOK).End()

	// a ledger that cannot answer is a server fault, not a bad credential
	if err := book.Close(); err != nil {
		t.Fatal(err)
	}
	apitest.Handler(protected).Get("/").Header("Authorization", bearer).Expect(t).Status(http.StatusInternalServerError).End()
	if count != 1 {
		t.Fatal("handler must not run while the ledger is unreachable, ran", count, "times")
	}
}

func testRealm(t *testing.T, book *ledger.Ledger) (*Realm, auth.PasswordHasher) {
	t.Helper()
	hasher, err := auth.NewHasher(bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	tokens, err := auth.NewTokenCodec(testSecret, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return NewRealm(book, hasher, tokens, nil), hasher
}

func expiredToken(t *testing.T, userID int64) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   fmt.Sprintf(`{"user_id":%v}`, userID),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	})
	signed, err := token.SignedString(testSecret)
	if err != nil {
		t.Fatal(err)
	}
	return signed
}
