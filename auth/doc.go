// Package auth holds the authentication core of tasktape: password
// hashing, the dummy-hash guard against username enumeration, and the
// stateless signed tokens handed out at login.
//
// The scheme is deliberately boring. Passwords go through bcrypt with
// a per-call salt, so the ledger only ever sees opaque hash strings.
// Login always performs exactly one bcrypt verification: when the
// username does not exist the candidate password is checked against a
// hash of 32 random bytes computed once at startup, so an adversary
// cannot tell "no such user" from "wrong password" by timing the
// response.
//
// Tokens are HMAC-SHA256 signed claims carrying the user id and an
// expiry. They are never stored server side: losing one means logging
// in again, and there is no revocation beyond expiry. The signing
// secret is read from the environment once at startup and the variable
// is blanked right after, the secret never appears in tokens or logs.
package auth
