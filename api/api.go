// Package api exposes the ledger over HTTP: open register/login
// endpoints plus a per-user task CRUD behind the auth gate.
package api

import (
	"net/http"

	authapi "github.com/andrebq/tasktape/auth/api"
	"github.com/andrebq/tasktape/ledger"
	"github.com/julienschmidt/httprouter"
)

// AsHandler builds the complete route table. Everything under /tasks
// goes through realm.Protect, so handlers can take the authenticated
// user id from the request context.
func AsHandler(book *ledger.Ledger, realm *authapi.Realm) http.Handler {
	router := httprouter.New()
	router.HandlerFunc("POST", "/register", realm.RegisterHandler())
	router.HandlerFunc("POST", "/login", realm.LoginHandler())

	tasks := &taskAPI{book: book}
	router.Handler("GET", "/tasks", realm.Protect(http.HandlerFunc(tasks.list)))
	router.Handler("POST", "/tasks", realm.Protect(http.HandlerFunc(tasks.create)))
	router.Handler("GET", "/tasks/:id", realm.Protect(http.HandlerFunc(tasks.fetch)))
	router.Handler("PUT", "/tasks/:id", realm.Protect(http.HandlerFunc(tasks.update)))
	router.Handler("DELETE", "/tasks/:id", realm.Protect(http.HandlerFunc(tasks.remove)))
	return router
}
