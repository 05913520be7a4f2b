package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

var errDatabaseDown = errors.New("dial tcp 127.0.0.1:5432: connection refused")

const serverErrorMessage = "Ocorreu um erro inesperado. Tente novamente."

func requireServerError(t *testing.T, res result) {
	t.Helper()
	require.Equal(t, http.StatusInternalServerError, res.Status)
	require.Empty(t, res.Location)
	require.Contains(t, res.Body, serverErrorMessage)
	require.NotContains(t, res.Body, "connection refused")
}

func TestDashboardRepositoryFailure(t *testing.T) {
	f := newFixture(t)
	alice := f.signedIn(t, "Alice", "a@x.com")

	f.events.fail(errDatabaseDown)
	requireServerError(t, alice.get("/dashboard"))
}

func TestCreateEventRepositoryFailure(t *testing.T) {
	f := newFixture(t)
	alice := f.signedIn(t, "Alice", "a@x.com")

	f.events.fail(errDatabaseDown)
	requireServerError(t, alice.post("/create_event", eventForm("Meetup", "2025-03-01", "")))

	f.events.fail(nil)
	require.Empty(t, f.events.all())
}

func TestLoginRepositoryFailure(t *testing.T) {
	f := newFixture(t)
	b := f.browser(t)
	require.Equal(t, http.StatusSeeOther, b.register("Alice", "a@x.com", "secret1").Status)

	f.users.fail(errDatabaseDown)
	requireServerError(t, b.login("a@x.com", "secret1"))
	require.Zero(t, f.sessions.count())
}

func TestRegisterRepositoryFailure(t *testing.T) {
	f := newFixture(t)
	b := f.browser(t)

	f.users.fail(errDatabaseDown)
	requireServerError(t, b.register("Alice", "a@x.com", "secret1"))
}

func TestSessionStoreOutageKeepsSession(t *testing.T) {
	f := newFixture(t)
	alice := f.signedIn(t, "Alice", "a@x.com")

	f.sessions.fail(errDatabaseDown)
	requireServerError(t, alice.get("/dashboard"))

	f.sessions.fail(nil)
	res := alice.get("/dashboard")
	require.Equal(t, http.StatusOK, res.Status)
	require.Contains(t, res.Body, "Alice")
}
