package postgres

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/meuseventos/server/internal/auth"
	"github.com/meuseventos/server/internal/domain/users"
	"github.com/stretchr/testify/require"
)

func TestCanonicalUUID(t *testing.T) {
	id := uuid.NewString()
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{in: id, want: id, ok: true},
		{in: strings.ToUpper(id), want: id, ok: true},
		{in: "urn:uuid:" + id, want: id, ok: true},
		{in: "{" + id + "}", want: id, ok: true},
		{in: ""},
		{in: "not-a-uuid"},
		{in: "01HQZX3Y4K6F7G8H9J0K1M2N3P"},
	}
	for _, tt := range tests {
		got, ok := canonicalUUID(tt.in)
		require.Equal(t, tt.ok, ok, tt.in)
		require.Equal(t, tt.want, got, tt.in)
	}
}

// Malformed ids are answered without a connection, so a nil pool is enough.
func TestMalformedIDsAreUnknown(t *testing.T) {
	ctx := context.Background()

	_, err := (&UserRepository{}).GetByID(ctx, "not-a-uuid")
	require.ErrorIs(t, err, users.ErrUserNotFound)

	_, err = (&SessionRepository{}).Get(ctx, "forged")
	require.ErrorIs(t, err, auth.ErrSessionNotFound)
	require.ErrorIs(t, (&SessionRepository{}).Delete(ctx, "forged"), auth.ErrSessionNotFound)

	owned, err := (&EventRepository{}).ListByOwner(ctx, "user-a")
	require.NoError(t, err)
	require.Empty(t, owned)
}
