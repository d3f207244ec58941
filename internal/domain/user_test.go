package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_JSONNeverContainsHash(t *testing.T) {
	u := User{ID: 1, Username: "alice", PasswordHash: "$2a$10$secrethash", Email: "a@b.com"}

	raw, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secrethash")
	assert.NotContains(t, string(raw), "password")
}

func TestProfiles(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	users := []User{
		{ID: 1, Image: "1-a.png", Username: "alice", PasswordHash: "h1", Email: "a@b.com", Age: 30, Gender: "female", Place: "Riga", CreatedAt: created},
		{ID: 2, Image: "2-b.png", Username: "bob", PasswordHash: "h2", Email: "b@b.com", Age: 31, Gender: "male", Place: "Oslo", CreatedAt: created},
	}

	profiles := Profiles(users)
	require.Len(t, profiles, 2)
	assert.Equal(t, UserProfile{ID: 1, Image: "1-a.png", Username: "alice", Email: "a@b.com", Age: 30, Gender: "female", Place: "Riga", CreatedAt: created}, profiles[0])

	raw, err := json.Marshal(profiles)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "h1")
	assert.NotContains(t, string(raw), "h2")
}

func TestProfiles_EmptyIsNotNil(t *testing.T) {
	profiles := Profiles(nil)
	require.NotNil(t, profiles)

	raw, err := json.Marshal(profiles)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("username is required")

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "username is required", ve.Message)
	assert.Equal(t, "username is required", err.Error())
}
