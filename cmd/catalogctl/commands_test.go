package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ayush/favorites-api/internal/config"
	"github.com/ayush/favorites-api/internal/models"
)

func TestParseSeedUsers(t *testing.T) {
	users, err := parseSeedUsers([]string{"Luke@Rebels.org:force:with:colons"})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "luke@rebels.org", users[0].Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(users[0].PasswordHash), []byte("force:with:colons")))

	_, err = parseSeedUsers([]string{"no-password"})
	assert.Error(t, err)
	_, err = parseSeedUsers([]string{":secret"})
	assert.Error(t, err)
}

func TestParseKind(t *testing.T) {
	k, err := parseKind("Planets")
	require.NoError(t, err)
	assert.Equal(t, models.KindPlanet, k)

	k, err = parseKind("person")
	require.NoError(t, err)
	assert.Equal(t, models.KindPeople, k)

	_, err = parseKind("starships")
	assert.Error(t, err)
}

func TestRootCommandWiring(t *testing.T) {
	root := newRootCmd(&config.Config{})

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"migrate", "seed", "image"}, names)

	put, _, err := root.Find([]string{"image", "put"})
	require.NoError(t, err)
	assert.Equal(t, "put", put.Name())
	assert.NotNil(t, put.Flags().Lookup("kind"))
}
