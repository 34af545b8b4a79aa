package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/ayush/favorites-api/internal/models"
)

// SeedUser is a demo account; PasswordHash must already be bcrypt-hashed.
type SeedUser struct {
	Email        string
	PasswordHash string
}

// SeedSummary counts rows inserted by Seed.
type SeedSummary struct {
	Users   int
	People  int
	Planets int
}

var DemoPeople = []models.People{
	{Name: "Luke Skywalker", Gender: "male", BirthYear: "19BBY", Height: "172", Mass: "77", HairColor: "blond", EyeColor: "blue"},
	{Name: "C-3PO", Gender: "n/a", BirthYear: "112BBY", Height: "167", Mass: "75", HairColor: "n/a", EyeColor: "yellow"},
	{Name: "Darth Vader", Gender: "male", BirthYear: "41.9BBY", Height: "202", Mass: "136", HairColor: "none", EyeColor: "yellow"},
	{Name: "Leia Organa", Gender: "female", BirthYear: "19BBY", Height: "150", Mass: "49", HairColor: "brown", EyeColor: "brown"},
	{Name: "Obi-Wan Kenobi", Gender: "male", BirthYear: "57BBY", Height: "182", Mass: "77", HairColor: "auburn, white", EyeColor: "blue-gray"},
}

var DemoPlanets = []models.Planet{
	{Name: "Tatooine", Climate: "arid", Terrain: "desert", Population: "200000", Diameter: "10465", Gravity: "1 standard"},
	{Name: "Alderaan", Climate: "temperate", Terrain: "grasslands, mountains", Population: "2000000000", Diameter: "12500", Gravity: "1 standard"},
	{Name: "Hoth", Climate: "frozen", Terrain: "tundra, ice caves, mountain ranges", Population: "unknown", Diameter: "7200", Gravity: "1.1 standard"},
	{Name: "Dagobah", Climate: "murky", Terrain: "swamp, jungles", Population: "unknown", Diameter: "8900", Gravity: "N/A"},
}

func (s *PostgresStore) count(ctx context.Context, table string) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n)
	return n, err
}

// Seed fills empty catalog tables with demo data and creates the given users
// unless an account with the same email already exists.
func (s *PostgresStore) Seed(ctx context.Context, users []SeedUser) (SeedSummary, error) {
	var sum SeedSummary

	for _, u := range users {
		if _, err := s.CreateUser(ctx, u.Email, u.PasswordHash); err != nil {
			if errors.Is(err, ErrConflict) {
				continue
			}
			return sum, err
		}
		sum.Users++
	}

	n, err := s.count(ctx, "people")
	if err != nil {
		return sum, fmt.Errorf("seed people: %w", err)
	}
	if n == 0 {
		for _, p := range DemoPeople {
			if err := s.CreatePerson(ctx, &p); err != nil {
				return sum, err
			}
			sum.People++
		}
	}

	n, err = s.count(ctx, "planets")
	if err != nil {
		return sum, fmt.Errorf("seed planets: %w", err)
	}
	if n == 0 {
		for _, p := range DemoPlanets {
			if err := s.CreatePlanet(ctx, &p); err != nil {
				return sum, err
			}
			sum.Planets++
		}
	}
	return sum, nil
}
