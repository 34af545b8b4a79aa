package store

import (
	"context"
	"fmt"

	"github.com/ayush/favorites-api/internal/models"
)

const (
	peopleColumns = `id, name, gender, birth_year, height, mass, hair_color, eye_color`
	planetColumns = `id, name, climate, terrain, population, diameter, gravity`
)

func (s *PostgresStore) ListPeople(ctx context.Context) ([]models.People, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+peopleColumns+` FROM people ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}
	defer rows.Close()

	people := []models.People{}
	for rows.Next() {
		var p models.People
		if err := rows.Scan(&p.ID, &p.Name, &p.Gender, &p.BirthYear, &p.Height, &p.Mass, &p.HairColor, &p.EyeColor); err != nil {
			return nil, fmt.Errorf("list people: %w", err)
		}
		people = append(people, p)
	}
	return people, rows.Err()
}

func (s *PostgresStore) GetPerson(ctx context.Context, id int64) (*models.People, error) {
	var p models.People
	err := s.pool.QueryRow(ctx, `SELECT `+peopleColumns+` FROM people WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Gender, &p.BirthYear, &p.Height, &p.Mass, &p.HairColor, &p.EyeColor)
	if err != nil {
		return nil, mapError(err)
	}
	return &p, nil
}

func (s *PostgresStore) CreatePerson(ctx context.Context, p *models.People) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO people (name, gender, birth_year, height, mass, hair_color, eye_color)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		p.Name, p.Gender, p.BirthYear, p.Height, p.Mass, p.HairColor, p.EyeColor,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("create person: %w", mapError(err))
	}
	return nil
}

func (s *PostgresStore) ListPlanets(ctx context.Context) ([]models.Planet, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+planetColumns+` FROM planets ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list planets: %w", err)
	}
	defer rows.Close()

	planets := []models.Planet{}
	for rows.Next() {
		var p models.Planet
		if err := rows.Scan(&p.ID, &p.Name, &p.Climate, &p.Terrain, &p.Population, &p.Diameter, &p.Gravity); err != nil {
			return nil, fmt.Errorf("list planets: %w", err)
		}
		planets = append(planets, p)
	}
	return planets, rows.Err()
}

func (s *PostgresStore) GetPlanet(ctx context.Context, id int64) (*models.Planet, error) {
	var p models.Planet
	err := s.pool.QueryRow(ctx, `SELECT `+planetColumns+` FROM planets WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Climate, &p.Terrain, &p.Population, &p.Diameter, &p.Gravity)
	if err != nil {
		return nil, mapError(err)
	}
	return &p, nil
}

func (s *PostgresStore) CreatePlanet(ctx context.Context, p *models.Planet) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO planets (name, climate, terrain, population, diameter, gravity)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		p.Name, p.Climate, p.Terrain, p.Population, p.Diameter, p.Gravity,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("create planet: %w", mapError(err))
	}
	return nil
}
