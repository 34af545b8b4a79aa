package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ayush/favorites-api/internal/models"
)

// targetTable returns the catalog table and the favorites column for a kind.
func targetTable(kind models.Kind) (table, column string, err error) {
	switch kind {
	case models.KindPeople:
		return "people", "people_id", nil
	case models.KindPlanet:
		return "planets", "planet_id", nil
	}
	return "", "", fmt.Errorf("%w: unknown kind %q", models.ErrInvalidTarget, kind)
}

type rowExister interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// exists reports whether table has a row with the given id. table is never user input.
func exists(ctx context.Context, q rowExister, table string, id int64) (bool, error) {
	var ok bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM `+table+` WHERE id = $1)`, id).Scan(&ok)
	return ok, err
}

// ListFavorites returns the user's favorites, oldest first.
func (s *PostgresStore) ListFavorites(ctx context.Context, userID int64) ([]models.Favorite, error) {
	ok, err := exists(ctx, s.pool, "users", userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	if !ok {
		return nil, &MissingError{Entity: "user"}
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, people_id, planet_id, created_at
		 FROM favorites WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	favs := []models.Favorite{}
	for rows.Next() {
		var (
			f                  models.Favorite
			peopleID, planetID *int64
		)
		if err := rows.Scan(&f.ID, &f.UserID, &peopleID, &planetID, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("list favorites: %w", err)
		}
		switch {
		case peopleID != nil:
			f.Target = models.PeopleTarget(*peopleID)
		case planetID != nil:
			f.Target = models.PlanetTarget(*planetID)
		default:
			return nil, fmt.Errorf("list favorites: row %d: %w", f.ID, models.ErrInvalidTarget)
		}
		favs = append(favs, f)
	}
	return favs, rows.Err()
}

// AddFavorite inserts a favorite in one transaction. Duplicates are rejected by the
// favorites_user_*_key constraints and come back as ErrConflict.
func (s *PostgresStore) AddFavorite(ctx context.Context, userID int64, target models.FavoriteTarget) (*models.Favorite, error) {
	table, column, err := targetTable(target.Kind)
	if err != nil {
		return nil, err
	}

	fav := &models.Favorite{UserID: userID, Target: target}
	err = pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		ok, err := exists(ctx, tx, "users", userID)
		if err != nil {
			return err
		}
		if !ok {
			return &MissingError{Entity: "user"}
		}

		ok, err = exists(ctx, tx, table, target.ID)
		if err != nil {
			return err
		}
		if !ok {
			return &MissingError{Entity: string(target.Kind)}
		}

		return tx.QueryRow(ctx,
			`INSERT INTO favorites (user_id, `+column+`) VALUES ($1, $2) RETURNING id, created_at`,
			userID, target.ID,
		).Scan(&fav.ID, &fav.CreatedAt)
	})
	if err != nil {
		var missing *MissingError
		if errors.As(err, &missing) {
			return nil, err
		}
		return nil, fmt.Errorf("add favorite %s: %w", target, mapError(err))
	}
	return fav, nil
}

// RemoveFavorite deletes the user's favorite for target, or returns ErrNotFound.
func (s *PostgresStore) RemoveFavorite(ctx context.Context, userID int64, target models.FavoriteTarget) error {
	_, column, err := targetTable(target.Kind)
	if err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND `+column+` = $2`, userID, target.ID)
	if err != nil {
		return fmt.Errorf("remove favorite %s: %w", target, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
