package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Kind names the catalog resource a favorite points at.
type Kind string

const (
	KindPeople Kind = "people"
	KindPlanet Kind = "planet"
)

// FavoriteTarget is the favorited resource: exactly one person or one planet.
type FavoriteTarget struct {
	Kind Kind
	ID   int64
}

func PeopleTarget(id int64) FavoriteTarget { return FavoriteTarget{Kind: KindPeople, ID: id} }
func PlanetTarget(id int64) FavoriteTarget { return FavoriteTarget{Kind: KindPlanet, ID: id} }

var ErrInvalidTarget = errors.New("invalid favorite target")

// Validate rejects unknown kinds and non-positive ids.
func (t FavoriteTarget) Validate() error {
	if t.Kind != KindPeople && t.Kind != KindPlanet {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidTarget, t.Kind)
	}
	if t.ID <= 0 {
		return fmt.Errorf("%w: id must be positive", ErrInvalidTarget)
	}
	return nil
}

func (t FavoriteTarget) String() string {
	return fmt.Sprintf("%s/%d", t.Kind, t.ID)
}

// Favorite links a user to one catalog resource.
type Favorite struct {
	ID        int64
	UserID    int64
	Target    FavoriteTarget
	CreatedAt time.Time
}

// favoriteJSON is the flat wire form; only the id matching the kind is present.
type favoriteJSON struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Type      Kind      `json:"type"`
	PeopleID  *int64    `json:"people_id,omitempty"`
	PlanetID  *int64    `json:"planet_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (f Favorite) MarshalJSON() ([]byte, error) {
	out := favoriteJSON{ID: f.ID, UserID: f.UserID, Type: f.Target.Kind, CreatedAt: f.CreatedAt}
	id := f.Target.ID
	switch f.Target.Kind {
	case KindPeople:
		out.PeopleID = &id
	case KindPlanet:
		out.PlanetID = &id
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidTarget, f.Target.Kind)
	}
	return json.Marshal(out)
}

func (f *Favorite) UnmarshalJSON(data []byte) error {
	var in favoriteJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	switch {
	case in.PeopleID != nil && in.PlanetID == nil:
		f.Target = PeopleTarget(*in.PeopleID)
	case in.PlanetID != nil && in.PeopleID == nil:
		f.Target = PlanetTarget(*in.PlanetID)
	default:
		return fmt.Errorf("%w: exactly one of people_id and planet_id must be set", ErrInvalidTarget)
	}
	f.ID, f.UserID, f.CreatedAt = in.ID, in.UserID, in.CreatedAt
	return nil
}
