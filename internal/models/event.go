package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ActionAdd    = "add"
	ActionRemove = "remove"
)

// FavoriteEvent records one favorite change in MongoDB.
type FavoriteEvent struct {
	ID       primitive.ObjectID `json:"id"        bson:"_id,omitempty"`
	UserID   int64              `json:"user_id"   bson:"user_id"`
	Action   string             `json:"action"    bson:"action"`
	Type     Kind               `json:"type"      bson:"type"`
	TargetID int64              `json:"target_id" bson:"target_id"`
	At       time.Time          `json:"at"        bson:"at"`
}

// NewFavoriteEvent builds an event for the given change; At is set by the store.
func NewFavoriteEvent(userID int64, action string, target FavoriteTarget) *FavoriteEvent {
	return &FavoriteEvent{UserID: userID, Action: action, Type: target.Kind, TargetID: target.ID}
}
