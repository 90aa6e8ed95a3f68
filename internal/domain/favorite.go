package domain

import "time"

// FavoriteTemplate is a saved list of exercise names a user can reuse
// when starting a workout. Independent lifecycle, not linked to any
// session.
type FavoriteTemplate struct {
	ID            string    `bson:"_id" json:"id"` // UUID string
	UserID        string    `bson:"userId" json:"userId"`
	Name          string    `bson:"name" json:"name"`
	ExerciseNames []string  `bson:"exerciseNames" json:"exerciseNames"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updatedAt"`
}
