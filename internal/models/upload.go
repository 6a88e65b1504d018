package models

import "time"

// Upload is the persisted record of one stored file. The file bytes live on
// disk under the uploads directory; this record carries ownership so delete
// authorization survives a restart.
type Upload struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	Filename  string    `json:"filename" bson:"filename"`
	MediaType string    `json:"media_type" bson:"media_type"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
