// Package models defines the data models persisted in the database.
package models

import "time"

// Notice is a parent record that owns zero or more attachments.
//
// ID is assigned by the store on insert: the model is passed by pointer and
// receives the generated primary key in place.
type Notice struct {
	ID        int64
	Title     string
	Content   string
	CreatedAt time.Time
}
