package model

import "time"

// Category is display metadata for a spending or income category. The engine
// only consults categories to validate identifiers chosen by the caller.
type Category struct {
	CreatedAt   time.Time `json:"created_at"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ID          int       `json:"id"`
	IsActive    bool      `json:"is_active"`
}

// TrainingSample is one (text, category) pair used to train the classifier.
type TrainingSample struct {
	Text     string `json:"text"`
	Category string `json:"category"`
}
