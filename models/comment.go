package models

import "time"

// Comment pertence exclusivamente a uma Task e é removido junto com ela.
type Comment struct {
	ID        string    `json:"id" yaml:"id"`
	Text      string    `json:"text" yaml:"text"`
	TaskID    string    `json:"taskId" yaml:"taskId"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}
