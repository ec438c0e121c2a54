package models

import "time"

type LogLevel string

const (
	LevelInfo    LogLevel = "info"
	LevelWarn    LogLevel = "warn"
	LevelError   LogLevel = "error"
	LevelSuccess LogLevel = "success"
)

var LogLevels = []LogLevel{LevelInfo, LevelWarn, LevelError, LevelSuccess}

func (l LogLevel) Valid() bool {
	switch l {
	case LevelInfo, LevelWarn, LevelError, LevelSuccess:
		return true
	}
	return false
}

// SystemLog é uma linha do log de atividades. Somente inserção.
type SystemLog struct {
	ID        string    `json:"id" firestore:"id"`
	Level     LogLevel  `json:"level" firestore:"level"`
	Module    string    `json:"module" firestore:"module"`
	Message   string    `json:"message" firestore:"message"`
	Timestamp time.Time `json:"timestamp" firestore:"timestamp"`
}

type CreateLogInput struct {
	Level   LogLevel
	Module  string
	Message string
}
