package models

import "time"

// HealthSnapshot é lido do sistema operacional a cada requisição; nunca é persistido.
type HealthSnapshot struct {
	Status    string    `json:"status"`
	CPU       int       `json:"cpu"`
	Memory    int       `json:"memory"`
	Uptime    int64     `json:"uptime"`
	Timestamp time.Time `json:"timestamp"`
}

type TaskStats struct {
	Total             int    `json:"total"`
	Planning          int    `json:"planning"`
	InProgress        int    `json:"inProgress"`
	Done              int    `json:"done"`
	HighPriority      int    `json:"highPriority"`
	MediumPriority    int    `json:"mediumPriority"`
	LowPriority       int    `json:"lowPriority"`
	Assigned          int    `json:"assigned"`
	Unassigned        int    `json:"unassigned"`
	CompletionRate    int    `json:"completionRate"`
	AvgCompletionTime string `json:"avgCompletionTime"`
}

type LogStats struct {
	Total         int        `json:"total"`
	Info          int        `json:"info"`
	Warn          int        `json:"warn"`
	Error         int        `json:"error"`
	Success       int        `json:"success"`
	LastHeartbeat *time.Time `json:"lastHeartbeat"`
}

type Stats struct {
	Tasks       TaskStats `json:"tasks"`
	Logs        LogStats  `json:"logs"`
	GeneratedAt time.Time `json:"generatedAt"`
}
