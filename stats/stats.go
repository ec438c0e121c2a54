// Package stats deriva contagens e percentuais varrendo as tarefas e os logs em memória.
package stats

import (
	"fmt"
	"math"
	"time"

	"mission-control/models"
)

// HeartbeatModule é o módulo dos logs gravados pelo heartbeat.
const HeartbeatModule = "HEARTBEAT"

// Compute é O(n) sobre tarefas e logs; não há agregação no banco.
func Compute(tasks []models.Task, logs []models.SystemLog, now time.Time) models.Stats {
	return models.Stats{
		Tasks:       ComputeTasks(tasks),
		Logs:        ComputeLogs(logs),
		GeneratedAt: now,
	}
}

func ComputeTasks(tasks []models.Task) models.TaskStats {
	s := models.TaskStats{Total: len(tasks), AvgCompletionTime: "N/A"}

	var doneDuration time.Duration
	for _, t := range tasks {
		switch t.Status {
		case models.StatusPlanning:
			s.Planning++
		case models.StatusInProgress:
			s.InProgress++
		case models.StatusDone:
			s.Done++
			doneDuration += t.UpdatedAt.Sub(t.CreatedAt)
		}
		switch t.Priority {
		case models.PriorityHigh:
			s.HighPriority++
		case models.PriorityMedium:
			s.MediumPriority++
		case models.PriorityLow:
			s.LowPriority++
		}
		if t.AssignedTo != nil && *t.AssignedTo != "" {
			s.Assigned++
		} else {
			s.Unassigned++
		}
	}

	if s.Total > 0 {
		s.CompletionRate = int(math.Round(float64(s.Done) / float64(s.Total) * 100))
	}
	if s.Done > 0 {
		s.AvgCompletionTime = FormatDuration(doneDuration / time.Duration(s.Done))
	}
	return s
}

// FormatDuration usa horas abaixo de um dia e dias a partir disso.
func FormatDuration(d time.Duration) string {
	hours := int(math.Round(d.Hours()))
	if hours < 24 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dd", int(math.Round(float64(hours)/24)))
}

func ComputeLogs(logs []models.SystemLog) models.LogStats {
	s := models.LogStats{Total: len(logs)}
	for _, l := range logs {
		switch l.Level {
		case models.LevelInfo:
			s.Info++
		case models.LevelWarn:
			s.Warn++
		case models.LevelError:
			s.Error++
		case models.LevelSuccess:
			s.Success++
		}
		if l.Module == HeartbeatModule && (s.LastHeartbeat == nil || l.Timestamp.After(*s.LastHeartbeat)) {
			ts := l.Timestamp
			s.LastHeartbeat = &ts
		}
	}
	return s
}
