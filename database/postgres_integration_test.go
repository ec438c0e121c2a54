//go:build integration

package database

import (
	"context"
	"testing"
	"time"

	"mission-control/config"
	"mission-control/models"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestPostgresStore(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "mc",
			"POSTGRES_PASSWORD": "mc",
			"POSTGRES_DB":       "mission_control",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	}
	pg, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("Docker indisponível: %v", err)
	}
	t.Cleanup(func() { _ = pg.Terminate(context.Background()) })

	host, err := pg.Host(ctx)
	require.NoError(t, err)
	port, err := pg.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	s, err := Connect(ctx, config.Database{
		Driver:   config.DriverPostgres,
		Host:     host,
		Port:     port.Port(),
		User:     "mc",
		Password: "mc",
		Name:     "mission_control",
		SSLMode:  "disable",
	})
	require.NoError(t, err)
	defer s.Close()

	task, err := s.CreateTask(ctx, models.CreateTaskInput{Title: "pg", Status: models.StatusPlanning, Priority: models.PriorityMedium})
	require.NoError(t, err)
	_, err = s.CreateComment(ctx, task.ID, "hello")
	require.NoError(t, err)

	done := models.StatusDone
	updated, err := s.UpdateTask(ctx, task.ID, models.UpdateTaskInput{Status: &done})
	require.NoError(t, err)
	require.Equal(t, models.StatusDone, updated.Status)
	require.Len(t, updated.Comments, 1)

	require.NoError(t, s.DeleteTask(ctx, task.ID))
	tasks, err := s.ListTasks(ctx)
	require.NoError(t, err)
	require.Empty(t, tasks)
}
