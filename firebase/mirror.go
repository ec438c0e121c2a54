package firebase

import (
	"context"
	"sync"
	"time"

	"mission-control/models"
	"mission-control/utilities"
)

type LogAppender interface {
	CreateLog(ctx context.Context, in models.CreateLogInput) (models.SystemLog, error)
}

// MirroredAppender grava primeiro no banco e depois, em segundo plano, no LogWriter.
// Falhas do espelho só vão para o log do processo; o cliente nunca as vê.
type MirroredAppender struct {
	next    LogAppender
	writer  LogWriter
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewMirroredAppender(next LogAppender, writer LogWriter) *MirroredAppender {
	return &MirroredAppender{next: next, writer: writer, timeout: 10 * time.Second}
}

func (m *MirroredAppender) CreateLog(ctx context.Context, in models.CreateLogInput) (models.SystemLog, error) {
	entry, err := m.next.CreateLog(ctx, in)
	if err != nil {
		return entry, err
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		wctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()
		if err := m.writer.WriteLog(wctx, entry); err != nil {
			utilities.LogError(err, "MirroredAppender: falha ao espelhar log")
			return
		}
		utilities.LogDebug("MirroredAppender: log %s espelhado", entry.ID)
	}()
	return entry, nil
}

// Wait bloqueia até que todas as gravações pendentes no espelho terminem.
func (m *MirroredAppender) Wait() { m.wg.Wait() }
