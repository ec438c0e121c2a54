// Package heartbeat implementa o pulso periódico que registra tarefas pendentes no log do sistema.
package heartbeat

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mission-control/models"
	"mission-control/utilities"
)

const (
	DefaultInterval = 30 * time.Second
	Module          = "HEARTBEAT"
	FailureMessage  = "Pulse check failed: Database connectivity issue."
)

type TaskLister interface {
	ListTasksByStatus(ctx context.Context, status models.TaskStatus) ([]models.Task, error)
}

type LogAppender interface {
	CreateLog(ctx context.Context, in models.CreateLogInput) (models.SystemLog, error)
}

// Heartbeat deve existir uma única vez por processo; é o único que escreve logs do módulo HEARTBEAT.
type Heartbeat struct {
	tasks    TaskLister
	logs     LogAppender
	interval time.Duration
	timeout  time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func New(tasks TaskLister, logs LogAppender, interval time.Duration) *Heartbeat {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Heartbeat{tasks: tasks, logs: logs, interval: interval, timeout: 10 * time.Second}
}

// PendingMessage é o texto gravado quando há tarefas em Planning.
func PendingMessage(n int) string {
	return fmt.Sprintf("Detected %d pending mission(s) awaiting assignment.", n)
}

// Tick executa um único pulso. Falhas viram uma linha de log de erro; nada é repetido.
func (h *Heartbeat) Tick(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	pending, err := h.tasks.ListTasksByStatus(ctx, models.StatusPlanning)
	if err != nil {
		utilities.LogError(err, "Heartbeat: falha ao verificar tarefas pendentes")
		h.append(ctx, models.LevelError, FailureMessage)
		return
	}
	if len(pending) == 0 {
		utilities.LogDebug("Heartbeat: nenhuma tarefa pendente")
		return
	}
	h.append(ctx, models.LevelInfo, PendingMessage(len(pending)))
}

func (h *Heartbeat) append(ctx context.Context, level models.LogLevel, msg string) {
	if _, err := h.logs.CreateLog(ctx, models.CreateLogInput{Level: level, Module: Module, Message: msg}); err != nil {
		utilities.LogError(err, "Heartbeat: falha ao gravar log do pulso")
	}
}

// Start dispara o ticker em uma goroutine. Chamadas repetidas são ignoradas.
func (h *Heartbeat) Start(ctx context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	h.cancel = cancel
	h.done = make(chan struct{})

	utilities.LogInfo("Iniciando heartbeat do Mission Control (intervalo %s)", h.interval)
	go func(done chan struct{}) {
		defer close(done)
		ticker := time.NewTicker(h.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				h.Tick(ctx)
			}
		}
	}(h.done)
}

// Stop encerra o ticker e espera o pulso em andamento terminar.
func (h *Heartbeat) Stop() {
	h.mu.Lock()
	cancel, done := h.cancel, h.done
	h.cancel, h.done = nil, nil
	h.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	utilities.LogInfo("Heartbeat encerrado")
}
