// Package health lê contadores do sistema operacional no momento da requisição.
package health

import (
	"context"
	"fmt"
	"math"
	"time"

	"mission-control/models"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
)

// Counters são as leituras brutas usadas para montar o snapshot.
type Counters struct {
	Load1           float64
	LogicalCPUs     int
	TotalMemory     uint64
	// AvailableMemory inclui cache e buffers recuperáveis, não só páginas livres.
	AvailableMemory uint64
	Uptime          uint64
}

// Source fornece os contadores do host. O padrão usa gopsutil.
type Source interface {
	Read(ctx context.Context) (Counters, error)
}

type hostSource struct{}

// HostSource lê os contadores reais do host.
func HostSource() Source { return hostSource{} }

func (hostSource) Read(ctx context.Context) (Counters, error) {
	avg, err := load.AvgWithContext(ctx)
	if err != nil {
		return Counters{}, fmt.Errorf("erro ao ler load average: %w", err)
	}
	cpus, err := cpu.CountsWithContext(ctx, true)
	if err != nil {
		return Counters{}, fmt.Errorf("erro ao contar CPUs: %w", err)
	}
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return Counters{}, fmt.Errorf("erro ao ler memória: %w", err)
	}
	uptime, err := host.UptimeWithContext(ctx)
	if err != nil {
		return Counters{}, fmt.Errorf("erro ao ler uptime: %w", err)
	}
	return countersFrom(avg, cpus, vm, uptime), nil
}

func countersFrom(avg *load.AvgStat, cpus int, vm *mem.VirtualMemoryStat, uptime uint64) Counters {
	return Counters{
		Load1:           avg.Load1,
		LogicalCPUs:     cpus,
		TotalMemory:     vm.Total,
		AvailableMemory: vm.Available,
		Uptime:          uptime,
	}
}

// Snapshot converte os contadores em percentuais limitados a [0, 100].
func Snapshot(c Counters, now time.Time) models.HealthSnapshot {
	cpuPct := 0
	if c.LogicalCPUs > 0 {
		cpuPct = clampPercent(c.Load1 / float64(c.LogicalCPUs) * 100)
	}
	memPct := 0
	if c.TotalMemory > 0 {
		used := float64(c.TotalMemory) - float64(c.AvailableMemory)
		memPct = clampPercent(used / float64(c.TotalMemory) * 100)
	}
	return models.HealthSnapshot{
		Status:    "ok",
		CPU:       cpuPct,
		Memory:    memPct,
		Uptime:    int64(c.Uptime),
		Timestamp: now,
	}
}

func clampPercent(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	r := int(math.Round(v))
	return min(max(r, 0), 100)
}
