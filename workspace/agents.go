package workspace

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"mission-control/models"
	"mission-control/utilities"
)

// TeamHeading é o título exato da seção lida por Agents.
const TeamHeading = "## Team Structure (Locked)"

// AgentStatus é fixo: o roster não reflete processos reais.
const AgentStatus = "Online"

// "- **NAME** - ROLE (MODEL)"
var agentLine = regexp.MustCompile(`^\s*-\s+\*\*(.+?)\*\*\s+-\s+(.+?)\s*\(([^()]+)\)\s*$`)

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// ParseRoster extrai os agentes da seção TeamHeading até o próximo título.
func ParseRoster(markdown string) []models.Agent {
	agents := []models.Agent{}
	inSection := false

	sc := bufio.NewScanner(strings.NewReader(markdown))
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		trimmed := strings.TrimSpace(line)
		if !inSection {
			if trimmed == TeamHeading {
				inSection = true
			}
			continue
		}
		if strings.HasPrefix(trimmed, "#") {
			break
		}
		m := agentLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		agents = append(agents, models.Agent{
			ID:     strings.Trim(slugStrip.ReplaceAllString(strings.ToLower(name), "-"), "-"),
			Name:   name,
			Role:   strings.TrimSpace(m[2]),
			Model:  strings.TrimSpace(m[3]),
			Status: AgentStatus,
		})
	}
	return agents
}

// Agents devolve o roster do MEMORY.md. Qualquer falha vira lista vazia;
// o resultado fica em cache enquanto o arquivo não muda.
func (w *Workspace) Agents() []models.Agent {
	path := filepath.Join(w.root, memoryFile)
	info, err := os.Stat(path)
	if err != nil {
		utilities.LogWarn("Roster indisponível (%s): %v", path, err)
		return []models.Agent{}
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.roster != nil && info.ModTime().Equal(w.rosterMtime) && info.Size() == w.rosterSize {
		return append([]models.Agent{}, w.roster...)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		utilities.LogWarn("Erro ao ler %s: %v", path, err)
		return []models.Agent{}
	}
	w.roster = ParseRoster(string(data))
	w.rosterMtime = info.ModTime()
	w.rosterSize = info.Size()
	utilities.LogDebug("Roster recarregado: %d agente(s)", len(w.roster))
	return append([]models.Agent{}, w.roster...)
}
