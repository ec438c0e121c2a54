// Package workspace dá acesso somente leitura à pasta de memória do agente:
// as notas markdown e o roster de time do MEMORY.md.
package workspace

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"mission-control/models"

	"github.com/yuin/goldmark"
)

const (
	notesDir   = "memory"
	memoryFile = "MEMORY.md"
)

// ErrInvalidName indica um nome de arquivo recusado antes de qualquer acesso ao disco.
var ErrInvalidName = errors.New("nome de arquivo inválido")

// Workspace representa a raiz configurada em WORKSPACE_ROOT.
type Workspace struct {
	root string

	mu          sync.Mutex
	rosterMtime time.Time
	rosterSize  int64
	roster      []models.Agent
}

func New(root string) *Workspace {
	return &Workspace{root: root}
}

func (w *Workspace) Root() string { return w.root }

func (w *Workspace) NotesPath() string { return filepath.Join(w.root, notesDir) }

// ValidateName recusa nomes vazios ou com separadores e sequências "..".
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" ||
		strings.Contains(name, "..") ||
		strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// ListNotes lista os arquivos .md da pasta de memória, ordenados por nome.
func (w *Workspace) ListNotes() ([]models.WorkspaceFile, error) {
	dir := w.NotesPath()
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar %s: %w", dir, err)
	}

	files := []models.WorkspaceFile{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("erro ao ler metadados de %s: %w", e.Name(), err)
		}
		files = append(files, models.WorkspaceFile{
			Name:      e.Name(),
			Path:      e.Name(),
			Size:      info.Size(),
			UpdatedAt: info.ModTime().UTC(),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// ReadNote lê uma nota. O nome é validado antes de ser juntado ao caminho base.
func (w *Workspace) ReadNote(name string) (models.WorkspaceFileContent, error) {
	if err := ValidateName(name); err != nil {
		return models.WorkspaceFileContent{}, err
	}
	data, err := os.ReadFile(filepath.Join(w.NotesPath(), name))
	if err != nil {
		return models.WorkspaceFileContent{}, fmt.Errorf("erro ao ler %s: %w", name, err)
	}
	return models.WorkspaceFileContent{Name: name, Content: string(data)}, nil
}

// RenderHTML converte o markdown de uma nota em HTML.
func RenderHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
