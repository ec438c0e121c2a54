package models

import "time"

// WorkspaceFile descreve uma nota markdown da pasta de memória.
type WorkspaceFile struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type WorkspaceFileContent struct {
	Name    string `json:"name"`
	Content string `json:"content"`
	HTML    string `json:"html,omitempty"`
}

// Agent é uma entrada do roster "Team Structure (Locked)" do MEMORY.md.
type Agent struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Model  string `json:"model"`
	Status string `json:"status"`
}
