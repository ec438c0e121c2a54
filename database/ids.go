package database

import "github.com/google/uuid"

// newUUID gera UUIDv7: dentro do processo os IDs crescem com a ordem de criação,
// o que desempata linhas gravadas no mesmo milissegundo.
func newUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
