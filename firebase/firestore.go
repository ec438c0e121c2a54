package firebase

import (
	"context"
	"fmt"

	"mission-control/models"

	"cloud.google.com/go/firestore"
)

// LogsCollection é a coleção do Firestore que espelha a tabela system_logs.
const LogsCollection = "system_logs"

// LogWriter grava uma linha de log em um destino secundário.
type LogWriter interface {
	WriteLog(ctx context.Context, entry models.SystemLog) error
}

// FirestoreWriter usa o ID do log como ID do documento, então regravar é idempotente.
type FirestoreWriter struct {
	client     *firestore.Client
	collection string
}

func NewFirestoreWriter(client *firestore.Client) *FirestoreWriter {
	return &FirestoreWriter{client: client, collection: LogsCollection}
}

func (w *FirestoreWriter) WriteLog(ctx context.Context, entry models.SystemLog) error {
	_, err := w.client.Collection(w.collection).Doc(entry.ID).Set(ctx, entry)
	if err != nil {
		return fmt.Errorf("erro ao espelhar log %s no Firestore: %w", entry.ID, err)
	}
	return nil
}

func (w *FirestoreWriter) Close() error { return w.client.Close() }
