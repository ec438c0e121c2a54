package firebase

import (
	"context"
	"fmt"

	"mission-control/utilities"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// NewFirestoreClient inicializa o app Firebase com o arquivo de credenciais e devolve o cliente do Firestore.
func NewFirestoreClient(ctx context.Context, credentialsPath string) (*firestore.Client, error) {
	if credentialsPath == "" {
		return nil, fmt.Errorf("FIREBASE_CREDENTIALS_PATH não está definido")
	}

	utilities.LogInfo("Inicializando conexão com o Firebase usando arquivo: %s", credentialsPath)
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("erro ao inicializar Firebase: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("erro ao obter cliente do Firestore: %w", err)
	}
	utilities.LogInfo("Conexão com Firestore estabelecida com sucesso")
	return client, nil
}
