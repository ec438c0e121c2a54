package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"mission-control/config"
	"mission-control/database"
	"mission-control/firebase"
	"mission-control/handlers"
	"mission-control/heartbeat"
	"mission-control/utilities"
	"mission-control/workspace"
)

const shutdownTimeout = 10 * time.Second

// Server junta o banco, o heartbeat, o espelho opcional de logs e o servidor HTTP.
type Server struct {
	cfg       *config.Config
	store     *database.Store
	heartbeat *heartbeat.Heartbeat
	mirror    *firebase.MirroredAppender
	firestore *firebase.FirestoreWriter
	http      *http.Server
}

func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	store, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("erro ao conectar ao banco de dados: %w", err)
	}
	s := &Server{cfg: cfg, store: store}

	var appender handlers.LogAppender = store
	if cfg.FirebaseCredentialsPath != "" {
		client, err := firebase.NewFirestoreClient(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		s.firestore = firebase.NewFirestoreWriter(client)
		s.mirror = firebase.NewMirroredAppender(store, s.firestore)
		appender = s.mirror
		utilities.LogInfo("Espelhamento de logs no Firestore ativado")
	}

	ws := workspace.New(cfg.WorkspaceRoot)
	h := handlers.NewFromStore(store, ws, appender)
	s.heartbeat = heartbeat.New(store, appender, cfg.HeartbeatInterval)
	s.http = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           NewRouter(h, cfg.CORSAllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Run atende requisições até ctx ser cancelado e então encerra tudo em ordem.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		s.close()
		return fmt.Errorf("erro ao abrir porta %s: %w", s.http.Addr, err)
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.heartbeat.Start(ctx)

	errCh := make(chan error, 1)
	go func() {
		utilities.LogInfo("Servidor iniciado na porta %s", s.cfg.Port)
		errCh <- s.http.Serve(ln)
	}()

	var serveErr error
	select {
	case err := <-errCh:
		serveErr = err
	case <-ctx.Done():
		utilities.LogInfo("Encerrando servidor...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			utilities.LogError(err, "Erro ao encerrar servidor HTTP")
		}
		serveErr = <-errCh
	}

	s.close()
	if errors.Is(serveErr, http.ErrServerClosed) {
		return nil
	}
	return serveErr
}

func (s *Server) close() {
	if s.heartbeat != nil {
		s.heartbeat.Stop()
	}
	if s.mirror != nil {
		s.mirror.Wait()
	}
	if s.firestore != nil {
		if err := s.firestore.Close(); err != nil {
			utilities.LogError(err, "Erro ao fechar cliente do Firestore")
		}
	}
	if err := s.store.Close(); err != nil {
		utilities.LogError(err, "Erro ao fechar banco de dados")
	}
}
