package utilities

import (
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"
	"time"
)

var (
	InfoLogger  = log.New(os.Stdout, "\033[32m[INFO]\033[0m ", logFlags)
	WarnLogger  = log.New(os.Stdout, "\033[33m[WARN]\033[0m ", logFlags)
	ErrorLogger = log.New(os.Stderr, "\033[31m[ERROR]\033[0m ", logFlags)
	DebugLogger = log.New(os.Stdout, "\033[36m[DEBUG]\033[0m ", logFlags)

	debugEnabled atomic.Bool
)

const logFlags = log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile

// InitLogger inicializa os loggers. Com level "debug" as mensagens de DEBUG
// passam a ser emitidas; qualquer outro valor as descarta.
func InitLogger(level string) {
	log.SetFlags(logFlags)

	InfoLogger = log.New(os.Stdout, "\033[32m[INFO]\033[0m ", logFlags)
	WarnLogger = log.New(os.Stdout, "\033[33m[WARN]\033[0m ", logFlags)
	ErrorLogger = log.New(os.Stderr, "\033[31m[ERROR]\033[0m ", logFlags)
	DebugLogger = log.New(os.Stdout, "\033[36m[DEBUG]\033[0m ", logFlags)

	debugEnabled.Store(strings.EqualFold(strings.TrimSpace(level), "debug"))
}

// SetOutput redireciona todos os loggers, usado pelos testes e pelo TUI.
func SetOutput(w io.Writer) {
	InfoLogger.SetOutput(w)
	WarnLogger.SetOutput(w)
	ErrorLogger.SetOutput(w)
	DebugLogger.SetOutput(w)
}

// LogRequest registra informações sobre a requisição HTTP
func LogRequest(method, path, remoteAddr string, status int, duration time.Duration) {
	InfoLogger.Printf("%s %s %s %d %v", method, path, remoteAddr, status, duration)
}

// LogError registra erros com o contexto em que ocorreram
func LogError(err error, context string) {
	ErrorLogger.Printf("%s: %v", context, err)
}

// LogWarn registra situações recuperáveis que não chegam ao cliente
func LogWarn(format string, v ...interface{}) {
	WarnLogger.Printf(format, v...)
}

// LogDebug registra informações de debug
func LogDebug(format string, v ...interface{}) {
	if !debugEnabled.Load() {
		return
	}
	DebugLogger.Printf(format, v...)
}

// LogInfo registra informações gerais
func LogInfo(format string, v ...interface{}) {
	InfoLogger.Printf(format, v...)
}
