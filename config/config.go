// Package config resolve a configuração do servidor e dos comandos a partir
// do ambiente, com um arquivo .env opcional.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Database struct {
	Driver     string
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SSLMode    string
	SQLitePath string
}

type Config struct {
	Port                    string
	Database                Database
	WorkspaceRoot           string
	HeartbeatInterval       time.Duration
	CORSAllowedOrigins      []string
	FirebaseCredentialsPath string
	LogLevel                string
	APIURL                  string
}

// Load lê o .env (se existir) e resolve as variáveis de ambiente.
func Load() (*Config, error) {
	// A ausência do .env não é erro: em produção tudo vem do ambiente.
	_ = godotenv.Load()
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "")
	v.SetDefault("PORT", "3001")
	v.SetDefault("DB_DRIVER", DriverSQLite)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "mission_control")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("SQLITE_PATH", "mission-control.db")
	v.SetDefault("WORKSPACE_ROOT", "workspace")
	v.SetDefault("HEARTBEAT_INTERVAL", "30s")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("FIREBASE_CREDENTIALS_PATH", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("API_URL", "http://localhost:3001")
	return v
}

// FromViper monta a Config a partir de uma instância já populada.
func FromViper(v *viper.Viper) (*Config, error) {
	port := strings.TrimSpace(v.GetString("SERVER_PORT"))
	if port == "" {
		port = strings.TrimSpace(v.GetString("PORT"))
	}

	interval := v.GetDuration("HEARTBEAT_INTERVAL")
	if interval <= 0 {
		return nil, fmt.Errorf("HEARTBEAT_INTERVAL inválido: %q", v.GetString("HEARTBEAT_INTERVAL"))
	}

	driver := strings.ToLower(strings.TrimSpace(v.GetString("DB_DRIVER")))
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("DB_DRIVER não suportado: %q", driver)
	}

	var origins []string
	for _, o := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	root := strings.TrimSpace(v.GetString("WORKSPACE_ROOT"))
	if root != "" {
		root = filepath.Clean(root)
	}

	return &Config{
		Port: port,
		Database: Database{
			Driver:     driver,
			Host:       v.GetString("DB_HOST"),
			Port:       v.GetString("DB_PORT"),
			User:       v.GetString("DB_USER"),
			Password:   v.GetString("DB_PASSWORD"),
			Name:       v.GetString("DB_NAME"),
			SSLMode:    v.GetString("DB_SSLMODE"),
			SQLitePath: v.GetString("SQLITE_PATH"),
		},
		WorkspaceRoot:           root,
		HeartbeatInterval:       interval,
		CORSAllowedOrigins:      origins,
		FirebaseCredentialsPath: strings.TrimSpace(v.GetString("FIREBASE_CREDENTIALS_PATH")),
		LogLevel:                v.GetString("LOG_LEVEL"),
		APIURL:                  strings.TrimRight(v.GetString("API_URL"), "/"),
	}, nil
}

// DSN monta a string de conexão do driver configurado.
func (d Database) DSN() string {
	if d.Driver == DriverPostgres {
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
	}
	return "file:" + d.SQLitePath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}
