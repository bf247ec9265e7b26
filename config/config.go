package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	StoreDriverCSV      = "csv"
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"

	ResumeStorageLocal = "local"
	ResumeStorageMinio = "minio"
)

type Config struct {
	Server   Server
	Gemini   Gemini
	Store    Store
	Database Database
	Resume   Resume
	MinIO    MinIO
	Session  Session
	Admin    Admin
	Log      Log

	// GeminiApiKey is kept at the top level so the key is easy to spot in env dumps.
	GeminiApiKey string
}

type Server struct {
	Port             string
	GinMode          string
	CORSAllowOrigins []string
}

type Gemini struct {
	Model   string
	Timeout time.Duration
}

type Store struct {
	Driver          string
	DataDir         string
	UsersFile       string
	SubmissionsFile string
}

type Database struct {
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SSLMode    string
	SQLitePath string
}

type Resume struct {
	Storage        string
	Dir            string
	MaxUploadBytes int64
}

type MinIO struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UseSSL          bool
}

type Session struct {
	DBPath       string
	CookieName   string
	TTL          time.Duration
	SecureCookie bool
}

type Admin struct {
	Email    string
	Password string
}

type Log struct {
	Level  string
	Pretty bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("CORS_ALLOW_ORIGINS", "*")
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	v.SetDefault("GEMINI_TIMEOUT", "60s")
	v.SetDefault("STORE_DRIVER", StoreDriverCSV)
	v.SetDefault("DATA_DIR", "data")
	v.SetDefault("USERS_FILE", "users.csv")
	v.SetDefault("SUBMISSIONS_FILE", "submissions.csv")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("SQLITE_PATH", "data/placement.db")
	v.SetDefault("RESUME_STORAGE", ResumeStorageLocal)
	v.SetDefault("RESUMES_DIR", "resumes")
	v.SetDefault("MAX_UPLOAD_BYTES", 10<<20)
	v.SetDefault("MINIO_BUCKET", "resumes")
	v.SetDefault("SESSION_DB_PATH", "data/sessions.db")
	v.SetDefault("SESSION_COOKIE_NAME", "placement_session")
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("ADMIN_EMAIL", "admin@admin.com")
	v.SetDefault("ADMIN_PASSWORD", "admin123")
	v.SetDefault("LOG_LEVEL", "info")
}

func NewConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	var config Config

	config.Server.Port = v.GetString("SERVER_PORT")
	config.Server.GinMode = v.GetString("GIN_MODE")
	config.Server.CORSAllowOrigins = splitList(v.GetString("CORS_ALLOW_ORIGINS"))

	config.GeminiApiKey = strings.TrimSpace(v.GetString("GEMINI_API_KEY"))
	config.Gemini.Model = v.GetString("GEMINI_MODEL")
	config.Gemini.Timeout = v.GetDuration("GEMINI_TIMEOUT")

	config.Store.Driver = strings.ToLower(strings.TrimSpace(v.GetString("STORE_DRIVER")))
	config.Store.DataDir = v.GetString("DATA_DIR")
	config.Store.UsersFile = v.GetString("USERS_FILE")
	config.Store.SubmissionsFile = v.GetString("SUBMISSIONS_FILE")

	config.Database.Host = v.GetString("DATABASE_HOST")
	config.Database.Port = v.GetString("DATABASE_PORT")
	config.Database.User = v.GetString("DATABASE_USER")
	config.Database.Password = v.GetString("DATABASE_PASSWORD")
	config.Database.Name = v.GetString("DATABASE_NAME")
	config.Database.SSLMode = v.GetString("DATABASE_SSLMODE")
	config.Database.SQLitePath = v.GetString("SQLITE_PATH")

	config.Resume.Storage = strings.ToLower(strings.TrimSpace(v.GetString("RESUME_STORAGE")))
	config.Resume.Dir = v.GetString("RESUMES_DIR")
	config.Resume.MaxUploadBytes = v.GetInt64("MAX_UPLOAD_BYTES")

	config.MinIO.Endpoint = v.GetString("MINIO_ENDPOINT")
	config.MinIO.AccessKeyID = v.GetString("MINIO_ACCESS_KEY_ID")
	config.MinIO.SecretAccessKey = v.GetString("MINIO_SECRET_ACCESS_KEY")
	config.MinIO.Bucket = v.GetString("MINIO_BUCKET")
	config.MinIO.UseSSL = v.GetBool("MINIO_USE_SSL")

	config.Session.DBPath = v.GetString("SESSION_DB_PATH")
	config.Session.CookieName = v.GetString("SESSION_COOKIE_NAME")
	config.Session.TTL = v.GetDuration("SESSION_TTL")
	config.Session.SecureCookie = v.GetBool("SESSION_SECURE_COOKIE")

	config.Admin.Email = strings.TrimSpace(v.GetString("ADMIN_EMAIL"))
	config.Admin.Password = v.GetString("ADMIN_PASSWORD")

	config.Log.Level = v.GetString("LOG_LEVEL")
	config.Log.Pretty = v.GetBool("LOG_PRETTY")

	if err := config.Validate(); err != nil {
		return nil, err
	}

	log.Info().
		Str("port", config.Server.Port).
		Str("store_driver", config.Store.Driver).
		Str("resume_storage", config.Resume.Storage).
		Str("gemini_model", config.Gemini.Model).
		Msg("Config loaded")
	return &config, nil
}

// Validate rejects configurations the application cannot start with.
func (c *Config) Validate() error {
	if c.GeminiApiKey == "" {
		return errors.New("GEMINI_API_KEY is not set")
	}
	switch c.Store.Driver {
	case StoreDriverCSV, StoreDriverSQLite:
	case StoreDriverPostgres:
		if c.Database.Host == "" || c.Database.Name == "" {
			return errors.New("DATABASE_HOST and DATABASE_NAME are required for the postgres store")
		}
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.Store.Driver)
	}
	switch c.Resume.Storage {
	case ResumeStorageLocal:
	case ResumeStorageMinio:
		if c.MinIO.Endpoint == "" || c.MinIO.Bucket == "" {
			return errors.New("MINIO_ENDPOINT and MINIO_BUCKET are required for minio resume storage")
		}
	default:
		return fmt.Errorf("unsupported RESUME_STORAGE %q", c.Resume.Storage)
	}
	if c.Resume.MaxUploadBytes <= 0 {
		return errors.New("MAX_UPLOAD_BYTES must be positive")
	}
	if c.Admin.Email == "" || c.Admin.Password == "" {
		return errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must not be empty")
	}
	return nil
}

func (s Store) UsersPath() string {
	return filepath.Join(s.DataDir, s.UsersFile)
}

func (s Store) SubmissionsPath() string {
	return filepath.Join(s.DataDir, s.SubmissionsFile)
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
