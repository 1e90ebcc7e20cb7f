package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	DB      DBConfig
	JWT     JWTConfig
	HTTP    HTTPConfig
	Storage StorageConfig
	Upload  UploadConfig
	Cache   CacheConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo (ej. DATABASE_URL de Supabase).
// Driver "memory" levanta el almacén en memoria (demos locales, sin PostgreSQL).
type DBConfig struct {
	Driver      string // postgres | memory
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
	Migrate     bool // aplica las migraciones embebidas al arrancar
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de los tokens emitidos por el proveedor de identidad.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos (solo para tokens de desarrollo)
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host        string
	Port        int
	CORSOrigins string
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StorageConfig almacenamiento de objetos (S3 o compatible: MinIO, LocalStack).
// Los tres buckets son lógicos; aquí se les asigna el nombre físico.
type StorageConfig struct {
	Driver                string // s3 | memory
	Region                string
	Endpoint              string // vacío = AWS real
	AccessKey             string
	SecretKey             string
	UsePathStyle          bool
	BucketDocuments       string
	BucketRecordTemplates string
	BucketRecordEntries   string
	PresignMinutes        int
}

// PresignTTL vigencia de las URLs de descarga firmadas.
func (c StorageConfig) PresignTTL() time.Duration {
	if c.PresignMinutes <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(c.PresignMinutes) * time.Minute
}

// UploadConfig límites de archivos aceptados en la frontera de almacenamiento.
type UploadConfig struct {
	MaxSizeMB         int
	AllowedExtensions []string
}

// MaxBytes tamaño máximo en bytes.
func (c UploadConfig) MaxBytes() int64 {
	return int64(c.MaxSizeMB) * 1024 * 1024
}

// CacheConfig caché de URLs firmadas en Redis. RedisURL vacío desactiva la caché.
type CacheConfig struct {
	RedisURL string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, JWT_SECRET, S3_REGION, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo .env o config.env
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "sgsst-docs"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			Driver:      getString(v, "DB_DRIVER", "postgres"),
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "sgsst_docs"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    getInt(v, "DB_MAX_CONNS", 25),
			Migrate:     getBool(v, "DB_MIGRATE", true),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "sgsst-identity"),
		},
		HTTP: HTTPConfig{
			Host:        getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:        getInt(v, "HTTP_PORT", 8080),
			CORSOrigins: getString(v, "CORS_ORIGINS", "*"),
		},
		Storage: StorageConfig{
			Driver:                getString(v, "STORAGE_DRIVER", "s3"),
			Region:                getString(v, "S3_REGION", "us-east-1"),
			Endpoint:              getString(v, "S3_ENDPOINT", ""),
			AccessKey:             getString(v, "S3_ACCESS_KEY", ""),
			SecretKey:             getString(v, "S3_SECRET_KEY", ""),
			UsePathStyle:          getBool(v, "S3_USE_PATH_STYLE", false),
			BucketDocuments:       getString(v, "S3_BUCKET_DOCUMENTS", "sgsst-documentos"),
			BucketRecordTemplates: getString(v, "S3_BUCKET_RECORD_TEMPLATES", "sgsst-registros-base"),
			BucketRecordEntries:   getString(v, "S3_BUCKET_RECORD_ENTRIES", "sgsst-registros-llenos"),
			PresignMinutes:        getInt(v, "S3_PRESIGN_MINUTES", 15),
		},
		Upload: UploadConfig{
			MaxSizeMB:         getInt(v, "UPLOAD_MAX_MB", 20),
			AllowedExtensions: getList(v, "UPLOAD_ALLOWED_EXTENSIONS", []string{"pdf", "doc", "docx", "xls", "xlsx", "jpg", "jpeg", "png"}),
		},
		Cache: CacheConfig{
			RedisURL: getString(v, "REDIS_URL", ""),
		},
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET es obligatorio")
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}

// getList lee una lista separada por comas (ej. "pdf,docx,xlsx").
func getList(v *viper.Viper, key string, def []string) []string {
	if !v.IsSet(key) {
		return def
	}
	var out []string
	for _, p := range strings.Split(v.GetString(key), ",") {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
