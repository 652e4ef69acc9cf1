package core

import (
	"log"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Address            string
		DebugAddress       string
		ReadTimeout        time.Duration
		WriteTimeout       time.Duration
		ShutdownTimeout    time.Duration
		JWTExpirationDelta time.Duration
		BodyLimit          string
		CORSOrigins        []string
	}

	DatabaseConfig struct {
		Engine        string // sqlite3 | postgres
		Path          string // sqlite3 only
		Host          string
		Port          int
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
		MaxOpenConns  int
	}

	UploadsConfig struct {
		Backend   string // local | b2
		Dir       string
		URLPrefix string
		B2KeyID   string
		B2AppKey  string
		B2Bucket  string
	}

	EmailConfig struct {
		DefaultFromEmail mail.Address
		SendgridAPIKey   string
		Notifications    bool // mirror in-app notifications to email
	}

	Config struct {
		Env          string
		AppName      string
		Build        string
		Debug        bool
		TestMode     bool
		SecretKey    string
		RollbarToken string
		Server       ServerConfig
		Database     DatabaseConfig
		Uploads      UploadsConfig
		Email        EmailConfig
	}
)

const (
	EngineSQLite   = "sqlite3"
	EnginePostgres = "postgres"
)

func (c DatabaseConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c DatabaseConfig) IsSQLite() bool {
	return c.Engine == EngineSQLite
}

// NewConfig reads the configuration of the current environment (ENV: DEV, TEST, QA, PROD).
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("appName", "Blend Vidya LMS")
	v.SetDefault("build", "dev")
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("secretKey", "u7#kq2-p0zc$yv&n!4rbd9(x1w)e*3hfl6+a5ms8tj")
	v.SetDefault("rollbarToken", "")

	v.SetDefault("server.address", ":4000")
	v.SetDefault("server.debugAddress", ":4001")
	v.SetDefault("server.readTimeout", 5*time.Second)
	v.SetDefault("server.writeTimeout", 10*time.Second)
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.jwtExpirationDelta", 8*time.Hour)
	v.SetDefault("server.bodyLimit", "20M")
	v.SetDefault("server.corsOrigins", []string{"*"})

	v.SetDefault("database.engine", EngineSQLite)
	v.SetDefault("database.path", "lms.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "lms")
	v.SetDefault("database.user", "lms")
	v.SetDefault("database.password", "")
	v.SetDefault("database.adminUser", "postgres")
	v.SetDefault("database.adminPassword", "")
	v.SetDefault("database.disableTLS", true)
	v.SetDefault("database.maxOpenConns", 10)

	v.SetDefault("uploads.backend", "local")
	v.SetDefault("uploads.dir", "uploads")
	v.SetDefault("uploads.urlPrefix", "/uploads")
	v.SetDefault("uploads.b2KeyID", "")
	v.SetDefault("uploads.b2AppKey", "")
	v.SetDefault("uploads.b2Bucket", "")

	v.SetDefault("email.defaultFromEmail", "noreply@localhost")
	v.SetDefault("email.defaultFromName", "Blend Vidya LMS")
	v.SetDefault("email.sendgridApiKey", "")
	v.SetDefault("email.notifications", false)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
		v.SetDefault("database.path", "file:lms?mode=memory&cache=shared")
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		Env:          env,
		AppName:      v.GetString("appName"),
		Build:        v.GetString("build"),
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		SecretKey:    v.GetString("secretKey"),
		RollbarToken: v.GetString("rollbarToken"),
		Server: ServerConfig{
			Address:            v.GetString("server.address"),
			DebugAddress:       v.GetString("server.debugAddress"),
			ReadTimeout:        v.GetDuration("server.readTimeout"),
			WriteTimeout:       v.GetDuration("server.writeTimeout"),
			ShutdownTimeout:    v.GetDuration("server.shutdownTimeout"),
			JWTExpirationDelta: v.GetDuration("server.jwtExpirationDelta"),
			BodyLimit:          v.GetString("server.bodyLimit"),
			CORSOrigins:        v.GetStringSlice("server.corsOrigins"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("database.engine"),
			Path:          v.GetString("database.path"),
			Host:          v.GetString("database.host"),
			Port:          v.GetInt("database.port"),
			Name:          v.GetString("database.name"),
			User:          v.GetString("database.user"),
			Password:      v.GetString("database.password"),
			AdminUser:     v.GetString("database.adminUser"),
			AdminPassword: v.GetString("database.adminPassword"),
			DisableTLS:    v.GetBool("database.disableTLS"),
			MaxOpenConns:  v.GetInt("database.maxOpenConns"),
		},
		Uploads: UploadsConfig{
			Backend:   v.GetString("uploads.backend"),
			Dir:       v.GetString("uploads.dir"),
			URLPrefix: v.GetString("uploads.urlPrefix"),
			B2KeyID:   v.GetString("uploads.b2KeyID"),
			B2AppKey:  v.GetString("uploads.b2AppKey"),
			B2Bucket:  v.GetString("uploads.b2Bucket"),
		},
		Email: EmailConfig{
			DefaultFromEmail: mail.Address{
				Name:    v.GetString("email.defaultFromName"),
				Address: v.GetString("email.defaultFromEmail"),
			},
			SendgridAPIKey: v.GetString("email.sendgridApiKey"),
			Notifications:  v.GetBool("email.notifications"),
		},
	}
}
