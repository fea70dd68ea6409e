package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all client settings. It is resolved once at startup and
// passed down explicitly; nothing in this module reads viper after that.
type Config struct {
	Debug    bool
	TestMode bool
	Env      string // DEV (local; default), TEST, QA, PROD
	AppName  string
	Build    string

	BackendURL     string
	RequestTimeout time.Duration
	CacheTTL       time.Duration
	PrefetchDelay  time.Duration
	TokenPath      string

	RollbarToken string
}

// NewConfig loads the configuration from the environment.
// A `config/.env.<env>` file is loaded first if it exists (ignored if it does not);
// env vars are prefixed with the current ENV (eg. DEV_BACKEND_URL).
func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "Epistula")
	conf.SetDefault("build", "dev")
	conf.SetDefault("backendUrl", "http://localhost:8000/api")
	conf.SetDefault("requestTimeout", 30*time.Second)
	conf.SetDefault("cacheTtl", 5*time.Minute)
	conf.SetDefault("prefetchDelay", 100*time.Millisecond)
	conf.SetDefault("tokenPath", defaultTokenPath())
	conf.SetDefault("rollbarToken", "")

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	return &Config{
		Debug:          conf.GetBool("debug"),
		TestMode:       conf.GetBool("testMode"),
		Env:            env,
		AppName:        conf.GetString("appName"),
		Build:          conf.GetString("build"),
		BackendURL:     strings.TrimRight(conf.GetString("backendUrl"), "/"),
		RequestTimeout: conf.GetDuration("requestTimeout"),
		CacheTTL:       conf.GetDuration("cacheTtl"),
		PrefetchDelay:  conf.GetDuration("prefetchDelay"),
		TokenPath:      conf.GetString("tokenPath"),
		RollbarToken:   conf.GetString("rollbarToken"),
	}
}

func defaultTokenPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "epistula", "token")
}
