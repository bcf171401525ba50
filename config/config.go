package config

import (
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const ENV_FILE = ".env"
const CONFIG_FILE = "config.yaml"

type AppConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Gemini  GeminiConfig  `yaml:"gemini"`
	Brain   BrainConfig   `yaml:"brain"`

	Env EnvConfig `yaml:"-"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// GeminiConfig configures the paid fallback path.
type GeminiConfig struct {
	Model string `yaml:"model"`

	// TimeoutSeconds bounds a single GenerateContent call.
	// 0 or below means no deadline beyond the request context.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

type BrainConfig struct {
	// Path to the knowledge base JSON, relative to the config base path.
	Path string `yaml:"path"`
}

// EnvConfig holds secrets and deploy-specific values supplied via
// environment variables (optionally through a .env file).
type EnvConfig struct {
	MongoURI     string `env:"MONGODB_URI"`
	MongoDBName  string `env:"MONGO_DB_NAME" envDefault:"brainchat"`
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	Port         string `env:"PORT" envDefault:"3000"`
}

var config *AppConfig

func InitApp() {
	// load environment variables
	godotenv.Load(filepath.Join(GetBasePath(), ENV_FILE))

	// load configuration file
	data, err := os.ReadFile(filepath.Join(GetBasePath(), CONFIG_FILE))
	if err != nil {
		panic(err)
	}

	var c AppConfig
	err = yaml.Unmarshal(data, &c)
	if err != nil {
		panic(err)
	}

	if err := env.Parse(&c.Env); err != nil {
		panic(err)
	}

	config = &c
}

func GetConfig() AppConfig {
	if config == nil {
		InitApp()
	}

	return *config
}

func GetBasePath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		cfgPath := filepath.Join(dir, CONFIG_FILE)
		if info, err := os.Stat(cfgPath); err == nil && !info.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}
