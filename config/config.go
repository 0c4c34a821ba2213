package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrConfigMissing marks a required credential or key that is not configured.
var ErrConfigMissing = errors.New("configuration missing")

type Config struct {
	Server struct {
		Port string `yaml:"port"`
		Host string `yaml:"host"`
	} `yaml:"server"`

	App struct {
		Env string `yaml:"env"`
	} `yaml:"app"`

	Discord struct {
		Token  string `yaml:"token"`
		UserID string `yaml:"user_id"`
	} `yaml:"discord"`

	SMTP struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		From     string `yaml:"from"`
	} `yaml:"smtp"`

	Aliases []Alias `yaml:"aliases"`

	News struct {
		GoogleAPIKey   string   `yaml:"google_api_key"`
		SearchEngineID string   `yaml:"search_engine_id"`
		OpenAIAPIKey   string   `yaml:"openai_api_key"`
		Query          string   `yaml:"query"`
		ResultCount    int64    `yaml:"result_count"`
		Model          string   `yaml:"model"`
		MaxTokens      int      `yaml:"max_tokens"`
		Temperature    *float32 `yaml:"temperature"`
		Schedule       string   `yaml:"schedule"`
		Timezone       string   `yaml:"timezone"`
	} `yaml:"news"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
}

// Alias maps a sender address to the environment variables holding its
// SMTP credentials. Username and Password are filled in at load time.
type Alias struct {
	Address  string `yaml:"address"`
	UserEnv  string `yaml:"user_env"`
	PassEnv  string `yaml:"pass_env"`
	Username string `yaml:"-"`
	Password string `yaml:"-"`
}

var defaultAliases = []Alias{
	{
		Address: "info@prosolutionlogistics.com",
		UserEnv: "PRO_SOLUTIONS_USER",
		PassEnv: "PRO_SOLUTIONS_PASS",
	},
}

// Load reads the optional .env and YAML files at configPath, applies
// defaults and lets environment variables override both.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on system env vars")
	}

	config := &Config{}

	file, err := os.Open(configPath)
	switch {
	case err == nil:
		defer file.Close()
		decoder := yaml.NewDecoder(file)
		if err := decoder.Decode(config); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", configPath, err)
		}
	case errors.Is(err, os.ErrNotExist):
		log.Printf("Config file %s not found, using defaults and environment", configPath)
	default:
		return nil, err
	}

	config.applyDefaults()
	config.overrideWithEnvVars()
	config.resolveAliases()

	return config, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.App.Env == "" {
		c.App.Env = "development"
	}
	if c.SMTP.Host == "" {
		c.SMTP.Host = "smtp.gmail.com"
	}
	if c.SMTP.Port == 0 {
		c.SMTP.Port = 587
	}
	if c.Aliases == nil {
		c.Aliases = append([]Alias(nil), defaultAliases...)
	}
	if c.News.Query == "" {
		c.News.Query = "financial news"
	}
	if c.News.ResultCount == 0 {
		c.News.ResultCount = 10
	}
	if c.News.Model == "" {
		c.News.Model = "gpt-4o"
	}
	if c.News.MaxTokens == 0 {
		c.News.MaxTokens = 500
	}
	// nil means unset; an explicit 0 is kept
	if c.News.Temperature == nil {
		temperature := float32(0.7)
		c.News.Temperature = &temperature
	}
	if c.News.Schedule == "" {
		c.News.Schedule = "0 */4 * * *"
	}
	if c.News.Timezone == "" {
		c.News.Timezone = "America/New_York"
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
}

func (c *Config) overrideWithEnvVars() {
	// Server settings
	if port := GetEnv("PORT", ""); port != "" {
		c.Server.Port = port
	}
	if host := GetEnv("HOST", ""); host != "" {
		c.Server.Host = host
	}
	if env := GetEnv("APP_ENV", ""); env != "" {
		c.App.Env = env
	}

	// Discord bot
	if token := GetEnv("DISCORD_API_KEY", ""); token != "" {
		c.Discord.Token = token
	}
	if userID := GetEnv("DISCORD_USER_ID", ""); userID != "" {
		c.Discord.UserID = userID
	}

	// Mail
	if user := GetEnv("EMAIL_USER", ""); user != "" {
		c.SMTP.Username = user
	}
	if pass := GetEnv("EMAIL_PASS", ""); pass != "" {
		c.SMTP.Password = pass
	}
	if from := GetEnv("EMAIL_ALIAS", ""); from != "" {
		c.SMTP.From = from
	}
	if smtpHost := GetEnv("SMTP_HOST", ""); smtpHost != "" {
		c.SMTP.Host = smtpHost
	}
	if smtpPort := GetEnv("SMTP_PORT", ""); smtpPort != "" {
		if p, err := strconv.Atoi(smtpPort); err == nil {
			c.SMTP.Port = p
		} else {
			log.Printf("WARNING: ignoring invalid SMTP_PORT %q", smtpPort)
		}
	}
	if c.SMTP.From == "" {
		c.SMTP.From = c.SMTP.Username
	}

	// News pipeline
	if key := GetEnv("GOOGLE_API_KEY", ""); key != "" {
		c.News.GoogleAPIKey = key
	}
	if cx := GetEnv("GOOGLE_CX", ""); cx != "" {
		c.News.SearchEngineID = cx
	}
	if key := GetEnv("OPENAI_API_KEY", ""); key != "" {
		c.News.OpenAIAPIKey = key
	}
	if schedule := GetEnv("NEWS_SCHEDULE", ""); schedule != "" {
		c.News.Schedule = schedule
	}
	if tz := GetEnv("NEWS_TIMEZONE", ""); tz != "" {
		c.News.Timezone = tz
	}

	// Ticker store
	if addr := GetEnv("REDIS_ADDR", ""); addr != "" {
		c.Redis.Addr = addr
	}
	if pass := GetEnv("REDIS_PASSWORD", ""); pass != "" {
		c.Redis.Password = pass
	}
}

func (c *Config) resolveAliases() {
	for i := range c.Aliases {
		a := &c.Aliases[i]
		if a.UserEnv != "" {
			a.Username = GetEnv(a.UserEnv, "")
		}
		if a.PassEnv != "" {
			a.Password = GetEnv(a.PassEnv, "")
		}
	}
}

// RequireDiscord reports which Discord setting is missing, if any.
func (c *Config) RequireDiscord() error {
	if c.Discord.Token == "" {
		return fmt.Errorf("%w: DISCORD_API_KEY", ErrConfigMissing)
	}
	if c.Discord.UserID == "" {
		return fmt.Errorf("%w: DISCORD_USER_ID", ErrConfigMissing)
	}
	return nil
}

// RequireNews reports the first missing news pipeline key, if any.
func (c *Config) RequireNews() error {
	switch {
	case c.News.GoogleAPIKey == "":
		return fmt.Errorf("%w: GOOGLE_API_KEY", ErrConfigMissing)
	case c.News.SearchEngineID == "":
		return fmt.Errorf("%w: GOOGLE_CX", ErrConfigMissing)
	case c.News.OpenAIAPIKey == "":
		return fmt.Errorf("%w: OPENAI_API_KEY", ErrConfigMissing)
	}
	return nil
}

func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// SMTPAddr returns host:port of the outgoing mail server.
func (c *Config) SMTPAddr() string {
	return fmt.Sprintf("%s:%d", c.SMTP.Host, c.SMTP.Port)
}

func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}
