package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"found-music-bot/utils"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigFile = "found-music-bot.yaml"
	// Telegram bots cannot fetch files larger than 20 MB.
	defaultMaxFileSize = 20 << 20
)

// Messages holds every user visible notice.
type Messages struct {
	Start             string `yaml:"start"`
	Searching         string `yaml:"searching"`
	Listening         string `yaml:"listening"`
	NoResults         string `yaml:"no_results"`
	NotRecognized     string `yaml:"not_recognized"`
	NotMusicFile      string `yaml:"not_music_file"`
	TooLarge          string `yaml:"too_large"`
	Failure           string `yaml:"failure"`
	StatsOff          string `yaml:"stats_off"`
	FoundHeading      string `yaml:"found_heading"`
	RecognizedHeading string `yaml:"recognized_heading"`
}

// Config contains the bot configuration.
type Config struct {
	BotToken       string   `yaml:"-"`
	AuddToken      string   `yaml:"-"`
	YouTubeAPIKey  string   `yaml:"-"`
	ShazamLanguage string   `yaml:"shazam_language"`
	ShazamCountry  string   `yaml:"shazam_country"`
	ScratchDir     string   `yaml:"scratch_dir"`
	MaxFileSize    int64    `yaml:"max_file_size"`
	SampleSeconds  int      `yaml:"sample_seconds"`
	DBType         string   `yaml:"db_type"`
	DBPath         string   `yaml:"db_path"`
	MongoURI       string   `yaml:"mongo_uri"`
	Messages       Messages `yaml:"messages"`
}

// DefaultMessages returns the built-in notices.
func DefaultMessages() Messages {
	return Messages{
		Start: "Hi! 🎧 I identify music.\n\n" +
			"1. Send me a <b>song title</b> and I will look it up.\n" +
			"2. Send me a <b>voice message</b>, an <b>audio</b> or <b>video</b> file and I will tell you what is playing.",
		Searching:         "🔎 Searching: %s...",
		Listening:         "👂 Listening... give me a second.",
		NoResults:         "Nothing found. Try a different query.",
		NotRecognized:     "Could not recognize the track: too much noise or it is a rare one.",
		NotMusicFile:      "This is not a music or video file.",
		TooLarge:          "The file is too large, send a shorter clip.",
		Failure:           "Something went wrong, please try again later.",
		StatsOff:          "Statistics are disabled.",
		FoundHeading:      "🎵 Found it!",
		RecognizedHeading: "🎧 Recognized!",
	}
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		ShazamLanguage: "en-US",
		ShazamCountry:  "US",
		ScratchDir:     "tmp",
		MaxFileSize:    defaultMaxFileSize,
		SampleSeconds:  20,
		DBPath:         "found-music-bot.db",
		MongoURI:       "mongodb://localhost:27017",
		Messages:       DefaultMessages(),
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// the environment (a local .env file is loaded first). An empty path
// means CONFIG_FILE or ./found-music-bot.yaml. The token is not checked;
// see ValidateBot.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg, err := LoadConfigFile(path)
	if err != nil {
		return cfg, err
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

// LoadConfigFile reads the YAML file at path on top of the defaults. A
// missing file yields the defaults.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = utils.GetEnv("CONFIG_FILE", defaultConfigFile)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.Messages.fillDefaults(DefaultMessages())
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.BotToken = utils.GetEnv("BOT_TOKEN", c.BotToken)
	c.AuddToken = utils.GetEnv("AUDD_API_TOKEN", c.AuddToken)
	c.YouTubeAPIKey = utils.GetEnv("YOUTUBE_API_KEY", c.YouTubeAPIKey)
	c.ShazamLanguage = utils.GetEnv("SHAZAM_LANGUAGE", c.ShazamLanguage)
	c.ShazamCountry = utils.GetEnv("SHAZAM_COUNTRY", c.ShazamCountry)
	c.ScratchDir = utils.GetEnv("SCRATCH_DIR", c.ScratchDir)
	c.DBType = strings.ToLower(utils.GetEnv("DB_TYPE", c.DBType))
	c.DBPath = utils.GetEnv("DB_PATH", c.DBPath)
	c.MongoURI = utils.GetEnv("MONGO_URI", c.MongoURI)

	if v := utils.GetEnv("MAX_FILE_SIZE"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("failed to convert env variable (%s) to int: %w", "MAX_FILE_SIZE", err)
		}
		c.MaxFileSize = n
	}
	if v := utils.GetEnv("SAMPLE_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("failed to convert env variable (%s) to int: %w", "SAMPLE_SECONDS", err)
		}
		c.SampleSeconds = n
	}
	return nil
}

// ValidateBot checks the configuration needed to run the bot, including
// the token.
func (c *Config) ValidateBot() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is not set")
	}
	return c.Validate()
}

// Validate checks the settings shared by the bot and the command line
// tools. The token is not required here.
func (c *Config) Validate() error {
	if c.ScratchDir == "" {
		return fmt.Errorf("scratch_dir cannot be empty")
	}
	if c.MaxFileSize <= 0 {
		return fmt.Errorf("max_file_size must be positive, got %d", c.MaxFileSize)
	}
	if c.SampleSeconds < 3 || c.SampleSeconds > 60 {
		return fmt.Errorf("sample_seconds must be between 3 and 60, got %d", c.SampleSeconds)
	}
	switch c.DBType {
	case "", "sqlite", "mongo":
	default:
		return fmt.Errorf("unknown db_type %q, valid types: sqlite, mongo", c.DBType)
	}
	return nil
}

func (m *Messages) fillDefaults(d Messages) {
	fill := func(dst *string, def string) {
		if strings.TrimSpace(*dst) == "" {
			*dst = def
		}
	}
	fill(&m.Start, d.Start)
	fill(&m.Searching, d.Searching)
	fill(&m.Listening, d.Listening)
	fill(&m.NoResults, d.NoResults)
	fill(&m.NotRecognized, d.NotRecognized)
	fill(&m.NotMusicFile, d.NotMusicFile)
	fill(&m.TooLarge, d.TooLarge)
	fill(&m.Failure, d.Failure)
	fill(&m.StatsOff, d.StatsOff)
	fill(&m.FoundHeading, d.FoundHeading)
	fill(&m.RecognizedHeading, d.RecognizedHeading)
}
