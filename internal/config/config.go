// Package config loads and validates the generator configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DataDir   string `mapstructure:"data_dir" yaml:"data_dir" validate:"required"`
	TempDir   string `mapstructure:"temp_dir" yaml:"temp_dir" validate:"required"`
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir" validate:"required"`

	// SessionMaxDuration caps one session's audio length in seconds.
	SessionMaxDuration float64 `mapstructure:"session_max_duration" yaml:"session_max_duration" validate:"gt=0"`

	SessionsToCreate  int  `mapstructure:"sessions_to_create" yaml:"sessions_to_create" validate:"gte=0"`
	CreateAllSessions bool `mapstructure:"create_all_sessions" yaml:"create_all_sessions"`
	ExtraSessions     int  `mapstructure:"extra_sessions" yaml:"extra_sessions" validate:"gte=0"`
	BreakOnEndNote    bool `mapstructure:"break_on_end_note" yaml:"break_on_end_note"`
	CreateMP4         bool `mapstructure:"create_mp4" yaml:"create_mp4"`

	NewCardMaxTries       int `mapstructure:"new_card_max_tries" yaml:"new_card_max_tries" validate:"gt=0"`
	NewCardTriesDecrement int `mapstructure:"new_card_tries_decrement" yaml:"new_card_tries_decrement" validate:"gte=0"`
	NewCardsMaxPerSession int `mapstructure:"new_cards_max_per_session" yaml:"new_cards_max_per_session" validate:"gte=0"`
	NewCardsPerSession    int `mapstructure:"new_cards_per_session" yaml:"new_cards_per_session" validate:"gte=0"`
	NewCardsIncrement     int `mapstructure:"new_cards_increment" yaml:"new_cards_increment" validate:"gte=0"`

	ReviewCardMaxTries       int `mapstructure:"review_card_max_tries" yaml:"review_card_max_tries" validate:"gt=0"`
	ReviewCardTriesDecrement int `mapstructure:"review_card_tries_decrement" yaml:"review_card_tries_decrement" validate:"gte=0"`
	ReviewCardsMaxPerSession int `mapstructure:"review_cards_max_per_session" yaml:"review_cards_max_per_session" validate:"gte=0"`
	ReviewCardsPerSession    int `mapstructure:"review_cards_per_session" yaml:"review_cards_per_session" validate:"gte=0"`
	ReviewCardsIncrement     int `mapstructure:"review_cards_increment" yaml:"review_cards_increment" validate:"gte=0"`

	// Alpha stretches synthesized speech; above 1 slows the voice down.
	Alpha float64 `mapstructure:"alpha" yaml:"alpha" validate:"gt=0"`

	TTS    TTSConfig    `mapstructure:"tts" yaml:"tts"`
	Voices VoicesConfig `mapstructure:"voices" yaml:"voices"`

	// Datasets maps a dataset name to its presentation metadata. The source
	// file is resolved as <data_dir>/<name>.txt.
	Datasets map[string]DatasetConfig `mapstructure:"datasets" yaml:"datasets"`
}

type TTSConfig struct {
	Endpoint       string `mapstructure:"endpoint" yaml:"endpoint"`
	APIKey         string `mapstructure:"api_key" yaml:"-"`
	SampleRate     int    `mapstructure:"sample_rate" yaml:"sample_rate" validate:"gt=0"`
	CacheDir       string `mapstructure:"cache_directory" yaml:"cache_directory" validate:"required"`
	CommandPath    string `mapstructure:"command_path" yaml:"command_path"`
	RefVoiceDir    string `mapstructure:"ref_voice_directory" yaml:"ref_voice_directory"`
	TargetLanguage string `mapstructure:"target_language" yaml:"target_language" validate:"required"`
}

type VoicesConfig struct {
	Instructor      string   `mapstructure:"instructor" yaml:"instructor" validate:"required"`
	ChallengeMale   []string `mapstructure:"challenge_male" yaml:"challenge_male" validate:"min=1"`
	ChallengeFemale []string `mapstructure:"challenge_female" yaml:"challenge_female" validate:"min=1"`
	AnswerMale      []string `mapstructure:"answer_male" yaml:"answer_male" validate:"min=1"`
	AnswerFemale    []string `mapstructure:"answer_female" yaml:"answer_female" validate:"min=1"`
}

type DatasetConfig struct {
	Title string `mapstructure:"title" yaml:"title"`
	About string `mapstructure:"about" yaml:"about,omitempty"`
}

// Load reads the configuration file, falling back to defaults for every
// scheduling knob, then validates the result.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigType("yaml")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/lessonforge")
	}

	setDefaults(v)

	// Bind TTS credentials to environment variables only (not from config file)
	if err := v.BindEnv("tts.api_key", "LESSONFORGE_TTS_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind LESSONFORGE_TTS_API_KEY environment variable: %w", err)
	}
	if err := v.BindEnv("tts.endpoint", "LESSONFORGE_TTS_ENDPOINT"); err != nil {
		return nil, fmt.Errorf("failed to bind LESSONFORGE_TTS_ENDPOINT environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", "data")
	v.SetDefault("temp_dir", "tmp")
	v.SetDefault("output_dir", "output")

	// One hour minus headroom for the closing announcement.
	v.SetDefault("session_max_duration", 3570)

	v.SetDefault("sessions_to_create", 5)
	v.SetDefault("create_all_sessions", true)
	v.SetDefault("extra_sessions", 2)
	v.SetDefault("break_on_end_note", true)
	v.SetDefault("create_mp4", false)

	v.SetDefault("new_card_max_tries", 7)
	v.SetDefault("new_card_tries_decrement", 0)
	v.SetDefault("new_cards_max_per_session", 28)
	v.SetDefault("new_cards_per_session", 14)
	v.SetDefault("new_cards_increment", 1)

	v.SetDefault("review_card_max_tries", 6)
	v.SetDefault("review_card_tries_decrement", 0)
	v.SetDefault("review_cards_max_per_session", 42)
	v.SetDefault("review_cards_per_session", 14)
	v.SetDefault("review_cards_increment", 2)

	v.SetDefault("alpha", 1.3)

	v.SetDefault("tts.sample_rate", 24000)
	v.SetDefault("tts.cache_directory", filepath.Join("cache", "tts"))
	v.SetDefault("tts.ref_voice_directory", filepath.Join("ref", "voices"))
	v.SetDefault("tts.target_language", "chr")

	v.SetDefault("voices.instructor", "instructor-en")
	v.SetDefault("voices.challenge_male", []string{"chr-m-01"})
	v.SetDefault("voices.challenge_female", []string{"chr-f-01"})
	v.SetDefault("voices.answer_male", []string{"en-m-01"})
	v.SetDefault("voices.answer_female", []string{"en-f-01"})
}

// Save writes the configuration as YAML, creating parent directories as
// needed. API keys never make it into the document.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("os.MkdirAll(%s) > %w", filepath.Dir(path), err)
	}
	contents, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("yaml.Marshal > %w", err)
	}
	if err := os.WriteFile(path, contents, 0644); err != nil {
		return fmt.Errorf("os.WriteFile(%s) > %w", path, err)
	}
	return nil
}

// DatasetSource resolves the vocabulary source file for a dataset name.
func (cfg *Config) DatasetSource(dataset string) string {
	return filepath.Join(cfg.DataDir, dataset+".txt")
}

// DatasetTitle returns the spoken title for a dataset, defaulting to the
// dataset name itself.
func (cfg *Config) DatasetTitle(dataset string) string {
	if meta, ok := cfg.Datasets[dataset]; ok && meta.Title != "" {
		return meta.Title
	}
	return dataset
}

// DatasetAbout returns the spoken course description, or empty when none is
// configured.
func (cfg *Config) DatasetAbout(dataset string) string {
	return cfg.Datasets[dataset].About
}
