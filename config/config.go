package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server   Server
	Database Database
	Gemini   Gemini
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// Gemini holds everything the generative client needs. Injected explicitly,
// never read from process-wide state.
type Gemini struct {
	APIKey         string
	Model          string
	BaseURL        string
	TimeoutSeconds int
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	viper.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	viper.SetDefault("GEMINI_API_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/models/")
	viper.SetDefault("GEMINI_TIMEOUT_SECONDS", 30)

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.Gemini.APIKey = viper.GetString("GEMINI_API_KEY")
	config.Gemini.Model = viper.GetString("GEMINI_MODEL")
	config.Gemini.BaseURL = viper.GetString("GEMINI_API_BASE_URL")
	config.Gemini.TimeoutSeconds = viper.GetInt("GEMINI_TIMEOUT_SECONDS")

	log.Info().Str("port", config.Server.Port).Str("gemini_model", config.Gemini.Model).Msg("Config loaded")
	return &config, nil
}
