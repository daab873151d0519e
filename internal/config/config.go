package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Port                          string `mapstructure:"PORT"`
	DatabasePath                  string `mapstructure:"DATABASE_PATH"`
	SessionSecret                 string `mapstructure:"SESSION_SECRET"`
	AdminPassword                 string `mapstructure:"ADMIN_PASSWORD"`
	DiscordBotToken               string `mapstructure:"DISCORD_BOT_TOKEN"`
	DiscordNotificationsChannelID string `mapstructure:"DISCORD_NOTIFICATIONS_CHANNEL_ID"`
}

func LoadConfig() *Config {
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DATABASE_PATH", "reservations.db")

	viper.BindEnv("SESSION_SECRET")
	viper.BindEnv("ADMIN_PASSWORD")
	viper.BindEnv("DISCORD_BOT_TOKEN")
	viper.BindEnv("DISCORD_NOTIFICATIONS_CHANNEL_ID")

	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}

	// No fallback secrets: a known default password is worse than refusing
	// to start.
	if config.SessionSecret == "" {
		log.Fatal("SESSION_SECRET must be set")
	}
	if config.AdminPassword == "" {
		log.Fatal("ADMIN_PASSWORD must be set")
	}

	return &config
}

func (c *Config) Addr() string {
	return ":" + c.Port
}
