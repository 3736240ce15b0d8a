package config

import (
	"log"
	"os"

	"github.com/daoforge/bounty-board/src/shared/data"
	"gorm.io/gorm"
)

type Config struct {
	Token          string
	GuildID        string
	ReviewerRoleID string
	MySQLDSN       string
	RedisURL       string
}

// Load reads bot configuration from the settings table with environment
// fallbacks, matching how the API side is configured.
func Load(db *gorm.DB) Config {
	if err := data.LoadSettings(db); err != nil {
		log.Printf("Failed to load settings: %v", err)
	}

	token := data.GetSetting("discord_token")
	if token == "" {
		token = os.Getenv("DISCORD_TOKEN")
	}
	if token == "" {
		log.Fatal("DISCORD_TOKEN not set in database or environment")
	}

	guildID := data.GetSetting("guild_id")
	if guildID == "" {
		guildID = os.Getenv("GUILD_ID")
	}

	reviewerRoleID := data.GetSetting("reviewer_role_id")
	if reviewerRoleID == "" {
		reviewerRoleID = os.Getenv("REVIEWER_ROLE_ID")
	}

	return Config{
		Token:          token,
		GuildID:        guildID,
		ReviewerRoleID: reviewerRoleID,
		MySQLDSN:       getenv("MYSQL_DSN", "bountyboard:bountyboard@tcp(127.0.0.1:3306)/bountyboard?parseTime=true"),
		RedisURL:       getenv("REDIS_URL", "redis://127.0.0.1:6379/0"),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
