package data

import (
	"sync"

	"gorm.io/gorm"

	"github.com/daoforge/bounty-board/src/shared/types"
)

// Operator-tunable values (discord_token, guild_id, reviewer_role_id, the
// bounty_channel_id fallback) live in the settings table and are cached
// here so request paths never query for them.
var (
	settingsMu    sync.RWMutex
	settingsCache = map[string]string{}
)

// LoadSettings primes the cache from the settings table.
func LoadSettings(db *gorm.DB) error {
	var rows []types.Setting
	if err := db.Find(&rows).Error; err != nil {
		return err
	}

	fresh := make(map[string]string, len(rows))
	for _, s := range rows {
		fresh[s.Name] = s.Value
	}

	settingsMu.Lock()
	settingsCache = fresh
	settingsMu.Unlock()
	return nil
}

// GetSetting returns the cached value for name, or "" when unset.
func GetSetting(name string) string {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return settingsCache[name]
}

// RefreshSettings re-reads the table after an admin change.
func RefreshSettings(db *gorm.DB) error {
	return LoadSettings(db)
}
