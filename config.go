package recipai

import (
	"time"
)

// ///// ///// /////

// ///// CONFIG

// ///// ///// /////

type Config struct {
	// Token is the Telegram bot token.
	Token string `arg:"env:RECIPAI_BOT_TOKEN" kdl:"token"`
	// Dir is the data directory (db, procedures, photos, logs).
	Dir string `arg:"env:RECIPAI_DIR" kdl:"dir"`

	Agent ConfigAgent `arg:"-"`
	Log   ConfigLog   `arg:"-"`
}

type ConfigAgent struct {
	ID    string
	Label string
	// SessionTTL evicts chat sessions idle for longer.
	SessionTTL time.Duration `kdl:",duration"`
	// HeartbeatFreq drives session GC and other maintenance.
	HeartbeatFreq time.Duration `kdl:",duration"`
}

type ConfigLog struct {
	// File enables rolling-file logging when set.
	File string
	// Level is debug, info, warn, or error.
	Level string
	// MaxSizeMb caps a single log file before rotation.
	MaxSizeMb int
	// MaxBackups caps the number of rotated files.
	MaxBackups int
}

func ConfigDefault() Config {
	return Config{
		Dir: "tmp",
		Agent: ConfigAgent{
			ID:            "recipai",
			Label:         "Recipai",
			SessionTTL:    45 * time.Minute,
			HeartbeatFreq: 5 * time.Minute,
		},
		Log: ConfigLog{
			Level:      "info",
			MaxSizeMb:  10,
			MaxBackups: 3,
		},
	}
}
