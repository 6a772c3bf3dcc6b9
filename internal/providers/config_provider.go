package providers

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"welcomer/internal/structures"

	"github.com/spf13/viper"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("general.tickInterval", 50*time.Millisecond)
	v.SetDefault("general.maxPlayers", 100)
	v.SetDefault("persistence.saveInterval", 5*time.Minute)
	v.SetDefault("persistence.flushInterval", 5*time.Minute)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.mode", 0644)
	v.SetDefault("cache.ttl", 5*time.Second)

	v.SetDefault("admin.cooldowns", map[string]string{
		"reset":   "2s",
		"preview": "3s",
		"theme":   "3s",
		"toggle":  "1s",
		"reload":  "10s",
	})

	v.SetDefault("messages.enabled", true)
	v.SetDefault("messages.rankPriority", []string{"owner", "admin", "mvp", "vip"})

	v.SetDefault("themes.enabled", true)
	v.SetDefault("themes.current", "auto")
	v.SetDefault("themes.autoDetect", true)
	v.SetDefault("themes.checkInterval", time.Hour)
	v.SetDefault("themes.seasonal.enabled", true)
	v.SetDefault("themes.timeOfDay.enabled", true)

	v.SetDefault("smartRecognition.enabled", true)
	v.SetDefault("smartRecognition.milestones.enabled", true)
	v.SetDefault("smartRecognition.milestones.absorbLower", true)
	v.SetDefault("smartRecognition.milestones.join.enabled", true)
	v.SetDefault("smartRecognition.milestones.active.enabled", true)
	v.SetDefault("smartRecognition.milestones.streak.enabled", true)
	v.SetDefault("smartRecognition.returning.enabled", true)
	v.SetDefault("smartRecognition.returning.short.hours", 24)
	v.SetDefault("smartRecognition.returning.medium.hours", 168)
	v.SetDefault("smartRecognition.returning.long.hours", 720)
	v.SetDefault("smartRecognition.returning.veryLong.hours", 2160)
	v.SetDefault("smartRecognition.behavior.enabled", true)
	v.SetDefault("smartRecognition.behavior.peakActivity", true)
	v.SetDefault("smartRecognition.behavior.favoriteWorld", true)
	v.SetDefault("smartRecognition.behavior.joinPatterns", true)
	v.SetDefault("smartRecognition.retention.maxAge", 30*24*time.Hour)
	v.SetDefault("smartRecognition.retention.sweepInterval", 5*time.Minute)

	v.SetDefault("animations.enabled", true)
	v.SetDefault("animations.useActionBar", true)
	v.SetDefault("animations.finalChatDelay", 20)
	v.SetDefault("animations.defaultType", "typing")
	v.SetDefault("animations.defaultDuration", 60)
	v.SetDefault("animations.join.multiLayerType", "smooth_entrance")
	v.SetDefault("animations.multiLayer.enabled", true)
	v.SetDefault("animations.sweepInterval", 5*time.Minute)
}

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	setDefaults(v)

	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	_ = v.BindEnv("logger.level", "WELCOMER_LOG_LEVEL")
	_ = v.BindEnv("general.tickInterval", "WELCOMER_TICK_INTERVAL")
	_ = v.BindEnv("persistence.saveInterval", "WELCOMER_SAVE_INTERVAL")
	_ = v.BindEnv("cache.enabled", "WELCOMER_CACHE_ENABLED")
	_ = v.BindEnv("cache.size", "WELCOMER_CACHE_SIZE")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "Welcomer"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
