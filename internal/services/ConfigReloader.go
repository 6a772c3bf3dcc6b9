package services

import (
	"welcomer/internal/providers"
	"welcomer/internal/structures"
)

// ConfigReloader re-reads the configuration file and swaps in the sections
// that can change at runtime: messages, themes, recognition rules and
// animations. Server, persistence, logging, cache, admin cooldowns, tick
// interval and sweep intervals keep their startup values.
type ConfigReloader struct {
	conf   *structures.Config
	logger providers.Logger
	themes ThemeServiceInterface
}

func NewConfigReloader(conf *structures.Config, logger providers.Logger, themes ThemeServiceInterface) *ConfigReloader {
	return &ConfigReloader{conf: conf, logger: logger, themes: themes}
}

// Load reads and validates the file the running config came from. It does
// not touch the live config.
func (cr *ConfigReloader) Load() (*structures.Config, error) {
	return providers.NewConfigProvider(&structures.CliFlags{
		ConfigPath: cr.conf.Path,
		DebugMode:  cr.conf.Debug,
	})
}

// Apply copies the runtime sections of next into the live config. It must
// run on the tick goroutine.
func (cr *ConfigReloader) Apply(next *structures.Config) {
	cr.conf.Messages = next.Messages
	cr.conf.Themes = next.Themes

	retention := cr.conf.Recognition.Retention
	cr.conf.Recognition = next.Recognition
	cr.conf.Recognition.Retention = retention

	sweep := cr.conf.Animations.SweepInterval
	cr.conf.Animations = next.Animations
	cr.conf.Animations.SweepInterval = sweep

	cr.themes.Reload()
	cr.logger.Infof(providers.TypeApp, "Configuration reloaded from %s", cr.conf.Path)
}
