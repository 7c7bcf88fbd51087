package config

func Defaults() *Config {
	return &Config{
		General: GeneralConfig{
			LogLevel:  "info",
			OutputDir: "~/.channelog/exports",
		},
		Discord: DiscordConfig{
			PageSize: 100,
			MaxPages: 1000,
		},
		Browser: BrowserConfig{
			ProfileDir:          "~/.channelog/chrome-profile",
			Headless:            true,
			MaxScrolls:          80,
			MountTimeoutSeconds: 45,
			SelectorProfile:     "discord",
		},
		Archive: ArchiveConfig{
			Enabled: true,
			DBPath:  "~/.channelog/archive.db",
		},
		Notify: NotifyConfig{
			TelegramEnabled: false,
		},
	}
}
