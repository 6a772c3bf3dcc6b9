package structures

import "time"

type Server struct {
	Host string `mapstructure:"host" validate:"required"`
	Port int    `mapstructure:"port" validate:"required|uint|min:1"`
}

type GeneralConfig struct {
	TickInterval time.Duration `mapstructure:"tickInterval" validate:"required|min:1"`
	MaxPlayers   int           `mapstructure:"maxPlayers" validate:"uint"`
	TimeZone     string        `mapstructure:"timeZone"`
}

type Persistence struct {
	FilePath      string        `mapstructure:"filePath" validate:"required|unixPath"`
	SaveInterval  time.Duration `mapstructure:"saveInterval" validate:"required|min:1"`
	FlushInterval time.Duration `mapstructure:"flushInterval"`
}

type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `mapstructure:"mode" validate:"required|uint"`
	Dir   string `mapstructure:"dir" validate:"required|unixPath"`
}

type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Size    int           `mapstructure:"size"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type AdminConfig struct {
	// Cooldowns are keyed by admin action (reset, preview, theme, toggle).
	Cooldowns map[string]time.Duration `mapstructure:"cooldowns"`
}

type MessagePool struct {
	FirstTime []string            `mapstructure:"firstTime"`
	Default   []string            `mapstructure:"default"`
	Ranks     map[string][]string `mapstructure:"ranks"`
}

type MessagesConfig struct {
	Enabled            bool        `mapstructure:"enabled"`
	Join               MessagePool `mapstructure:"join"`
	Quit               MessagePool `mapstructure:"quit"`
	CombineRankDefault bool        `mapstructure:"combineRankDefault"`
	OpUsesDefault      bool        `mapstructure:"opUsesDefault"`
	RankPriority       []string    `mapstructure:"rankPriority"`
}

type ThemeConfig struct {
	Start       string      `mapstructure:"start"`
	End         string      `mapstructure:"end"`
	Priority    int         `mapstructure:"priority"`
	Description string      `mapstructure:"description"`
	Join        MessagePool `mapstructure:"join"`
	Quit        MessagePool `mapstructure:"quit"`
}

type ThemeGroupConfig struct {
	Enabled bool                   `mapstructure:"enabled"`
	Themes  map[string]ThemeConfig `mapstructure:"themes"`
}

type ThemesConfig struct {
	Enabled       bool             `mapstructure:"enabled"`
	Current       string           `mapstructure:"current"`
	AutoDetect    bool             `mapstructure:"autoDetect"`
	CheckInterval time.Duration    `mapstructure:"checkInterval"`
	Seasonal      ThemeGroupConfig `mapstructure:"seasonal"`
	TimeOfDay     ThemeGroupConfig `mapstructure:"timeOfDay"`
}

// MilestoneCategoryConfig holds thresholds and the message pool per threshold,
// keyed by the threshold rendered as a decimal string.
type MilestoneCategoryConfig struct {
	Enabled    bool                `mapstructure:"enabled"`
	Thresholds []int               `mapstructure:"thresholds"`
	Messages   map[string][]string `mapstructure:"messages"`
}

type MilestonesConfig struct {
	Enabled     bool                    `mapstructure:"enabled"`
	AbsorbLower bool                    `mapstructure:"absorbLower"`
	Join        MilestoneCategoryConfig `mapstructure:"join"`
	Active      MilestoneCategoryConfig `mapstructure:"active"`
	Streak      MilestoneCategoryConfig `mapstructure:"streak"`
}

type AbsenceBand struct {
	Hours    int      `mapstructure:"hours" validate:"uint"`
	Messages []string `mapstructure:"messages"`
}

type ReturningConfig struct {
	Enabled  bool        `mapstructure:"enabled"`
	Short    AbsenceBand `mapstructure:"short"`
	Medium   AbsenceBand `mapstructure:"medium"`
	Long     AbsenceBand `mapstructure:"long"`
	VeryLong AbsenceBand `mapstructure:"veryLong"`
}

type BehaviorConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	PeakActivity  bool `mapstructure:"peakActivity"`
	FavoriteWorld bool `mapstructure:"favoriteWorld"`
	JoinPatterns  bool `mapstructure:"joinPatterns"`
}

// RetentionConfig bounds in-memory recognition state. With ColdDir set,
// swept users are archived there instead of forgotten.
type RetentionConfig struct {
	MaxAge        time.Duration `mapstructure:"maxAge"`
	SweepInterval time.Duration `mapstructure:"sweepInterval"`
	ColdDir       string        `mapstructure:"coldDir"`
	ColdTTL       time.Duration `mapstructure:"coldTTL"`
}

type RecognitionConfig struct {
	Enabled    bool             `mapstructure:"enabled"`
	Milestones MilestonesConfig `mapstructure:"milestones"`
	Returning  ReturningConfig  `mapstructure:"returning"`
	Behavior   BehaviorConfig   `mapstructure:"behavior"`
	Retention  RetentionConfig  `mapstructure:"retention"`
}

type AnimationEventConfig struct {
	Type          string `mapstructure:"type"`
	Duration      int    `mapstructure:"duration"`
	UseMultiLayer bool   `mapstructure:"useMultiLayer"`
	MultiLayer    string `mapstructure:"multiLayerType"`
}

type CompositeConfig struct {
	Effects  []string `mapstructure:"effects"`
	Duration int      `mapstructure:"duration"`
}

type MultiLayerConfig struct {
	Enabled      bool                       `mapstructure:"enabled"`
	Combinations map[string]CompositeConfig `mapstructure:"combinations"`
}

type AnimationsConfig struct {
	Enabled         bool                 `mapstructure:"enabled"`
	UseActionBar    bool                 `mapstructure:"useActionBar"`
	ShowFinalInChat bool                 `mapstructure:"showFinalInChat"`
	FinalChatDelay  int                  `mapstructure:"finalChatDelay"`
	DefaultType     string               `mapstructure:"defaultType"`
	DefaultDuration int                  `mapstructure:"defaultDuration"`
	FirstJoin       AnimationEventConfig `mapstructure:"firstJoin"`
	Join            AnimationEventConfig `mapstructure:"join"`
	MultiLayer      MultiLayerConfig     `mapstructure:"multiLayer"`
	SweepInterval   time.Duration        `mapstructure:"sweepInterval"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	General     GeneralConfig     `mapstructure:"general"`
	WebServer   Server            `mapstructure:"webServer"`
	Persistence Persistence       `mapstructure:"persistence"`
	Logger      LoggerConfig      `mapstructure:"logger"`
	Cache       CacheConfig       `mapstructure:"cache"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
	Admin       AdminConfig       `mapstructure:"admin"`
	Messages    MessagesConfig    `mapstructure:"messages"`
	Themes      ThemesConfig      `mapstructure:"themes"`
	Recognition RecognitionConfig `mapstructure:"smartRecognition"`
	Animations  AnimationsConfig  `mapstructure:"animations"`
}
