package model

// ================ Config ================

type ChatModelConfig struct {
	FastModel      string  `envconfig:"CHAT_FAST_MODEL" default:"gemini-2.5-flash"`
	DeepModel      string  `envconfig:"CHAT_DEEP_MODEL" default:"gemini-3-pro-preview"`
	ThinkingBudget int32   `envconfig:"CHAT_THINKING_BUDGET" default:"2048"`
	MaxTokens      int32   `envconfig:"CHAT_MAX_TOKENS" default:"2000"`
	Temperature    float32 `envconfig:"CHAT_TEMPERATURE" default:"0.4"`
	MaxTurns       int     `envconfig:"CHAT_MAX_TURNS" default:"20"`
}

type ImageModelConfig struct {
	CreateModel        string `envconfig:"IMAGE_CREATE_MODEL" default:"gemini-3-pro-image-preview"`
	EditModel          string `envconfig:"IMAGE_EDIT_MODEL" default:"gemini-2.5-flash-image"`
	DefaultAspectRatio string `envconfig:"IMAGE_DEFAULT_ASPECT_RATIO" default:"1:1"`
}

type VideoModelConfig struct {
	Model        string `envconfig:"VIDEO_MODEL" default:"veo-3.1-fast-generate-preview"`
	Resolution   string `envconfig:"VIDEO_RESOLUTION" default:"720p"`
	AspectRatio  string `envconfig:"VIDEO_ASPECT_RATIO" default:"16:9"`
	PollInterval string `envconfig:"VIDEO_POLL_INTERVAL" default:"5s"`
	MaxPolls     int    `envconfig:"VIDEO_MAX_POLLS" default:"120"`
}

type DeviceModelConfig struct {
	Model string `envconfig:"DEVICE_MODEL" default:"gemini-2.5-flash"`
}
