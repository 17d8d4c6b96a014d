package config

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Configuration keys.
const (
	KeyAPIBaseURL            = "api_base_url"
	KeyAPIKey                = "api_key"
	KeyTranscriptionModel    = "transcription_model"
	KeyTranscriptionLanguage = "transcription_language"
	KeyChatModel             = "chat_model"
	KeyMaxTokens             = "max_tokens"
	KeyTemperature           = "temperature"
	KeySystemPrompt          = "system_prompt"
	KeyToolName              = "tool_name"
	KeyDBPath                = "db_path"
	KeyTimeSliceMS           = "capture_time_slice_ms"
	KeyMaxDurationMS         = "capture_max_duration_ms"
	KeyProgressIntervalMS    = "capture_progress_interval_ms"
	KeySampleRate            = "capture_sample_rate"
	KeyChannels              = "capture_channels"
	KeyEchoCancellation      = "capture_echo_cancellation"
	KeyNoiseSuppression      = "capture_noise_suppression"
	KeyAutoGainControl       = "capture_auto_gain_control"
	KeyToastDurationMS       = "toast_duration_ms"
	KeyAnimationDurationMS   = "animation_duration_ms"
	KeyWebhookURL            = "webhook_url"
)

// defaultSystemPrompt asks the model for the three marker-delimited
// sections the enhancement parser understands.
const defaultSystemPrompt = `你是一个文本优化助手，请帮助优化用户的语音转文字内容，使其更加通顺、准确。
同时，请分析文本内容，提供三个相关的标签，格式为：#标签1 #标签2 #标签3
最后，请给出关于这个话题的一个思考方向或建议。

请按以下格式返回：
优化后的文本：
[优化后的文本内容]

相关标签：
[#标签1 #标签2 #标签3]

延伸思考：
[相关的思考或建议]`

// Defaults returns the built-in default values for all keys.
func Defaults() map[string]string {
	return map[string]string{
		KeyAPIBaseURL:            "https://api.siliconflow.cn",
		KeyAPIKey:                "",
		KeyTranscriptionModel:    "FunAudioLLM/SenseVoiceSmall",
		KeyTranscriptionLanguage: "zh",
		KeyChatModel:             "deepseek-ai/DeepSeek-V2.5",
		KeyMaxTokens:             "2000",
		KeyTemperature:           "0.7",
		KeySystemPrompt:          defaultSystemPrompt,
		KeyToolName:              "ZK_VOICEMEMO",
		KeyDBPath:                "",
		KeyTimeSliceMS:           "1000",
		KeyMaxDurationMS:         "300000",
		KeyProgressIntervalMS:    "100",
		KeySampleRate:            "44100",
		KeyChannels:              "1",
		KeyEchoCancellation:      "true",
		KeyNoiseSuppression:      "true",
		KeyAutoGainControl:       "true",
		KeyToastDurationMS:       "3000",
		KeyAnimationDurationMS:   "300",
		KeyWebhookURL:            "",
	}
}

// Config is the validated, immutable runtime configuration. It is built
// once at startup and handed by copy to the components that need it.
type Config struct {
	// Remote endpoints and credentials.
	APIBaseURL string
	APIKey     string

	// Fixed transcription request parameters.
	TranscriptionModel    string
	TranscriptionLanguage string

	// Fixed enhancement request parameters.
	ChatModel    string
	MaxTokens    int64
	Temperature  float64
	SystemPrompt string
	ToolName     string

	// Persistence.
	DBPath string

	// Capture profile and timing.
	TimeSlice        time.Duration
	MaxDuration      time.Duration
	ProgressInterval time.Duration
	SampleRate       int
	Channels         int
	EchoCancellation bool
	NoiseSuppression bool
	AutoGainControl  bool

	// View-layer timing, carried for the excluded UI collaborator.
	ToastDuration     time.Duration
	AnimationDuration time.Duration

	// Optional webhook notification target.
	WebhookURL string
}

// Load resolves configuration from all sources and validates it.
func Load() (Config, error) {
	return FromResolved(NewResolver().Resolve())
}

// FromResolved builds and validates a typed Config from resolved values.
func FromResolved(r *Resolved) (Config, error) {
	cfg := Config{
		APIBaseURL:            r.Get(KeyAPIBaseURL),
		APIKey:                r.Get(KeyAPIKey),
		TranscriptionModel:    r.Get(KeyTranscriptionModel),
		TranscriptionLanguage: r.Get(KeyTranscriptionLanguage),
		ChatModel:             r.Get(KeyChatModel),
		SystemPrompt:          r.Get(KeySystemPrompt),
		ToolName:              r.Get(KeyToolName),
		DBPath:                r.Get(KeyDBPath),
		WebhookURL:            r.Get(KeyWebhookURL),
	}

	var err error
	if cfg.MaxTokens, err = parseInt(r, KeyMaxTokens); err != nil {
		return Config{}, err
	}
	if cfg.Temperature, err = parseFloat(r, KeyTemperature); err != nil {
		return Config{}, err
	}
	if cfg.TimeSlice, err = parseMillis(r, KeyTimeSliceMS); err != nil {
		return Config{}, err
	}
	if cfg.MaxDuration, err = parseMillis(r, KeyMaxDurationMS); err != nil {
		return Config{}, err
	}
	if cfg.ProgressInterval, err = parseMillis(r, KeyProgressIntervalMS); err != nil {
		return Config{}, err
	}
	if cfg.ToastDuration, err = parseMillis(r, KeyToastDurationMS); err != nil {
		return Config{}, err
	}
	if cfg.AnimationDuration, err = parseMillis(r, KeyAnimationDurationMS); err != nil {
		return Config{}, err
	}

	sampleRate, err := parseInt(r, KeySampleRate)
	if err != nil {
		return Config{}, err
	}
	cfg.SampleRate = int(sampleRate)

	channels, err := parseInt(r, KeyChannels)
	if err != nil {
		return Config{}, err
	}
	cfg.Channels = int(channels)

	if cfg.EchoCancellation, err = parseBool(r, KeyEchoCancellation); err != nil {
		return Config{}, err
	}
	if cfg.NoiseSuppression, err = parseBool(r, KeyNoiseSuppression); err != nil {
		return Config{}, err
	}
	if cfg.AutoGainControl, err = parseBool(r, KeyAutoGainControl); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the pipeline cannot run
// with.
func (c Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("config: %s is required", KeyAPIBaseURL)
	}
	if u, err := url.Parse(c.APIBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: %s is not a valid URL: %q", KeyAPIBaseURL, c.APIBaseURL)
	}
	if c.APIKey == "" {
		return fmt.Errorf("config: %s is required (set %sAPI_KEY)", KeyAPIKey, EnvPrefix)
	}
	if c.TranscriptionModel == "" || c.ChatModel == "" {
		return fmt.Errorf("config: model names must not be empty")
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("config: %s must be positive", KeyMaxTokens)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("config: %s must be in [0, 2]", KeyTemperature)
	}
	if c.TimeSlice <= 0 || c.MaxDuration <= 0 || c.ProgressInterval <= 0 {
		return fmt.Errorf("config: capture intervals must be positive")
	}
	if c.MaxDuration < c.TimeSlice {
		return fmt.Errorf("config: %s must be at least %s", KeyMaxDurationMS, KeyTimeSliceMS)
	}
	if c.Channels < 1 {
		return fmt.Errorf("config: %s must be at least 1", KeyChannels)
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("config: %s must be positive", KeySampleRate)
	}
	return nil
}

func parseInt(r *Resolved, key string) (int64, error) {
	v, err := strconv.ParseInt(r.Get(key), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return v, nil
}

func parseFloat(r *Resolved, key string) (float64, error) {
	v, err := strconv.ParseFloat(r.Get(key), 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return v, nil
}

func parseBool(r *Resolved, key string) (bool, error) {
	v, err := strconv.ParseBool(r.Get(key))
	if err != nil {
		return false, fmt.Errorf("config: %s: %w", key, err)
	}
	return v, nil
}

func parseMillis(r *Resolved, key string) (time.Duration, error) {
	v, err := parseInt(r, key)
	if err != nil {
		return 0, err
	}
	return time.Duration(v) * time.Millisecond, nil
}
