package config

import (
	_ "embed"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed profiles.yaml
var profilesYAML []byte

type Config struct {
	Recognition RecognitionConfig
	Camera      CameraConfig
	Web         WebConfig
	Profiles    ProfilesConfig
}

type RecognitionConfig struct {
	URL            string
	Token          string
	TimeoutSeconds int    // per-request bound, defaults to 30
	CaptureDir     string // save raw API responses for debugging (optional)
}

type CameraConfig struct {
	Device  int    // V4L2 device index (e.g. 0 for /dev/video0)
	Profile string // named resolution profile from profiles.yaml
}

type WebConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string // CORS origins, comma-separated in the env var
}

type ProfilesConfig struct {
	Profiles map[string]Profile `yaml:"profiles"`
}

// Profile is a named capture resolution.
type Profile struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envList reads a comma-separated environment variable into a slice,
// trimming whitespace and dropping empty entries.
func envList(key string, defaultVal []string) []string {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}

func Load() *Config {
	var profiles ProfilesConfig
	if err := yaml.Unmarshal(profilesYAML, &profiles); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded profiles.yaml: " + err.Error())
	}

	return &Config{
		Recognition: RecognitionConfig{
			URL:            os.Getenv("ATTEND_API_URL"),
			Token:          os.Getenv("ATTEND_API_TOKEN"),
			TimeoutSeconds: envInt("ATTEND_API_TIMEOUT", 30),
			CaptureDir:     os.Getenv("ATTEND_CAPTURE_DIR"),
		},
		Camera: CameraConfig{
			Device:  envInt("ATTEND_CAMERA_DEVICE", 0),
			Profile: os.Getenv("ATTEND_CAMERA_PROFILE"),
		},
		Web: WebConfig{
			Host:           os.Getenv("WEB_HOST"),
			Port:           envInt("WEB_PORT", 8080),
			AllowedOrigins: envList("WEB_ALLOWED_ORIGINS", []string{"*"}),
		},
		Profiles: profiles,
	}
}

// GetProfile returns the named resolution profile, falling back to the
// default profile for unknown or empty names.
func (c *Config) GetProfile(name string) Profile {
	if name == "" {
		name = "default"
	}
	if p, ok := c.Profiles.Profiles[name]; ok {
		return p
	}
	return c.Profiles.Profiles["default"]
}
