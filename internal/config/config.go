package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds everything the pipeline reads from the environment.
// A missing API key is not an error: the synthesis client degrades to a
// disabled state instead of failing startup.
type Config struct {
	// Synthesis service
	BaseURL string `env:"TTS_SERVICE_URL_SiliconFlow" envDefault:"https://api.siliconflow.cn/v1"`
	APIKey  string `env:"TTS_SERVICE_API_KEY"`
	Model   string `env:"TTS_MODEL" envDefault:"FunAudioLLM/CosyVoice2-0.5B"`

	// Output format for synthesized audio
	Format     string `env:"AUTODUB_FORMAT" envDefault:"wav"`
	SampleRate int    `env:"AUTODUB_SAMPLE_RATE" envDefault:"44100"`

	// Local data
	CorpusDir   string `env:"AUTODUB_CORPUS_DIR" envDefault:"ref"`
	RegionsFile string `env:"AUTODUB_REGIONS" envDefault:"regions.json"`
	AudioDir    string `env:"AUTODUB_AUDIO_DIR"`

	// External collaborators
	OCRCommand    string `env:"AUTODUB_OCR_CMD"`
	PlayerCommand string `env:"AUTODUB_PLAYER"`

	// Trigger debounce window
	Debounce time.Duration `env:"AUTODUB_DEBOUNCE" envDefault:"1s"`
}

// Legacy .env key names kept for compatibility with existing deployments.
const (
	legacyKeyVar      = "SiliconFlowTTS-key"
	legacyEndpointVar = "SiliconFlowTTS-endpoint"
)

// Load reads .env (best-effort), maps legacy SiliconFlow key names onto the
// canonical variables, and parses the environment into a Config.
func Load() (*Config, error) {
	applyDotenv()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.Model = strings.TrimSpace(cfg.Model)

	if cfg.AudioDir == "" {
		cfg.AudioDir = filepath.Join(os.TempDir(), "autodub")
	}

	return cfg, nil
}

// applyDotenv loads .env values into the process environment without
// overriding variables that are already set. Legacy key names are translated
// to their canonical counterparts; the legacy endpoint value sometimes carries
// a stray trailing "%" from shell copy-paste, which is stripped.
func applyDotenv() {
	vals, err := godotenv.Read()
	if err != nil {
		return // no .env is the common case
	}

	for k, v := range vals {
		switch {
		case strings.EqualFold(k, legacyKeyVar):
			k, v = "TTS_SERVICE_API_KEY", strings.TrimSpace(v)
		case strings.EqualFold(k, legacyEndpointVar):
			k, v = "TTS_SERVICE_URL_SiliconFlow", strings.TrimSpace(strings.TrimRight(v, "%"))
		}
		if _, set := os.LookupEnv(k); !set {
			_ = os.Setenv(k, v)
		}
	}

	log.Debug().Int("vars", len(vals)).Msg("Loaded .env")
}
