package generation

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"story-server/internal/config"

	"go.uber.org/zap"
)

// Compile-time check
var _ MusicGenerator = (*hfMusicGenerator)(nil)

type hfMusicGenerator struct {
	cfg    config.HuggingFaceConfig
	client *http.Client
	logger *zap.Logger
}

// NewHFMusicGenerator creates a MusicGenerator backed by the Hugging Face Inference API.
// Без токена генератор бесполезен, поэтому падаем сразу на старте.
func NewHFMusicGenerator(cfg config.HuggingFaceConfig, logger *zap.Logger) (MusicGenerator, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("hugging face music generator: HF_API_TOKEN is not set")
	}
	return &hfMusicGenerator{
		cfg:    cfg,
		client: &http.Client{Timeout: time.Duration(cfg.Timeout) * time.Second},
		logger: logger.Named("HFMusicGenerator"),
	}, nil
}

type hfTextToAudioRequest struct {
	Inputs     string                 `json:"inputs"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
}

// GenerateMusic запрашивает музыкальный клип. Провайдер отдает WAV.
func (g *hfMusicGenerator) GenerateMusic(ctx context.Context, description string, duration int) (*Result, error) {
	log := g.logger.With(zap.String("model", g.cfg.MusicModel))
	duration = ClampMusicDuration(duration)

	payload := hfTextToAudioRequest{
		Inputs: description,
		Parameters: map[string]interface{}{
			"duration": duration,
		},
	}
	data, _, err := callHFInference(ctx, g.client, g.cfg.Token,
		hfInferenceBaseURL+g.cfg.MusicModel, payload, "audio/wav", log)
	if err != nil {
		return nil, err
	}

	log.Info("Music generated", zap.Int("bytes", len(data)), zap.Int("duration", duration))
	return &Result{
		Data:          data,
		MimeType:      "audio/wav",
		FileExtension: "wav",
		Metadata: map[string]interface{}{
			"model":       g.cfg.MusicModel,
			"description": description,
			"duration":    duration,
			"sound_type":  "music",
		},
	}, nil
}
