package generation

import (
	"context"
	"fmt"
	"io"
	"strings"

	"story-server/internal/config"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Compile-time check
var _ SpeechGenerator = (*openaiSpeechGenerator)(nil)

type openaiSpeechGenerator struct {
	cfg    config.OpenAIConfig
	client *openai.Client
	logger *zap.Logger
}

// NewOpenAISpeechGenerator creates a SpeechGenerator backed by the OpenAI TTS API.
// Без токена генератор бесполезен, поэтому падаем сразу на старте.
func NewOpenAISpeechGenerator(cfg config.OpenAIConfig, logger *zap.Logger) (SpeechGenerator, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("openai speech generator: OPENAI_API_TOKEN is not set")
	}
	return &openaiSpeechGenerator{
		cfg:    cfg,
		client: openai.NewClient(cfg.Token),
		logger: logger.Named("OpenAISpeechGenerator"),
	}, nil
}

// GenerateSpeech синтезирует озвучку текста. Провайдер отдает MP3.
// language носит информационный характер: модель определяет язык по тексту,
// мы лишь сохраняем его в метаданных.
func (g *openaiSpeechGenerator) GenerateSpeech(ctx context.Context, text, language string) (*Result, error) {
	log := g.logger.With(zap.String("model", g.cfg.TTSModel), zap.String("voice", g.cfg.Voice))

	resp, err := g.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model: openai.SpeechModel(g.cfg.TTSModel),
		Input: text,
		Voice: openai.SpeechVoice(g.cfg.Voice),
	})
	if err != nil {
		log.Error("Failed to synthesize speech", zap.Error(err))
		return nil, fmt.Errorf("failed to synthesize speech: %w", err)
	}
	defer resp.Close()

	data, err := io.ReadAll(resp)
	if err != nil {
		log.Error("Failed to read synthesized speech", zap.Error(err))
		return nil, fmt.Errorf("failed to read synthesized speech: %w", err)
	}

	log.Info("Speech generated", zap.Int("bytes", len(data)), zap.Int("textLen", len(text)))
	return &Result{
		Data:          data,
		MimeType:      "audio/mpeg",
		FileExtension: "mp3",
		Metadata: map[string]interface{}{
			"model":      g.cfg.TTSModel,
			"voice":      g.cfg.Voice,
			"language":   language,
			"sound_type": "tts",
			"duration":   EstimateSpeechDuration(text),
		},
	}, nil
}

// EstimateSpeechDuration грубо оценивает длительность озвучки в секундах
// из расчета 150 слов в минуту.
func EstimateSpeechDuration(text string) int {
	words := len(strings.Fields(text))
	seconds := words * 60 / 150
	if seconds < 1 && words > 0 {
		seconds = 1
	}
	return seconds
}
