// Package generation wraps the external AI providers that produce media
// for scenes: images and music via the Hugging Face Inference API, speech
// via the OpenAI TTS endpoint.
package generation

import "context"

// Result is the outcome of a successful generation: the raw file bytes
// plus provider-reported metadata (dimensions, duration, model name).
type Result struct {
	Data     []byte
	MimeType string
	// расширение файла без точки (png, mp3, wav)
	FileExtension string
	Metadata      map[string]interface{}
}

// ImageGenerator produces an image from a text description.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, description string) (*Result, error)
}

// SpeechGenerator synthesizes speech from text.
type SpeechGenerator interface {
	GenerateSpeech(ctx context.Context, text, language string) (*Result, error)
}

// MusicGenerator produces a short music clip from a text description.
// Duration is in seconds; providers cap it at 15.
type MusicGenerator interface {
	GenerateMusic(ctx context.Context, description string, duration int) (*Result, error)
}

// MaxMusicDuration - провайдер не умеет клипы длиннее 15 секунд.
const MaxMusicDuration = 15

// ClampMusicDuration ограничивает запрошенную длительность сверху и снизу.
func ClampMusicDuration(duration int) int {
	if duration <= 0 {
		return MaxMusicDuration
	}
	if duration > MaxMusicDuration {
		return MaxMusicDuration
	}
	return duration
}
