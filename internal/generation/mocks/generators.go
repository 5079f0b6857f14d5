package mocks

import (
	"context"

	"story-server/internal/generation"

	"github.com/stretchr/testify/mock"
)

// Mock ImageGenerator
type ImageGenerator struct {
	mock.Mock
}

func (m *ImageGenerator) GenerateImage(ctx context.Context, description string) (*generation.Result, error) {
	args := m.Called(ctx, description)
	res, _ := args.Get(0).(*generation.Result)
	return res, args.Error(1)
}

// Mock SpeechGenerator
type SpeechGenerator struct {
	mock.Mock
}

func (m *SpeechGenerator) GenerateSpeech(ctx context.Context, text, language string) (*generation.Result, error) {
	args := m.Called(ctx, text, language)
	res, _ := args.Get(0).(*generation.Result)
	return res, args.Error(1)
}

// Mock MusicGenerator
type MusicGenerator struct {
	mock.Mock
}

func (m *MusicGenerator) GenerateMusic(ctx context.Context, description string, duration int) (*generation.Result, error) {
	args := m.Called(ctx, description, duration)
	res, _ := args.Get(0).(*generation.Result)
	return res, args.Error(1)
}
