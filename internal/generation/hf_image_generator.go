package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"net/http"
	"time"

	// Регистрируем декодеры для определения размеров сгенерированной картинки
	_ "image/jpeg"
	_ "image/png"

	"story-server/internal/config"
	"story-server/internal/models"

	"go.uber.org/zap"
)

// Compile-time check
var _ ImageGenerator = (*hfImageGenerator)(nil)

const hfInferenceBaseURL = "https://api-inference.huggingface.co/models/"

type hfImageGenerator struct {
	cfg    config.HuggingFaceConfig
	client *http.Client
	logger *zap.Logger
}

// NewHFImageGenerator creates an ImageGenerator backed by the Hugging Face Inference API.
// Без токена генератор бесполезен, поэтому падаем сразу на старте.
func NewHFImageGenerator(cfg config.HuggingFaceConfig, logger *zap.Logger) (ImageGenerator, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("hugging face image generator: HF_API_TOKEN is not set")
	}
	return &hfImageGenerator{
		cfg:    cfg,
		client: &http.Client{Timeout: time.Duration(cfg.Timeout) * time.Second},
		logger: logger.Named("HFImageGenerator"),
	}, nil
}

type hfTextToImageRequest struct {
	Inputs string `json:"inputs"`
}

// GenerateImage запрашивает картинку у Inference API и определяет ее размеры.
func (g *hfImageGenerator) GenerateImage(ctx context.Context, description string) (*Result, error) {
	log := g.logger.With(zap.String("model", g.cfg.ImageModel))

	data, contentType, err := callHFInference(ctx, g.client, g.cfg.Token,
		hfInferenceBaseURL+g.cfg.ImageModel,
		hfTextToImageRequest{Inputs: description}, "image/png", log)
	if err != nil {
		return nil, err
	}

	mimeType, ext := imageMimeAndExt(contentType)
	metadata := map[string]interface{}{
		"model":       g.cfg.ImageModel,
		"description": description,
	}

	// Размеры берем из самого файла; формат из декодера надежнее Content-Type
	if imgCfg, format, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		metadata["width"] = imgCfg.Width
		metadata["height"] = imgCfg.Height
		metadata["format"] = format
		mimeType, ext = imageMimeAndExtForFormat(format, mimeType, ext)
	} else {
		log.Warn("Failed to decode generated image dimensions", zap.Error(err))
	}

	log.Info("Image generated", zap.Int("bytes", len(data)))
	return &Result{
		Data:          data,
		MimeType:      mimeType,
		FileExtension: ext,
		Metadata:      metadata,
	}, nil
}

// callHFInference делает POST к Inference API. Статус 503 означает,
// что модель еще загружается на стороне провайдера.
func callHFInference(ctx context.Context, client *http.Client, token, url string, payload interface{}, accept string, log *zap.Logger) ([]byte, string, error) {
	reqBodyBytes, err := json.Marshal(payload)
	if err != nil {
		log.Error("Failed to marshal inference request payload", zap.Error(err))
		return nil, "", fmt.Errorf("failed to marshal request payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBodyBytes))
	if err != nil {
		log.Error("Failed to create inference request", zap.String("url", url), zap.Error(err))
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", accept)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	log.Debug("Sending request to inference API", zap.String("url", url))
	resp, err := client.Do(req)
	if err != nil {
		log.Error("Failed to execute inference request", zap.Error(err))
		return nil, "", fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, readErr := io.ReadAll(resp.Body)

	if resp.StatusCode == http.StatusServiceUnavailable {
		log.Warn("Inference model is still loading", zap.ByteString("response_body", bodyBytes))
		return nil, "", models.ErrModelLoading
	}
	if resp.StatusCode != http.StatusOK {
		log.Error("Inference API returned non-OK status",
			zap.Int("status_code", resp.StatusCode),
			zap.ByteString("response_body", bodyBytes),
		)
		return nil, "", fmt.Errorf("%w: API returned status %d: %s", models.ErrGenerationFailed, resp.StatusCode, string(bodyBytes))
	}
	if readErr != nil {
		log.Error("Failed to read inference response body", zap.Error(readErr))
		return nil, "", fmt.Errorf("failed to read response body: %w", readErr)
	}

	return bodyBytes, resp.Header.Get("Content-Type"), nil
}

func imageMimeAndExt(contentType string) (string, string) {
	switch contentType {
	case "image/jpeg":
		return "image/jpeg", "jpg"
	case "image/webp":
		return "image/webp", "webp"
	default:
		return "image/png", "png"
	}
}

func imageMimeAndExtForFormat(format, fallbackMime, fallbackExt string) (string, string) {
	switch format {
	case "jpeg":
		return "image/jpeg", "jpg"
	case "png":
		return "image/png", "png"
	default:
		return fallbackMime, fallbackExt
	}
}
