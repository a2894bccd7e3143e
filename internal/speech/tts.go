package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Provider represents a TTS service provider
type Provider string

const (
	ProviderOpenAI     Provider = "openai"
	ProviderElevenLabs Provider = "elevenlabs"
	ProviderMock       Provider = "mock"
)

// Config holds TTS configuration
type Config struct {
	Provider   Provider
	APIKey     string
	Voice      string
	Speed      float64 // 0.5 - 2.0
	OutputDir  string
	HTTPClient *http.Client
}

// openAITTSRequest represents OpenAI TTS request
type openAITTSRequest struct {
	Model          string  `json:"model"`
	Input          string  `json:"input"`
	Voice          string  `json:"voice"`
	ResponseFormat string  `json:"response_format"`
	Speed          float64 `json:"speed"`
}

// elevenLabsTTSRequest represents ElevenLabs TTS request
type elevenLabsTTSRequest struct {
	Text          string                  `json:"text"`
	ModelID       string                  `json:"model_id"`
	VoiceSettings elevenLabsVoiceSettings `json:"voice_settings"`
}

type elevenLabsVoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

// TTSClient handles text-to-speech synthesis
type TTSClient struct {
	Config *Config
}

// NewTTSClient creates a TTS client, filling in defaults for the
// HTTP client, output directory and speed when unset.
func NewTTSClient(config *Config) *TTSClient {
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{
			Timeout: 60 * time.Second,
		}
	}
	if config.OutputDir == "" {
		config.OutputDir = "audio"
	}
	if config.Speed == 0 {
		config.Speed = 1.0
	}

	return &TTSClient{Config: config}
}

// ValidateConfig validates TTS configuration
func ValidateConfig(config *Config) error {
	switch config.Provider {
	case ProviderOpenAI, ProviderElevenLabs, ProviderMock:
	case "":
		return fmt.Errorf("TTS provider is required")
	default:
		return fmt.Errorf("invalid TTS provider: %s (available: openai, elevenlabs, mock)", config.Provider)
	}

	if config.Provider != ProviderMock && config.APIKey == "" {
		return fmt.Errorf("%s requires an API key", config.Provider)
	}

	if config.Speed < 0.5 || config.Speed > 2.0 {
		return fmt.Errorf("speed must be between 0.5 and 2.0")
	}

	return nil
}

// GenerateAudio creates an audio file from text and returns the file path.
func (c *TTSClient) GenerateAudio(ctx context.Context, text string, filename string) (string, error) {
	if err := os.MkdirAll(c.Config.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	if !strings.HasSuffix(filename, ".mp3") {
		filename += ".mp3"
	}

	outputPath := filepath.Join(c.Config.OutputDir, filename)

	switch c.Config.Provider {
	case ProviderOpenAI:
		return c.generateOpenAIAudio(ctx, text, outputPath)
	case ProviderElevenLabs:
		return c.generateElevenLabsAudio(ctx, text, outputPath)
	case ProviderMock:
		return c.generateMockAudio(text, outputPath)
	default:
		return "", fmt.Errorf("unsupported TTS provider: %s", c.Config.Provider)
	}
}

// generateOpenAIAudio generates audio using the OpenAI TTS API
func (c *TTSClient) generateOpenAIAudio(ctx context.Context, text string, outputPath string) (string, error) {
	if c.Config.APIKey == "" {
		return "", fmt.Errorf("OpenAI API key is required")
	}

	voice := c.Config.Voice
	if voice == "" {
		voice = "alloy"
	}

	requestData := openAITTSRequest{
		Model:          "tts-1",
		Input:          text,
		Voice:          voice,
		ResponseFormat: "mp3",
		Speed:          c.Config.Speed,
	}

	jsonData, err := json.Marshal(requestData)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", "https://api.openai.com/v1/audio/speech", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.Config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Config.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("OpenAI API error %d: %s", resp.StatusCode, string(body))
	}

	return outputPath, writeAudioFile(outputPath, resp.Body)
}

// generateElevenLabsAudio generates audio using the ElevenLabs API
func (c *TTSClient) generateElevenLabsAudio(ctx context.Context, text string, outputPath string) (string, error) {
	if c.Config.APIKey == "" {
		return "", fmt.Errorf("ElevenLabs API key is required")
	}

	voiceID := c.Config.Voice
	if voiceID == "" {
		voiceID = "21m00Tcm4TlvDq8ikWAM" // Rachel
	}

	url := fmt.Sprintf("https://api.elevenlabs.io/v1/text-to-speech/%s", voiceID)

	requestData := elevenLabsTTSRequest{
		Text:    text,
		ModelID: "eleven_monolingual_v1",
		VoiceSettings: elevenLabsVoiceSettings{
			Stability:       0.5,
			SimilarityBoost: 0.5,
		},
	}

	jsonData, err := json.Marshal(requestData)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.Config.APIKey)

	resp, err := c.Config.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("ElevenLabs API error %d: %s", resp.StatusCode, string(body))
	}

	return outputPath, writeAudioFile(outputPath, resp.Body)
}

// generateMockAudio writes a placeholder file instead of calling a provider
func (c *TTSClient) generateMockAudio(text string, outputPath string) (string, error) {
	mockContent := fmt.Sprintf("Mock TTS Audio File\n\nGenerated: %s\nText Length: %d characters\nVoice: %s\n\nText Content:\n%s",
		time.Now().Format(time.RFC3339),
		len(text),
		c.Config.Voice,
		text)

	if err := os.WriteFile(outputPath, []byte(mockContent), 0644); err != nil {
		return "", fmt.Errorf("failed to write mock audio file: %w", err)
	}

	return outputPath, nil
}

func writeAudioFile(outputPath string, audio io.Reader) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	if _, err := io.Copy(file, audio); err != nil {
		return fmt.Errorf("failed to write audio data: %w", err)
	}

	return nil
}
