package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Tham số sinh văn bản: ưu tiên kết quả ổn định, bám sát đầu vào
const (
	generationTemperature float32 = 0.3
	generationTopK        int32   = 40
	generationTopP        float32 = 0.95
	generationMaxTokens   int32   = 2048
)

// TextGenerator gửi một prompt và trả về văn bản thô model sinh ra
type TextGenerator interface {
	GenerateText(ctx context.Context, apiKey, prompt string) (string, error)
}

type GeminiGenerator struct {
	Model      string
	DefaultKey string
}

func NewGeminiGenerator(model, defaultKey string) *GeminiGenerator {
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &GeminiGenerator{Model: model, DefaultKey: defaultKey}
}

func (g *GeminiGenerator) GenerateText(ctx context.Context, apiKey, prompt string) (string, error) {
	key := apiKey
	if key == "" {
		key = g.DefaultKey
	}
	if key == "" {
		return "", &UpstreamError{Status: http.StatusUnauthorized, Message: "missing Gemini API key"}
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(key))
	if err != nil {
		return "", &UpstreamError{Message: "không thể tạo Gemini client", Err: err}
	}
	defer client.Close()

	model := client.GenerativeModel(g.Model)
	model.SetTemperature(generationTemperature)
	model.SetTopK(generationTopK)
	model.SetTopP(generationTopP)
	model.SetMaxOutputTokens(generationMaxTokens)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", toUpstreamError(err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", &UpstreamError{Status: http.StatusBadGateway, Message: "gemini không trả kết quả hợp lệ"}
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			out.WriteString(string(text))
		}
	}
	return out.String(), nil
}

func toUpstreamError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &UpstreamError{Status: http.StatusGatewayTimeout, Message: "gemini request timed out", Err: err}
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = http.StatusText(apiErr.Code)
		}
		return &UpstreamError{Status: apiErr.Code, Message: msg, Err: err}
	}
	return &UpstreamError{Message: fmt.Sprintf("lỗi Gemini xử lý: %v", err), Err: err}
}
