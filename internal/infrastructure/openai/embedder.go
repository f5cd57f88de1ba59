package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/DRSN-tech/film-indexer/internal/cfg"
	"github.com/DRSN-tech/film-indexer/pkg/e"
	"github.com/DRSN-tech/film-indexer/pkg/logger"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Embedder считает эмбеддинг текста через OpenAI Embeddings API, по одному тексту за вызов.
type Embedder struct {
	client     openai.Client
	model      string
	dimensions int
	logger     logger.Logger
}

// NewEmbedder создаёт клиент. Повторы запросов отключены: любая ошибка сразу прерывает загрузку.
func NewEmbedder(httpClient *http.Client, cfg *cfg.EmbeddingCfg, logger logger.Logger) *Embedder {
	if httpClient == nil {
		httpClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}

	client := openai.NewClient(
		option.WithAPIKey(cfg.ApiKey),
		option.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/")+"/"),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	)

	return &Embedder{
		client:     client,
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
		logger:     logger,
	}
}

// Embed возвращает вектор для text. Пустой text отправляется как есть.
func (m *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	const op = "Embedder.Embed"

	params := openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{
			OfString: openai.String(text),
		},
		Model:          openai.EmbeddingModel(m.model),
		EncodingFormat: openai.EmbeddingNewParamsEncodingFormatFloat,
	}
	if m.dimensions > 0 {
		params.Dimensions = openai.Int(int64(m.dimensions))
	}

	resp, err := m.client.Embeddings.New(ctx, params)
	if err != nil {
		return nil, e.Wrap(op, fmt.Errorf("%w: %w", e.NewPublic(e.ErrEmbeddingFailed, upstreamMessage(err)), err))
	}

	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		if msg, ok := errorField(resp.RawJSON()); ok {
			return nil, e.Wrap(op, e.NewPublic(e.ErrEmbeddingFailed, msg))
		}
		return nil, e.Wrap(op, e.NewPublic(e.ErrEmbeddingFailed, e.ErrEmptyEmbedding.Error()))
	}

	vector := make([]float32, len(resp.Data[0].Embedding))
	for i, v := range resp.Data[0].Embedding {
		vector[i] = float32(v)
	}

	return vector, nil
}

// ModelName возвращает имя модели эмбеддингов
func (m *Embedder) ModelName() string {
	return m.model
}

// upstreamMessage достаёт текст ошибки из ответа API, если он есть.
func upstreamMessage(err error) string {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fmt.Sprintf("status %d", apiErr.StatusCode)
	}

	return err.Error()
}

// errorField читает поле error из тела ответа с кодом 2xx.
func errorField(raw string) (string, bool) {
	var body struct {
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if raw == "" || json.Unmarshal([]byte(raw), &body) != nil || body.Error == nil {
		return "", false
	}
	if body.Error.Message == "" {
		return "unknown error", true
	}

	return body.Error.Message, true
}
