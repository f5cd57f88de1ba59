package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/DRSN-tech/film-indexer/internal/cfg"
	"github.com/DRSN-tech/film-indexer/internal/domain"
	"github.com/DRSN-tech/film-indexer/internal/infrastructure/openai"
	"github.com/DRSN-tech/film-indexer/internal/infrastructure/tmdb"
	"github.com/DRSN-tech/film-indexer/internal/usecase"
	"github.com/DRSN-tech/film-indexer/pkg/e"
	"github.com/DRSN-tech/film-indexer/pkg/logger"
	"github.com/DRSN-tech/film-indexer/pkg/tr"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRepo struct {
	mu      sync.Mutex
	batches [][]domain.EmbeddedFilm
	err     error
}

func (r *recordingRepo) Upsert(_ context.Context, films []domain.EmbeddedFilm) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, films)
	return r.err
}

type memStatuses struct {
	mu   sync.Mutex
	runs map[string]*domain.IngestionRun
}

func (m *memStatuses) Save(_ context.Context, run *domain.IngestionRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[run.Year] = run
	return nil
}

func (m *memStatuses) Get(_ context.Context, year string) (*domain.IngestionRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[year]
	if !ok {
		return nil, e.ErrIngestionNotFound
	}
	return run, nil
}

type upstreams struct {
	catalogStatus   int
	catalogBody     string
	catalogCalls    int
	embeddingStatus int
	embeddingBody   string
	embeddingInputs []string
}

type env struct {
	up       *upstreams
	repo     *recordingRepo
	statuses *memStatuses
	api      *httptest.Server
}

func newEnv(t *testing.T) *env {
	t.Helper()

	up := &upstreams{
		catalogStatus: http.StatusOK,
		catalogBody:   `{"page":1,"results":[{"id":1,"title":"One","overview":"A","release_date":"2020-01-01","backdrop_path":"/1.jpg"},{"id":2,"title":"Two","overview":"B","release_date":"2020-03-03","backdrop_path":"/2.jpg"}]}`,
		embeddingStatus: http.StatusOK,
		embeddingBody:   `{"object":"list","data":[{"object":"embedding","index":0,"embedding":[0.1,0.2]}],"model":"text-embedding-3-small","usage":{"prompt_tokens":1,"total_tokens":1}}`,
	}

	var mu sync.Mutex
	catalogSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		up.catalogCalls++
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(up.catalogStatus)
		_, _ = io.WriteString(w, up.catalogBody)
	}))
	t.Cleanup(catalogSrv.Close)

	embeddingSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Input string `json:"input"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		mu.Lock()
		up.embeddingInputs = append(up.embeddingInputs, body.Input)
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(up.embeddingStatus)
		_, _ = io.WriteString(w, up.embeddingBody)
	}))
	t.Cleanup(embeddingSrv.Close)

	log := logger.NewDiscard()
	catalog := tmdb.NewCatalog(catalogSrv.Client(), &cfg.CatalogCfg{BaseURL: catalogSrv.URL, ApiKey: "k"}, log)
	embedder := openai.NewEmbedder(embeddingSrv.Client(), &cfg.EmbeddingCfg{
		BaseURL: embeddingSrv.URL,
		ApiKey:  "sk",
		Model:   "text-embedding-3-small",
	}, log)

	repo := &recordingRepo{}
	statuses := &memStatuses{runs: map[string]*domain.IngestionRun{}}
	uc := usecase.NewFilmUC(catalog, embedder, repo, tr.Noop{}, statuses, nil, nil, "films", log)

	r := chi.NewRouter()
	NewRouter(r, log).Init(uc)
	api := httptest.NewServer(r)
	t.Cleanup(api.Close)

	return &env{up: up, repo: repo, statuses: statuses, api: api}
}

func (en *env) get(t *testing.T, path string) (int, map[string]any) {
	t.Helper()

	resp, err := http.Get(en.api.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestIngestSuccess(t *testing.T) {
	en := newEnv(t)

	code, body := en.get(t, "/api/v1/films/ingest?year=2020")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{"message": "2 films added for year 2020"}, body)

	assert.Equal(t, []string{"A", "B"}, en.up.embeddingInputs)
	require.Len(t, en.repo.batches, 1)

	batch := en.repo.batches[0]
	require.Len(t, batch, 2)
	assert.Equal(t, int64(1), batch[0].ID)
	assert.Equal(t, int64(2), batch[1].ID)
	assert.Equal(t, []float32{0.1, 0.2}, batch[0].Embedding)
	assert.Equal(t, []float32{0.1, 0.2}, batch[1].Embedding)

	raw, err := json.Marshal(batch[0])
	require.NoError(t, err)
	for _, field := range []string{"id", "title", "overview", "release_date", "backdrop_path", "embedding"} {
		assert.Contains(t, string(raw), `"`+field+`"`)
	}
}

func TestIngestRootPath(t *testing.T) {
	en := newEnv(t)

	code, body := en.get(t, "/?year=2020")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "2 films added for year 2020", body["message"])
}

func TestIngestMissingYear(t *testing.T) {
	en := newEnv(t)

	code, body := en.get(t, "/api/v1/films/ingest")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "year parameter was not set", body["message"])

	assert.Zero(t, en.up.catalogCalls)
	assert.Empty(t, en.up.embeddingInputs)
	assert.Empty(t, en.repo.batches)
}

func TestIngestInvalidYear(t *testing.T) {
	en := newEnv(t)

	code, _ := en.get(t, "/api/v1/films/ingest?year=twenty")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Zero(t, en.up.catalogCalls)
}

func TestIngestCatalogFailure(t *testing.T) {
	en := newEnv(t)
	en.up.catalogStatus = http.StatusInternalServerError
	en.up.catalogBody = `{"status_message":"boom"}`

	code, body := en.get(t, "/api/v1/films/ingest?year=2020")
	assert.Equal(t, http.StatusBadGateway, code)
	assert.Equal(t, "Error retrieving data from catalog API", body["message"])
	assert.Empty(t, en.up.embeddingInputs)
	assert.Empty(t, en.repo.batches)
}

func TestIngestEmbeddingFailure(t *testing.T) {
	en := newEnv(t)
	en.up.embeddingStatus = http.StatusUnauthorized
	en.up.embeddingBody = `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`

	code, body := en.get(t, "/api/v1/films/ingest?year=2020")
	assert.Equal(t, http.StatusBadGateway, code)
	assert.True(t, strings.HasPrefix(body["message"].(string), "Error obtaining embedding: "), body["message"])

	assert.Len(t, en.up.embeddingInputs, 1)
	assert.Empty(t, en.repo.batches)
}

func TestIngestEmbeddingErrorFieldWithStatusOK(t *testing.T) {
	en := newEnv(t)
	en.up.embeddingBody = `{"error":{"message":"This model's maximum context length is exceeded"}}`

	code, body := en.get(t, "/api/v1/films/ingest?year=2020")
	assert.Equal(t, http.StatusBadGateway, code)
	assert.Equal(t, "Error obtaining embedding: This model's maximum context length is exceeded", body["message"])

	assert.Len(t, en.up.embeddingInputs, 1)
	assert.Empty(t, en.repo.batches)
}

func TestIngestDatastoreFailure(t *testing.T) {
	en := newEnv(t)
	en.repo.err = e.NewPublic(e.ErrDatastoreWrite, "permission denied for table films")

	code, body := en.get(t, "/api/v1/films/ingest?year=2020")
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Error inserting data into datastore: permission denied for table films", body["message"])
}

func TestIngestionStatusEndpoint(t *testing.T) {
	en := newEnv(t)

	code, _ := en.get(t, "/api/v1/films/ingestions/2020")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = en.get(t, "/api/v1/films/ingest?year=2020")
	require.Equal(t, http.StatusOK, code)

	code, body := en.get(t, "/api/v1/films/ingestions/2020")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "2020", body["year"])
	assert.EqualValues(t, 2, body["film_count"])
	assert.Equal(t, "films", body["table"])

	code, _ = en.get(t, "/api/v1/films/ingestions/20x0")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestHealthz(t *testing.T) {
	en := newEnv(t)

	code, body := en.get(t, "/healthz")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["message"])
}

func TestWriteSuccessMessageResponse(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, http.StatusOK, NewMessageResponse("0 films added for year 1890"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"0 films added for year 1890"}`, rec.Body.String())
}

func TestToHTTPResponseUnknownError(t *testing.T) {
	code, msg := ToHTTPResponse(io.ErrUnexpectedEOF)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "internal server error", msg)
}
