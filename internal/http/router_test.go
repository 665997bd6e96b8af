package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	types "github.com/speechfun/speechfun-backend/internal/domain"
	"github.com/speechfun/speechfun-backend/internal/http/handlers"
	"github.com/speechfun/speechfun-backend/internal/http/response"
	"github.com/speechfun/speechfun-backend/internal/platform/apierr"
	"github.com/speechfun/speechfun-backend/internal/platform/logger"
)

type fakeCatalogService struct {
	letters []*types.Letter
}

func (f *fakeCatalogService) ListLetters(ctx context.Context) ([]*types.Letter, error) {
	return f.letters, nil
}

func (f *fakeCatalogService) ListWordsByLetter(ctx context.Context, letterID uuid.UUID) ([]*types.Word, error) {
	return nil, apierr.NotFound(fmt.Errorf("letter %s does not exist", letterID))
}

func (f *fakeCatalogService) ListChallengesByLetter(ctx context.Context, letterID uuid.UUID, difficulty string) ([]*types.Challenge, error) {
	if difficulty != "" && !types.Difficulty(difficulty).Known() {
		return nil, apierr.InvalidRequest(fmt.Errorf("unknown difficulty %q", difficulty))
	}
	return []*types.Challenge{}, nil
}

func (f *fakeCatalogService) GetChallenge(ctx context.Context, challengeID uuid.UUID) (*types.Challenge, error) {
	return nil, apierr.NotFound(fmt.Errorf("challenge %s does not exist", challengeID))
}

func (f *fakeCatalogService) ListYesNoQuestions(ctx context.Context) ([]*types.YesNoQuestion, error) {
	return []*types.YesNoQuestion{}, nil
}

func (f *fakeCatalogService) ListFunctionalPhrases(ctx context.Context) ([]*types.FunctionalPhrase, error) {
	return []*types.FunctionalPhrase{}, nil
}

func (f *fakeCatalogService) UploadWordAudio(ctx context.Context, wordID uuid.UUID, audio []byte, filename string) (*types.Word, error) {
	return nil, apierr.ServiceUnavailable(fmt.Errorf("media storage is not configured"))
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log, err := logger.New("test")
	require.NoError(t, err)

	catalog := &fakeCatalogService{
		letters: []*types.Letter{
			{ID: uuid.New(), Letter: "A"},
			{ID: uuid.New(), Letter: "B"},
		},
	}
	return NewRouter(RouterConfig{
		Log:            log,
		CatalogHandler: handlers.NewCatalogHandler(catalog),
		HealthHandler:  handlers.NewHealthHandler(nil),
	})
}

func TestRouterPublicCatalogue(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/letters", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var letters []types.Letter
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &letters))
	require.Len(t, letters, 2)
	require.Equal(t, "A", letters[0].Letter)
}

func TestRouterErrorMapping(t *testing.T) {
	r := newTestRouter(t)

	// Malformed uuid is rejected before the service sees it.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/letters/not-a-uuid/words", nil))
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Service-level not-found surfaces with the envelope code.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/challenges/"+uuid.NewString(), nil))
	require.Equal(t, http.StatusNotFound, w.Code)

	var envelope response.ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Equal(t, "not_found", envelope.Error.Code)
	require.NotEmpty(t, envelope.Error.Message)

	// Unknown difficulty filter is a 400.
	letterID := uuid.NewString()
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/letters/"+letterID+"/challenges?difficulty=impossible", nil))
	require.Equal(t, http.StatusBadRequest, w.Code)
}
