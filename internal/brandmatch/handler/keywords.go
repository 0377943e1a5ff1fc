package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"brandmatch-service/internal/brandmatch/model"
)

// KeywordStore: реестр ключевых слов удаления.
type KeywordStore interface {
	List() []string
	Version() uint64
	Add(ctx context.Context, keyword string) error
	Remove(ctx context.Context, keyword string) error
}

type keywordsResponse struct {
	Keywords []string `json:"keywords"`
	Count    int      `json:"count"`
	Version  uint64   `json:"version"`
}

type keywordRequest struct {
	Keyword string `json:"keyword"`
}

func listResponse(kw KeywordStore) keywordsResponse {
	list := kw.List()
	return keywordsResponse{Keywords: list, Count: len(list), Version: kw.Version()}
}

// ListKeywords: GET /keywords.
func ListKeywords(kw KeywordStore, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, listResponse(kw), requestLogger(r, logger))
	}
}

// AddKeyword: POST /keywords {"keyword": "..."}.
func AddKeyword(kw KeywordStore, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLogger(r, logger)
		var req keywordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad json: "+err.Error())
			return
		}
		if err := kw.Add(r.Context(), req.Keyword); err != nil {
			writeKeywordError(w, err, log)
			return
		}
		writeJSON(w, http.StatusCreated, listResponse(kw), log)
	}
}

// RemoveKeyword: DELETE /keywords/{keyword}.
func RemoveKeyword(kw KeywordStore, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLogger(r, logger)
		keyword := chi.URLParam(r, "keyword")
		if v, err := url.PathUnescape(keyword); err == nil {
			keyword = v
		}
		if err := kw.Remove(r.Context(), keyword); err != nil {
			writeKeywordError(w, err, log)
			return
		}
		writeJSON(w, http.StatusOK, listResponse(kw), log)
	}
}

func writeKeywordError(w http.ResponseWriter, err error, log zerolog.Logger) {
	switch {
	case errors.Is(err, model.ErrKeywordEmpty):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, model.ErrKeywordExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, model.ErrKeywordNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		log.Error().Err(err).Msg("keyword update failed")
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
