package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"brandmatch-service/internal/brandmatch/service"
	"brandmatch-service/internal/fileio"
	"brandmatch-service/internal/middleware"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Runner: конвейер обработки листа заказов.
type Runner interface {
	Run(ctx context.Context, tbl fileio.Table) (service.Result, error)
}

// Match: POST /match: multipart "file" (+ header_row, format=json|xlsx).
func Match(svc Runner, maxUploadMB int, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := requestLogger(r, logger)
		defer r.Body.Close()

		if err := r.ParseMultipartForm(int64(maxUploadMB) << 20); err != nil {
			writeError(w, http.StatusBadRequest, "bad multipart form: "+err.Error())
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "missing file: "+err.Error())
			return
		}
		defer file.Close()

		headerRow := atoi(r.FormValue("header_row"), 1)
		tbl, err := fileio.ReadTable(file, header.Filename, headerRow)
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to read file: "+err.Error())
			return
		}
		log.Debug().
			Str("file", header.Filename).
			Int("rows", len(tbl.Rows)).
			Int("width", tbl.Width()).
			Msg("order sheet parsed")

		res, err := svc.Run(r.Context(), tbl)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				status = http.StatusServiceUnavailable
			}
			log.Error().Err(err).Str("file", header.Filename).Msg("match failed")
			writeError(w, status, err.Error())
			return
		}

		switch strings.ToLower(r.FormValue("format")) {
		case "xlsx":
			w.Header().Set("Content-Type", xlsxContentType)
			w.Header().Set("Content-Disposition", attachment(header.Filename))
			if err := fileio.WriteXLSX(w, res.Sheets()...); err != nil {
				log.Error().Err(err).Msg("write xlsx")
				return
			}
		default:
			writeJSON(w, http.StatusOK, res, log)
		}

		log.Info().
			Str("file", header.Filename).
			Int("rows", res.Stats.Total).
			Int("matched", res.Stats.Matched).
			Int("failed", res.Stats.Failed).
			Int("similar", len(res.Similar)).
			Dur("elapsed", time.Since(start)).
			Msg("match done")
	}
}

// attachment: имя результата: исходное имя + _matched.xlsx.
func attachment(src string) string {
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	if base == "" || base == "." {
		base = "orders"
	}
	name := base + "_matched.xlsx"
	return fmt.Sprintf(`attachment; filename="result.xlsx"; filename*=UTF-8''%s`, url.PathEscape(name))
}

func requestLogger(r *http.Request, logger zerolog.Logger) zerolog.Logger {
	if rid := middleware.GetRequestID(r); rid != "" {
		return logger.With().Str("req_id", rid).Logger()
	}
	return logger
}

func writeJSON(w http.ResponseWriter, status int, v any, log zerolog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Error().Err(err).Msg("write json")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
