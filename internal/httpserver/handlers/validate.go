package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/MrSnakeDoc/layerlint/internal/httpserver/deps"
	"github.com/MrSnakeDoc/layerlint/internal/logger"
)

// maxRecordBytes bounds uploaded source records; real records are a
// few KB even with embedded icons.
const maxRecordBytes = 4 << 20

type validateResponse struct {
	RunID    string   `json:"run_id"`
	Valid    bool     `json:"valid"`
	Good     []string `json:"good"`
	Warnings []string `json:"warnings"`
	Errors   []string `json:"errors"`
}

// Validate runs the full validation pipeline on one posted source
// record and returns the three message streams.
func Validate(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(io.LimitReader(r.Body, maxRecordBytes))
		if err != nil {
			http.Error(w, "failed to read request body", http.StatusBadRequest)
			return
		}
		if len(data) == 0 {
			http.Error(w, "empty request body", http.StatusBadRequest)
			return
		}

		rep := d.Runner.CheckBytes(r.Context(), "request.geojson", data)
		d.Logger.Info("validated record",
			logger.String("run_id", rep.RunID),
			logger.Int("errors", len(rep.Errors)),
			logger.Int("warnings", len(rep.Warnings)),
		)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(validateResponse{
			RunID:    rep.RunID,
			Valid:    !rep.Invalid(),
			Good:     emptyIfNil(rep.Good),
			Warnings: emptyIfNil(rep.Warnings),
			Errors:   emptyIfNil(rep.Errors),
		})
	}
}

func emptyIfNil(msgs []string) []string {
	if msgs == nil {
		return []string{}
	}
	return msgs
}
