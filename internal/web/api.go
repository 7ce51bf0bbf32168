package web

import (
	"errors"
	"net/http"

	"vote-dashboard-go/internal/aggregator"
	"vote-dashboard-go/internal/dataset"
)

type tallyResponse struct {
	Category string         `json:"valor"`
	Counts   map[string]int `json:"conteo"`
	Rows     any            `json:"filas"`
}

type rankingResponse struct {
	Weights []int `json:"pesos"`
	Rows    any   `json:"filas"`
}

func (s *Server) apiDataset(w http.ResponseWriter, r *http.Request) (*dataset.Dataset, bool) {
	ds, err := s.sessions.Get(w, r).Dataset(r.Context(), s.loader)
	if err != nil {
		status, msg := apiLoadError(err)
		writeError(w, status, msg)
		return nil, false
	}
	return ds, true
}

func apiLoadError(err error) (int, string) {
	switch {
	case errors.Is(err, dataset.ErrDataUnavailable):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, dataset.ErrMalformedPayload):
		return http.StatusUnprocessableEntity, err.Error()
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

func (s *Server) apiSource(w http.ResponseWriter, r *http.Request) {
	if ds, ok := s.apiDataset(w, r); ok {
		writeJSON(w, http.StatusOK, ds.Source)
	}
}

func (s *Server) apiCategories(w http.ResponseWriter, r *http.Request) {
	if ds, ok := s.apiDataset(w, r); ok {
		writeJSON(w, http.StatusOK, aggregator.Categories(ds.Records))
	}
}

func (s *Server) apiTally(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.apiDataset(w, r)
	if !ok {
		return
	}
	cat := r.URL.Query().Get("valor")
	if cat == "" {
		writeError(w, http.StatusBadRequest, "valor is required")
		return
	}
	writeJSON(w, http.StatusOK, tallyResponse{
		Category: cat,
		Counts:   aggregator.Tally(ds.Records, cat, s.roster),
		Rows:     aggregator.TallyRows(ds.Records, cat, s.roster),
	})
}

func (s *Server) apiRanking(w http.ResponseWriter, r *http.Request) {
	if ds, ok := s.apiDataset(w, r); ok {
		writeJSON(w, http.StatusOK, rankingResponse{
			Weights: aggregator.Weights[:],
			Rows:    aggregator.RankRows(ds.Records, s.roster),
		})
	}
}

func (s *Server) apiVotes(w http.ResponseWriter, r *http.Request) {
	if ds, ok := s.apiDataset(w, r); ok {
		writeJSON(w, http.StatusOK, ds.Records)
	}
}
