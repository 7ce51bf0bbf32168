package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"vote-dashboard-go/internal/aggregator"
	"vote-dashboard-go/internal/export"
	"vote-dashboard-go/internal/types"
)

func (s *Server) handleValues(w http.ResponseWriter, r *http.Request) {
	data, ds, ok := s.load(w, r, pageValues)
	if ok {
		cats := aggregator.Categories(ds.Records)
		selected := r.URL.Query().Get("valor")
		if selected == "" && len(cats) > 0 {
			selected = cats[0]
		}
		rows := aggregator.TallyRows(ds.Records, selected, s.roster)
		labels, values := countSeries(rows)
		data["Data"] = map[string]any{
			"Categories": cats,
			"Selected":   selected,
			"Rows":       rows,
			"Chart":      NewBarChart("Votos en: "+selected, labels, values, Blues),
		}
	}
	s.render(w, r, pageValues, data)
}

func (s *Server) handleCompanion(w http.ResponseWriter, r *http.Request) {
	data, ds, ok := s.load(w, r, pageCompanion)
	if ok {
		rows := aggregator.RankRows(ds.Records, s.roster)
		top := aggregator.Top(rows, topRanking)
		labels := make([]string, len(top))
		values := make([]int, len(top))
		for i, row := range top {
			labels[i], values[i] = row.Name, row.Score
		}
		data["Data"] = map[string]any{
			"Rows":     rows,
			"MaxScore": aggregator.MaxScore(rows),
			"Chart":    NewBarChart("Top 10 - Puntaje Mejor Compañero", labels, values, Viridis),
		}
	}
	s.render(w, r, pageCompanion, data)
}

func (s *Server) handleRaw(w http.ResponseWriter, r *http.Request) {
	data, ds, ok := s.load(w, r, pageRaw)
	if ok {
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, ds.Raw, "", "  "); err != nil {
			pretty.Reset()
			pretty.Write(ds.Raw)
		}
		data["Data"] = map[string]any{
			"Count": len(ds.Records),
			"JSON":  pretty.String(),
		}
	}
	s.render(w, r, pageRaw, data)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	log := s.log.WithRequest(r).WithField("handler", "upload")
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		log.WithField("error", err.Error()).Warn("upload rejected")
		redirectWithError(w, r, redirectTarget(""), uploadErrorMessage(err))
		return
	}
	next := redirectTarget(r.FormValue("next"))

	file, header, err := r.FormFile("file")
	if err != nil {
		log.WithField("error", err.Error()).Warn("upload rejected")
		redirectWithError(w, r, next, "Selecciona un archivo JSON")
		return
	}
	defer file.Close()

	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != ".json" {
		log.WithField("filename", header.Filename).Warn("upload is not a .json file")
		redirectWithError(w, r, next, "Solo se aceptan archivos .json")
		return
	}
	payload, err := io.ReadAll(file)
	if err != nil {
		log.WithField("error", err.Error()).Warn("upload read failed")
		redirectWithError(w, r, next, uploadErrorMessage(err))
		return
	}

	s.sessions.Get(w, r).SetUpload(header.Filename, payload)
	log.WithField("filename", header.Filename).WithField("bytes", len(payload)).Info("vote file uploaded")
	http.Redirect(w, r, next, http.StatusSeeOther)
}

func (s *Server) handleClearUpload(w http.ResponseWriter, r *http.Request) {
	s.sessions.Get(w, r).ClearUpload()
	http.Redirect(w, r, redirectTarget(r.FormValue("next")), http.StatusSeeOther)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	s.sessions.Get(w, r).Reload()
	http.Redirect(w, r, redirectTarget(r.FormValue("next")), http.StatusSeeOther)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	ds, err := s.sessions.Get(w, r).Dataset(r.Context(), s.loader)
	if err != nil {
		status, msg := apiLoadError(err)
		http.Error(w, msg, status)
		return
	}
	var buf bytes.Buffer
	if err := export.Write(&buf, ds, s.roster); err != nil {
		s.log.WithRequest(r).WithField("error", err.Error()).Error("excel export failed")
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="resultados.xlsx"`)
	w.Write(buf.Bytes())
}

func countSeries(rows []types.CountRow) ([]string, []int) {
	labels := make([]string, len(rows))
	values := make([]int, len(rows))
	for i, row := range rows {
		labels[i], values[i] = row.Name, row.Votes
	}
	return labels, values
}

func uploadErrorMessage(err error) string {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return "El archivo es demasiado grande"
	}
	return "No se pudo recibir el archivo"
}

// redirectTarget only allows local tab paths.
func redirectTarget(next string) string {
	switch next {
	case "/" + pageValues, "/" + pageCompanion, "/" + pageRaw:
		return next
	}
	return "/" + pageValues
}

func redirectWithError(w http.ResponseWriter, r *http.Request, next, msg string) {
	http.Redirect(w, r, next+"?error="+url.QueryEscape(msg), http.StatusSeeOther)
}
