package httpserver

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	appanalyses "github.com/bryanwahyu/engine-checkup/internal/application/analyses"
	"github.com/bryanwahyu/engine-checkup/internal/domain/analysis"
	"github.com/bryanwahyu/engine-checkup/internal/domain/reports"
	"github.com/bryanwahyu/engine-checkup/internal/domain/vehicles"
	"github.com/bryanwahyu/engine-checkup/internal/middleware"
)

// analysisView adds the classified status to a stored analysis.
type analysisView struct {
	*analysis.AudioAnalysis
	Status      analysis.Label          `json:"status"`
	StatusLabel string                  `json:"status_label"`
	Counts      analysis.SeverityCounts `json:"counts"`
}

func viewOf(a *analysis.AudioAnalysis) analysisView {
	l := a.Status()
	return analysisView{AudioAnalysis: a, Status: l, StatusLabel: l.DisplayName(), Counts: a.Counts()}
}

func vehicleParam(req *http.Request) (string, error) {
	id := chi.URLParam(req, "vehicleID")
	if err := middleware.ValidateID("vehicle", id); err != nil {
		return "", badRequestf(err)
	}
	return id, nil
}

func idParam(req *http.Request, kind string) (string, error) {
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateID(kind, id); err != nil {
		return "", badRequestf(err)
	}
	return id, nil
}

func orderParam(req *http.Request) (analysis.Order, error) {
	raw := req.URL.Query().Get("order")
	o, ok := analysis.ParseOrder(raw)
	if !ok {
		return o, badRequest{msg: fmt.Sprintf("invalid order %q (allowed: newest, oldest)", raw)}
	}
	return o, nil
}

// POST /v1/{owner}/vehicles
func (r *Router) handleRegisterVehicle(w http.ResponseWriter, req *http.Request) error {
	owner := chi.URLParam(req, "owner")
	var body vehicles.RegisterInput
	if err := decodeJSON(req, &body); err != nil {
		return err
	}
	body.Make = middleware.SanitizeString(body.Make)
	body.Model = middleware.SanitizeString(body.Model)
	body.Nickname = middleware.SanitizeString(body.Nickname)

	v, err := r.vehicles.Register(req.Context(), owner, body)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, v)
}

// GET /v1/{owner}/vehicles
func (r *Router) handleListVehicles(w http.ResponseWriter, req *http.Request) error {
	list, err := r.vehicles.List(req.Context(), chi.URLParam(req, "owner"))
	if err != nil {
		return err
	}
	if list == nil {
		list = []*vehicles.Vehicle{}
	}
	return writeJSON(w, http.StatusOK, list)
}

// GET /v1/{owner}/vehicles/{vehicleID}
func (r *Router) handleGetVehicle(w http.ResponseWriter, req *http.Request) error {
	id, err := vehicleParam(req)
	if err != nil {
		return err
	}
	v, err := r.vehicles.Get(req.Context(), chi.URLParam(req, "owner"), vehicles.VehicleID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, v)
}

// POST /v1/{owner}/vehicles/{vehicleID}/analyses
// Accepts JSON {"duration_seconds": n, "audio_file_url": "..."} or a multipart
// form with an "audio" file and a "duration_seconds" field.
func (r *Router) handleRecord(w http.ResponseWriter, req *http.Request) error {
	owner := chi.URLParam(req, "owner")
	vehicleID, err := vehicleParam(req)
	if err != nil {
		return err
	}
	cmd := appanalyses.RecordCommand{VehicleID: vehicleID}

	mediaType, _, _ := mime.ParseMediaType(req.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		req.Body = http.MaxBytesReader(w, req.Body, r.maxUpload)
		if err := req.ParseMultipartForm(8 << 20); err != nil {
			return badRequestf(err)
		}
		defer req.MultipartForm.RemoveAll()

		d, err := strconv.Atoi(strings.TrimSpace(req.FormValue("duration_seconds")))
		if err != nil {
			return badRequest{msg: "duration_seconds must be an integer"}
		}
		cmd.DurationSeconds = d

		file, hdr, err := req.FormFile("audio")
		if err != nil {
			return badRequest{msg: "audio file is required"}
		}
		defer file.Close()
		if err := middleware.ValidateAudioName(hdr.Filename); err != nil {
			return badRequestf(err)
		}
		cmd.Audio = file
		cmd.AudioSize = hdr.Size
		cmd.AudioName = hdr.Filename
		cmd.ContentType = hdr.Header.Get("Content-Type")
	} else {
		var body struct {
			DurationSeconds int    `json:"duration_seconds"`
			AudioFileURL    string `json:"audio_file_url"`
		}
		if err := decodeJSON(req, &body); err != nil {
			return err
		}
		if err := middleware.ValidateAudioURL(body.AudioFileURL); err != nil {
			return badRequestf(err)
		}
		cmd.DurationSeconds = body.DurationSeconds
		cmd.AudioFileURL = body.AudioFileURL
	}

	a, err := r.analyses.RecordSession(req.Context(), owner, cmd)
	if err != nil {
		if errors.Is(err, analysis.ErrInvalidDuration) {
			middleware.IncrementRejectedRuns()
		}
		return err
	}
	middleware.RecordAnalysis(a.AnomalyDetected)
	return writeJSON(w, http.StatusCreated, viewOf(a))
}

// GET /v1/{owner}/vehicles/{vehicleID}/analyses?order=&limit=&offset=
func (r *Router) handleListAnalyses(w http.ResponseWriter, req *http.Request) error {
	vehicleID, err := vehicleParam(req)
	if err != nil {
		return err
	}
	order, err := orderParam(req)
	if err != nil {
		return err
	}
	q := req.URL.Query()
	limit, err := middleware.ParseIntParam(q.Get("limit"), 0)
	if err != nil {
		return badRequestf(err)
	}
	offset, err := middleware.ParseIntParam(q.Get("offset"), 0)
	if err != nil {
		return badRequestf(err)
	}

	list, err := r.analyses.ListByVehicle(req.Context(), chi.URLParam(req, "owner"), vehicleID,
		analysis.ListQuery{Order: order, Limit: limit, Offset: offset})
	if err != nil {
		return err
	}
	out := make([]analysisView, 0, len(list))
	for _, a := range list {
		out = append(out, viewOf(a))
	}
	return writeJSON(w, http.StatusOK, out)
}

// GET /v1/{owner}/vehicles/{vehicleID}/dashboard
func (r *Router) handleDashboard(w http.ResponseWriter, req *http.Request) error {
	vehicleID, err := vehicleParam(req)
	if err != nil {
		return err
	}
	d, err := r.analyses.Dashboard(req.Context(), chi.URLParam(req, "owner"), vehicleID)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, d)
}

// GET /v1/{owner}/analyses/{id}
func (r *Router) handleGetAnalysis(w http.ResponseWriter, req *http.Request) error {
	id, err := idParam(req, "analysis")
	if err != nil {
		return err
	}
	a, err := r.analyses.Get(req.Context(), chi.URLParam(req, "owner"), analysis.AnalysisID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, viewOf(a))
}

// POST /v1/{owner}/analyses/{id}/reports
func (r *Router) handleCreateReport(w http.ResponseWriter, req *http.Request) error {
	id, err := idParam(req, "analysis")
	if err != nil {
		return err
	}
	var body reports.Input
	if err := decodeJSON(req, &body); err != nil {
		return err
	}
	body.IssueSummary = middleware.SanitizeString(body.IssueSummary)
	for i, a := range body.RecommendedActions {
		body.RecommendedActions[i] = middleware.SanitizeString(a)
	}

	rep, err := r.reports.Create(req.Context(), chi.URLParam(req, "owner"), analysis.AnalysisID(id), body)
	if err != nil {
		return err
	}
	middleware.IncrementReports()
	return writeJSON(w, http.StatusCreated, rep)
}

// GET /v1/{owner}/analyses/{id}/reports?order=
func (r *Router) handleListReports(w http.ResponseWriter, req *http.Request) error {
	id, err := idParam(req, "analysis")
	if err != nil {
		return err
	}
	order, err := orderParam(req)
	if err != nil {
		return err
	}
	list, err := r.reports.ListByAnalysis(req.Context(), chi.URLParam(req, "owner"), analysis.AnalysisID(id), order)
	if err != nil {
		return err
	}
	if list == nil {
		list = []*reports.MechanicReport{}
	}
	return writeJSON(w, http.StatusOK, list)
}

// POST /v1/{owner}/analyses/{id}/reports/draft
func (r *Router) handleDraftReport(w http.ResponseWriter, req *http.Request) error {
	id, err := idParam(req, "analysis")
	if err != nil {
		return err
	}
	d, err := r.reports.Draft(req.Context(), chi.URLParam(req, "owner"), analysis.AnalysisID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, d)
}

// GET /v1/{owner}/reports/{id}
func (r *Router) handleGetReport(w http.ResponseWriter, req *http.Request) error {
	id, err := idParam(req, "report")
	if err != nil {
		return err
	}
	rep, err := r.reports.Get(req.Context(), chi.URLParam(req, "owner"), reports.ReportID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, rep)
}

// GET /v1/{owner}/classify?score=
func (r *Router) handleClassify(w http.ResponseWriter, req *http.Request) error {
	raw := req.URL.Query().Get("score")
	score, err := strconv.Atoi(raw)
	if err != nil {
		return badRequest{msg: fmt.Sprintf("score must be an integer, got %q", raw)}
	}
	l := analysis.Classify(score)
	return writeJSON(w, http.StatusOK, map[string]any{
		"score":        score,
		"label":        l,
		"display_name": l.DisplayName(),
	})
}
