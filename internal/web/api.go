package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"stageplan/internal/ics"
	appLog "stageplan/internal/log"
	"stageplan/internal/model"
	"stageplan/internal/pdf"
	"stageplan/internal/snapshot"
	"stageplan/internal/stages"
	"stageplan/internal/state"
)

// itineraryResponse is the JSON shape returned by every itinerary endpoint.
// Itinerary is the same document the JSON export produces.
type itineraryResponse struct {
	Revision       uint64          `json:"revision"`
	Exportable     bool            `json:"exportable"`
	IncompleteRows []int           `json:"incomplete_rows"`
	Itinerary      json.RawMessage `json:"itinerary"`
}

type warningResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Index   int      `json:"index"`
	Missing []string `json:"missing"`
}

type metaRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type fieldRequest struct {
	Field string          `json:"field"`
	Value json.RawMessage `json:"value"`
}

type scheduleRequest struct {
	Rule     string   `json:"rule"`
	Start    string   `json:"start"`
	RestDays []string `json:"restDays"`
}

func (s *Server) writeState(w http.ResponseWriter, st state.State) {
	doc, err := snapshot.Export(st.Itinerary)
	if err != nil {
		appLog.Error("failed to encode itinerary", err)
		writeError(w, http.StatusInternalServerError, "failed to encode itinerary")
		return
	}
	incomplete := stages.IncompleteRows(st.Itinerary.Events)
	if incomplete == nil {
		incomplete = []int{}
	}
	writeJSON(w, http.StatusOK, itineraryResponse{
		Revision:       st.Revision,
		Exportable:     len(incomplete) == 0,
		IncompleteRows: incomplete,
		Itinerary:      doc,
	})
}

// writeActionError maps domain errors onto HTTP statuses.
func writeActionError(w http.ResponseWriter, err error) {
	var warning *model.ValidationWarning
	var parseErr *model.ParseError
	var genErr *model.GenerationError

	switch {
	case errors.As(err, &warning):
		missing := make([]string, len(warning.Missing))
		for i, f := range warning.Missing {
			missing[i] = string(f)
		}
		writeJSON(w, http.StatusConflict, warningResponse{
			Error:   warning.Error(),
			Message: warning.Message(),
			Index:   warning.Index,
			Missing: missing,
		})
	case errors.Is(err, model.ErrExportIncomplete):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, model.ErrIndexOutOfRange):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &parseErr), errors.Is(err, model.ErrFieldValue):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &genErr):
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

func (s *Server) dispatch(w http.ResponseWriter, action state.Action) {
	st, err := s.store.Dispatch(action)
	if err != nil {
		appLog.Debug("action rejected", "action", fmt.Sprintf("%T", action), "err", err.Error())
		writeActionError(w, err)
		return
	}
	s.writeState(w, st)
}

func (s *Server) handleGetItinerary(w http.ResponseWriter, _ *http.Request) {
	s.writeState(w, s.store.Snapshot())
}

func (s *Server) handlePutItinerary(w http.ResponseWriter, r *http.Request) {
	var req metaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.dispatch(w, state.SetDetails{Name: req.Name, Description: req.Description})
}

func (s *Server) handleAppendStage(w http.ResponseWriter, r *http.Request) {
	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	s.dispatch(w, state.AppendRow{Confirmed: confirmed})
}

func (s *Server) handleUpdateStage(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid stage index")
		return
	}

	var req fieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	field, err := model.ParseField(req.Field)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	value, err := s.decodeFieldValue(field, req.Value)
	if err != nil {
		writeActionError(w, err)
		return
	}
	s.dispatch(w, state.UpdateField{Index: index, Field: field, Value: value})
}

func (s *Server) handleDeleteStage(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid stage index")
		return
	}
	s.dispatch(w, state.DeleteRow{Index: index})
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	loc := s.cfg.Location()
	start, err := time.ParseInLocation(dateLayout, req.Start, loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start date")
		return
	}
	rest := make([]time.Time, 0, len(req.RestDays))
	for _, d := range req.RestDays {
		t, err := time.ParseInLocation(dateLayout, d, loc)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid rest day "+strconv.Quote(d))
			return
		}
		rest = append(rest, t)
	}
	s.dispatch(w, state.ScheduleDates{Rule: req.Rule, Start: start, RestDays: rest})
}

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

// decodeFieldValue converts the JSON value of a PATCH into the Go type
// stages.UpdateField expects. Dates take "2006-01-02" or RFC 3339, times
// take "15:04" or RFC 3339, and null clears either.
func (s *Server) decodeFieldValue(field model.Field, raw json.RawMessage) (any, error) {
	if len(raw) == 0 || string(raw) == "null" {
		if field.IsTime() {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %s must not be null", model.ErrFieldValue, field)
	}

	if field == model.FieldMountainFinish {
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, fmt.Errorf("%w: %s expects a boolean", model.ErrFieldValue, field)
		}
		return b, nil
	}

	var str string
	if err := json.Unmarshal(raw, &str); err != nil {
		return nil, fmt.Errorf("%w: %s expects a string", model.ErrFieldValue, field)
	}
	if !field.IsTime() {
		return str, nil
	}
	if str == "" {
		return nil, nil
	}

	loc := s.cfg.Location()
	if t, err := time.Parse(time.RFC3339Nano, str); err == nil {
		return t.In(loc), nil
	}
	if field == model.FieldDate {
		t, err := time.ParseInLocation(dateLayout, str, loc)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", model.ErrFieldValue, field, err)
		}
		return t, nil
	}
	c, err := time.Parse(clockLayout, str)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", model.ErrFieldValue, field, err)
	}
	// A bare clock time is anchored on today, as a browser time input does.
	today := s.clock.Now().In(loc)
	return time.Date(today.Year(), today.Month(), today.Day(), c.Hour(), c.Minute(), 0, 0, loc), nil
}

func writeDownload(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// handleExportICS is only open once every row has date, start and end time.
func (s *Server) handleExportICS(w http.ResponseWriter, _ *http.Request) {
	it := s.store.Snapshot().Itinerary
	if !stages.AllRequiredFieldsFilled(it.Events) {
		writeActionError(w, model.ErrExportIncomplete)
		return
	}

	g := ics.Generator{
		ProductID: s.cfg.ProductID,
		Location:  s.cfg.Location(),
		Clock:     s.clock,
	}
	name, data, err := ics.ExportItinerary(it, g)
	if err != nil {
		writeActionError(w, err)
		return
	}
	writeDownload(w, ics.ContentType, name, data)
}

func (s *Server) handleExportJSON(w http.ResponseWriter, _ *http.Request) {
	name, data, err := snapshot.ExportItinerary(s.store.Snapshot().Itinerary, s.clock)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to export JSON")
		return
	}
	writeDownload(w, snapshot.ContentType, name, data)
}

func (s *Server) handleExportPDF(w http.ResponseWriter, _ *http.Request) {
	name, data, err := pdf.ExportItinerary(s.store.Snapshot().Itinerary, s.clock)
	if err != nil {
		appLog.Error("pdf export failed", err)
		writeError(w, http.StatusInternalServerError, "failed to export PDF")
		return
	}
	writeDownload(w, pdf.ContentType, name, data)
}

// handleImport accepts either the raw JSON document or a multipart form
// with the document in "file". On failure the current itinerary is kept.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	var data []byte
	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		data, err = readFormFile(r, "file")
	} else {
		data, err = io.ReadAll(r.Body)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read upload: "+err.Error())
		return
	}

	it, err := snapshot.Import(data, s.cfg.Location())
	if err != nil {
		appLog.Warn("import rejected", "err", err.Error())
		writeActionError(w, err)
		return
	}
	s.dispatch(w, state.Replace{Itinerary: it})
}

func readFormFile(r *http.Request, name string) ([]byte, error) {
	f, _, err := r.FormFile(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
