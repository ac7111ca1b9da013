package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/inamate/chartview/internal/chart"
	"github.com/inamate/chartview/internal/hub"
	"github.com/inamate/chartview/internal/model"
	"github.com/inamate/chartview/internal/store"
	"github.com/inamate/chartview/internal/typeid"
)

const maxOptionSize = 8 << 20

type handler struct {
	charts  *registry
	hub     *hub.Hub
	origins []string
}

func newRouter(h *handler) *mux.Router {
	r := mux.NewRouter()
	r.Use(recovery)
	r.Use(logger)
	r.Use(cors)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	r.HandleFunc("/charts", h.create).Methods("POST")
	r.HandleFunc("/charts/{id}", h.delete).Methods("DELETE")
	r.HandleFunc("/charts/{id}/option", h.setOption).Methods("PUT")
	r.HandleFunc("/charts/{id}/frame", h.frame).Methods("GET")
	r.HandleFunc("/charts/{id}/svg", h.svg).Methods("GET")
	r.HandleFunc("/charts/{id}/actions", h.action).Methods("POST")
	r.HandleFunc("/charts/{id}/hit", h.hit).Methods("GET")
	r.HandleFunc("/ws/charts/{id}", h.subscribe)
	return r
}

type createResponse struct {
	ID       string `json:"id"`
	Snapshot string `json:"snapshotId"`
	Version  int32  `json:"version"`
}

func readOption(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxOptionSize))
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "option too large"})
		return nil, false
	}
	if len(bytes.TrimSpace(body)) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "option is required"})
		return nil, false
	}
	return body, true
}

func (h *handler) create(w http.ResponseWriter, r *http.Request) {
	option, ok := readOption(w, r)
	if !ok {
		return
	}
	c, snap, err := h.charts.create(r.Context(), option)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, createResponse{ID: c.ID(), Snapshot: snap.ID, Version: snap.Version})
}

func (h *handler) setOption(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	option, ok := readOption(w, r)
	if !ok {
		return
	}
	snap, err := h.charts.setOption(r.Context(), id, option)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, createResponse{ID: id, Snapshot: snap.ID, Version: snap.Version})
}

func (h *handler) frame(w http.ResponseWriter, r *http.Request) {
	cmds, err := h.charts.frame(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cmds)
}

func (h *handler) svg(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	err := h.charts.with(mux.Vars(r)["id"], func(c *chart.Chart) error {
		c.SVG(&buf)
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (h *handler) action(w http.ResponseWriter, r *http.Request) {
	var p chart.Payload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	err := h.charts.with(mux.Vars(r)["id"], func(c *chart.Chart) error {
		return c.DispatchAction(p)
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type hitResponse struct {
	Hit         bool    `json:"hit"`
	ObjectID    string  `json:"objectId,omitempty"`
	SeriesIndex int     `json:"seriesIndex"`
	DataIndex   int     `json:"dataIndex"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
}

func (h *handler) hit(w http.ResponseWriter, r *http.Request) {
	x, errX := strconv.ParseFloat(r.URL.Query().Get("x"), 64)
	y, errY := strconv.ParseFloat(r.URL.Query().Get("y"), 64)
	if errX != nil || errY != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "x and y are required"})
		return
	}
	resp := hitResponse{SeriesIndex: -1, DataIndex: -1, X: x, Y: y}
	err := h.charts.with(mux.Vars(r)["id"], func(c *chart.Chart) error {
		if res, ok := c.HitTest(x, y); ok {
			resp.Hit = true
			resp.ObjectID = res.ObjectID
			resp.SeriesIndex = res.SeriesIndex
			resp.DataIndex = res.DataIndex
		}
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.charts.delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// subscribe streams the frames of a chart over a websocket. The current
// frame is sent right after the welcome message.
func (h *handler) subscribe(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := h.charts.get(id); err != nil {
		writeError(w, err)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.origins,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	client := hub.NewClient(h.hub, conn, id, uuid.New().String())
	h.hub.Register(client)

	if inst, err := h.charts.get(id); err == nil {
		inst.mu.Lock()
		frame, err := inst.chart.FrameJSON()
		inst.mu.Unlock()
		if err == nil {
			client.Send(&hub.Message{Type: hub.TypeFrame, ChartID: id, Payload: json.RawMessage(frame)})
		}
	}

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}

// writeError maps domain errors to HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrChartNotFound), errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, typeid.ErrInvalidID),
		errors.Is(err, model.ErrInvalidOption), errors.Is(err, model.ErrMissingType),
		errors.Is(err, chart.ErrUnknownSeriesType), errors.Is(err, chart.ErrHeatmapVisualMap):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, chart.ErrUnknownAction), errors.Is(err, chart.ErrNoSeries), errors.Is(err, chart.ErrNoOption):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	default:
		slog.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
