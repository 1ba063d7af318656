package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"iwfmcli/internal/dates"
	apierrors "iwfmcli/internal/errors"
	"iwfmcli/internal/hydrograph"
	"iwfmcli/internal/infrastructure"
)

// HydrographHandler serves date-indexed hydrograph value queries
// backed by an explicit load cache.
type HydrographHandler struct {
	cache        *hydrograph.Cache
	validate     *validator.Validate
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewHydrographHandler creates a new hydrograph query handler
func NewHydrographHandler(cache *hydrograph.Cache, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *HydrographHandler {
	return &HydrographHandler{
		cache:        cache,
		validate:     validator.New(),
		logger:       logger.With(slog.String("component", "hydrograph_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the hydrograph routes
func (h *HydrographHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.ListLoaded)
	r.Post("/load", h.LoadFile)
	r.Post("/value", h.GetValue)
	r.Post("/invalidate", h.Invalidate)

	return r
}

// FileRequest identifies a hydrograph file on disk.
type FileRequest struct {
	File string `json:"file" validate:"required"`
}

// Bind implements render.Binder
func (fr *FileRequest) Bind(r *http.Request) error {
	return nil
}

// ValueRequest asks for an interpolated value at a date and column.
type ValueRequest struct {
	File   string `json:"file" validate:"required"`
	Date   string `json:"date" validate:"required"`
	Column int    `json:"column" validate:"gte=0"`
}

// Bind implements render.Binder
func (vr *ValueRequest) Bind(r *http.Request) error {
	return nil
}

// ValueResponse carries an interpolated lookup result.
type ValueResponse struct {
	File   string  `json:"file"`
	Date   string  `json:"date"`
	Column int     `json:"column"`
	Value  float64 `json:"value"`
}

// FileInfo summarizes one loaded hydrograph table.
type FileInfo struct {
	File      string `json:"file"`
	Rows      int    `json:"rows"`
	Columns   int    `json:"columns"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

// ListLoaded handles GET /api/hydrographs
func (h *HydrographHandler) ListLoaded(w http.ResponseWriter, r *http.Request) {
	paths := h.cache.Paths()
	infos := make([]FileInfo, 0, len(paths))
	for _, p := range paths {
		sh, ok := h.cache.Get(p)
		if !ok {
			continue
		}
		infos = append(infos, fileInfo(sh))
	}

	render.JSON(w, r, map[string]interface{}{"hydrographs": infos})
}

// LoadFile handles POST /api/hydrographs/load
func (h *HydrographHandler) LoadFile(w http.ResponseWriter, r *http.Request) {
	var req FileRequest
	if err := render.Bind(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ValidationError("body", "invalid request body"))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ValidationError("file", "file is required"))
		return
	}

	sh, err := h.cache.Load(req.File)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "hydrograph loaded",
		slog.String("file", sh.Path()),
		slog.Int("rows", sh.Len()),
		slog.Int("columns", sh.Columns()))

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, fileInfo(sh))
}

// GetValue handles POST /api/hydrographs/value
func (h *HydrographHandler) GetValue(w http.ResponseWriter, r *http.Request) {
	var req ValueRequest
	if err := render.Bind(r, &req); err != nil {
		h.valueError(w, r, apierrors.ValidationError("body", "invalid request body"))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		h.valueError(w, r, apierrors.ValidationError("body", err.Error()))
		return
	}

	date, err := dates.ParseNamed(req.Date, "date")
	if err != nil {
		h.valueError(w, r, apierrors.ValidationError("date", err.Error()))
		return
	}

	sh, err := h.cache.Load(req.File)
	if err != nil {
		h.valueError(w, r, err)
		return
	}

	if req.Column >= sh.Columns() {
		h.valueError(w, r, apierrors.ValidationError("column", "column index out of range"))
		return
	}

	value, err := sh.HeadAt(date, req.Column)
	if err != nil {
		h.valueError(w, r, err)
		return
	}

	valueQueries.WithLabelValues("ok").Inc()

	infrastructure.LoggerFromContext(r.Context()).DebugContext(r.Context(), "value query served",
		slog.String("file", sh.Path()),
		slog.String("date", date.Format(dates.Layout)),
		slog.Int("column", req.Column))

	render.JSON(w, r, ValueResponse{
		File:   sh.Path(),
		Date:   date.Format(dates.Layout),
		Column: req.Column,
		Value:  value,
	})
}

// valueError records a failed value query outcome and responds with
// the error.
func (h *HydrographHandler) valueError(w http.ResponseWriter, r *http.Request, err error) {
	valueQueries.WithLabelValues("error").Inc()
	h.errorHandler.HandleError(w, r, err)
}

// Invalidate handles POST /api/hydrographs/invalidate
func (h *HydrographHandler) Invalidate(w http.ResponseWriter, r *http.Request) {
	var req FileRequest
	if err := render.Bind(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ValidationError("body", "invalid request body"))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ValidationError("file", "file is required"))
		return
	}

	h.cache.Invalidate(req.File)
	render.JSON(w, r, map[string]string{"status": "invalidated", "file": req.File})
}

func fileInfo(sh *hydrograph.SimHydrographs) FileInfo {
	info := FileInfo{
		File:    sh.Path(),
		Rows:    sh.Len(),
		Columns: sh.Columns(),
	}
	if sh.Len() > 0 {
		info.StartDate = sh.StartDate().Format(dates.Layout)
		info.EndDate = sh.EndDate().Format(dates.Layout)
	}
	return info
}
