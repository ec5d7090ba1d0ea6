package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"proclens/internal/analysis"
	apierrors "proclens/internal/errors"
	"proclens/internal/middleware"
	"proclens/internal/services"
)

// AnalysisHandler handles market analysis HTTP requests with RFC 7807
// error responses.
type AnalysisHandler struct {
	service      *services.AnalysisService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validate     *validator.Validate
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(service *services.AnalysisService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AnalysisHandler {
	return &AnalysisHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "analysis_handler")),
		errorHandler: errorHandler,
		validate:     validator.New(),
	}
}

// Routes returns the analysis routes with proper Chi patterns
func (h *AnalysisHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/market/overview", h.GetMarketOverview)
	r.Get("/suppliers/positioning", h.GetSupplierPositioning)
	r.Get("/suppliers/top", h.GetTopSuppliers)
	r.Get("/suppliers/insights", h.GetSupplierInsights)
	r.Get("/categories", h.GetCategoryOptions)
	r.Post("/dataset/reload", h.ReloadDataset)

	return r
}

// segmentQuery carries the optional category filter of a request.
type segmentQuery struct {
	L1 string `validate:"max=200"`
	L2 string `validate:"max=200"`
	L3 string `validate:"max=200"`
}

// rankingQuery carries the threshold overrides of a top-supplier request.
type rankingQuery struct {
	MinItems     int `validate:"min=1"`
	MinContracts int `validate:"min=0"`
	TopN         int `validate:"min=1,max=100"`
}

func (h *AnalysisHandler) segmentFilter(r *http.Request) (analysis.CategoryFilter, error) {
	q := segmentQuery{
		L1: r.URL.Query().Get("category_l1"),
		L2: r.URL.Query().Get("category_l2"),
		L3: r.URL.Query().Get("category_l3"),
	}
	if err := h.validate.Struct(q); err != nil {
		return analysis.CategoryFilter{}, apierrors.ErrValidation("category", "category values must be at most 200 characters")
	}
	return analysis.CategoryFilter{L1: q.L1, L2: q.L2, L3: q.L3}, nil
}

func (h *AnalysisHandler) rankingParams(r *http.Request) (analysis.RankingParams, error) {
	params := h.service.DefaultParams()

	q := rankingQuery{
		MinItems:     params.MinItems,
		MinContracts: params.MinContracts,
		TopN:         params.TopN,
	}

	var parseErrs []apierrors.ValidationError
	if raw := r.URL.Query().Get("min_items"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			parseErrs = append(parseErrs, apierrors.ValidationError{Field: "min_items", Message: "must be an integer"})
		} else {
			q.MinItems = v
		}
	}
	if raw := r.URL.Query().Get("min_contracts"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			parseErrs = append(parseErrs, apierrors.ValidationError{Field: "min_contracts", Message: "must be an integer"})
		} else {
			q.MinContracts = v
		}
	}
	if raw := r.URL.Query().Get("top_n"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			parseErrs = append(parseErrs, apierrors.ValidationError{Field: "top_n", Message: "must be an integer"})
		} else {
			q.TopN = v
		}
	}
	if len(parseErrs) > 0 {
		return analysis.RankingParams{}, apierrors.NewValidationErrors(parseErrs)
	}

	if err := h.validate.Struct(q); err != nil {
		return analysis.RankingParams{}, apierrors.ErrValidation("thresholds", "min_items >= 1, min_contracts >= 0 and 1 <= top_n <= 100 required")
	}

	return analysis.RankingParams{
		MinItems:     q.MinItems,
		MinContracts: q.MinContracts,
		TopN:         q.TopN,
	}, nil
}

// mapServiceError translates service sentinels into API errors.
func (h *AnalysisHandler) mapServiceError(err error) error {
	if errors.Is(err, services.ErrNotReady) {
		return apierrors.DatasetError(err)
	}
	return err
}

// GetMarketOverview handles GET /api/market/overview
func (h *AnalysisHandler) GetMarketOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.service.MarketOverview(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapServiceError(err))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":          "success",
		"dataset_version": h.service.Version(),
		"data":            overview,
	})
}

// GetSupplierPositioning handles GET /api/suppliers/positioning
func (h *AnalysisHandler) GetSupplierPositioning(w http.ResponseWriter, r *http.Request) {
	filter, err := h.segmentFilter(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	rows, err := h.service.SupplierPositioning(r.Context(), filter)
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapServiceError(err))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":          "success",
		"dataset_version": h.service.Version(),
		"count":           len(rows),
		"data":            rows,
	})
}

// GetTopSuppliers handles GET /api/suppliers/top
func (h *AnalysisHandler) GetTopSuppliers(w http.ResponseWriter, r *http.Request) {
	filter, err := h.segmentFilter(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	params, err := h.rankingParams(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	rows, err := h.service.TopSuppliers(r.Context(), filter, params)
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapServiceError(err))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":          "success",
		"dataset_version": h.service.Version(),
		"count":           len(rows),
		"data":            rows,
	})
}

// GetSupplierInsights handles GET /api/suppliers/insights
func (h *AnalysisHandler) GetSupplierInsights(w http.ResponseWriter, r *http.Request) {
	filter, err := h.segmentFilter(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	params, err := h.rankingParams(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	insights, err := h.service.SupplierInsights(r.Context(), filter, params)
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapServiceError(err))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":          "success",
		"dataset_version": h.service.Version(),
		"count":           len(insights),
		"data":            insights,
	})
}

// GetCategoryOptions handles GET /api/categories
func (h *AnalysisHandler) GetCategoryOptions(w http.ResponseWriter, r *http.Request) {
	level, ok := parseLevel(r.URL.Query().Get("level"))
	if !ok {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("level", "must be one of l1, l2, l3"))
		return
	}

	parent, err := h.segmentFilter(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	options, err := h.service.CategoryOptions(r.Context(), level, parent)
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapServiceError(err))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"level":  string(level),
		"count":  len(options),
		"data":   options,
	})
}

// ReloadDataset handles POST /api/dataset/reload
func (h *AnalysisHandler) ReloadDataset(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())
	h.logger.InfoContext(r.Context(), "dataset reload requested",
		slog.String("request_id", reqID))

	if err := h.service.Reload(r.Context()); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.DatasetError(err))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":          "success",
		"dataset_version": h.service.Version(),
	})
}

func parseLevel(raw string) (analysis.CategoryLevel, bool) {
	switch raw {
	case "l1", "":
		return analysis.LevelL1, true
	case "l2":
		return analysis.LevelL2, true
	case "l3":
		return analysis.LevelL3, true
	default:
		return "", false
	}
}
