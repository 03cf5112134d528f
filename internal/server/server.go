// Package server exposes the cost calculator over HTTP: a JSON API and the
// embedded single-page UI that drives it.
package server

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/8wontae4/cost-calculation/internal/config"
	"github.com/8wontae4/cost-calculation/internal/costmodel"
	"github.com/8wontae4/cost-calculation/internal/estimate"
	"github.com/8wontae4/cost-calculation/internal/form"
	"github.com/8wontae4/cost-calculation/internal/report"
	"github.com/8wontae4/cost-calculation/pkg/constants"
	"github.com/8wontae4/cost-calculation/pkg/optimization"
	"github.com/8wontae4/cost-calculation/pkg/validation"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed static/*
var staticFiles embed.FS

var exportContentTypes = map[string]string{
	validation.ExportCSV:  "text/csv; charset=utf-8",
	validation.ExportXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	validation.ExportPDF:  "application/pdf",
}

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	pdfFontPath   string
}

// NewHandler constructs the HTTP handler that serves the web UI and calculator API.
func NewHandler(logger *zap.Logger, cfg *Config, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}

	maxUploadSize := cfg.UploadSizeBytes()
	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:        logger,
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
		pdfFontPath:   cfg.PDFFontPath,
	}
	limiter := newClientRateLimiter(logger, cfg.RateLimit)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(limiter.Middleware)
		r.Get("/fields", h.handleFields)
		r.Get("/version", h.handleVersion)
		r.Post("/calculate", h.handleCalculate)
		r.Post("/config", h.handleConfigExport)
		r.Post("/export/{format}", h.handleExport)
	})

	// Static assets (web UI)
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to prepare embedded static files: %v", err))
	}
	r.Handle("/*", http.FileServer(http.FS(sub)))

	return r
}

type calculateRequest struct {
	Plan      costmodel.PlanInputs `json:"plan"`
	BreakEven bool                 `json:"breakEven"`
}

type calculateResponse struct {
	Plan      costmodel.PlanInputs    `json:"plan"`
	Inputs    costmodel.Inputs        `json:"inputs"`
	Result    costmodel.Result        `json:"result"`
	Breakdown costmodel.CostBreakdown `json:"breakdown"`
	Metrics   []report.MetricGroup    `json:"metrics"`
	Rows      []report.Row            `json:"rows"`
	CSV       string                  `json:"csv"`
	BreakEven []optimization.Summary  `json:"breakEven,omitempty"`
	Warnings  []string                `json:"warnings,omitempty"`
	Duration  string                  `json:"duration"`
}

type errorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleFields(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"sections": form.Sections(),
		"defaults": form.Defaults(),
	})
}

func (h *handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCalculate"
	start := time.Now()

	req := calculateRequest{Plan: form.Defaults()}
	if isFormPost(r) {
		if !h.decodeForm(w, r, &req.Plan, op) {
			return
		}
		req.BreakEven = r.PostForm.Get("breakEven") == "true"
	} else if !h.decodeBody(w, r, &req, op) {
		return
	}

	est, err := estimate.Compute(h.logger, constants.DefaultScenarioName, req.Plan, estimate.Options{BreakEven: req.BreakEven})
	if err != nil {
		h.respondCalculationError(w, err, op)
		return
	}

	rep := report.Build(est.Plan, est.Inputs, est.Result)
	csv, err := report.CSVString(rep.Rows)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to render csv: %v", err), op)
		return
	}

	elapsed := time.Since(start)
	response := calculateResponse{
		Plan:      est.Plan,
		Inputs:    est.Inputs,
		Result:    est.Result,
		Breakdown: rep.Breakdown,
		Metrics:   rep.Metrics,
		Rows:      rep.Rows,
		CSV:       csv,
		BreakEven: est.BreakEven,
		Warnings:  est.Warnings,
		Duration:  elapsed.String(),
	}

	h.logger.Info("calculation completed",
		zap.String("op", op),
		zap.Int64("annualProfit", est.Result.AnnualProfit),
		zap.Bool("breakEven", req.BreakEven),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleExport"

	format := strings.ToLower(chi.URLParam(r, "format"))
	if err := validation.ValidateExportFormat(format); err != nil {
		h.respondErrorWithOp(w, http.StatusNotFound, err.Error(), op)
		return
	}

	plan := form.Defaults()
	if isFormPost(r) {
		if !h.decodeForm(w, r, &plan, op) {
			return
		}
	} else if !h.decodeBody(w, r, &plan, op) {
		return
	}

	est, err := estimate.Compute(h.logger, constants.DefaultScenarioName, plan, estimate.Options{})
	if err != nil {
		h.respondCalculationError(w, err, op)
		return
	}
	rep := report.Build(est.Plan, est.Inputs, est.Result)

	var buf bytes.Buffer
	switch format {
	case validation.ExportCSV:
		err = report.WriteCSV(&buf, rep.Rows)
	case validation.ExportXLSX:
		err = report.WriteXLSX(&buf, rep)
	case validation.ExportPDF:
		err = report.WritePDF(&buf, rep, report.PDFOptions{FontPath: h.pdfFontPath})
	}
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to render %s: %v", format, err), op)
		return
	}

	w.Header().Set("Content-Type", exportContentTypes[format])
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": report.FileName(format),
	}))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("failed to write export",
			zap.String("op", op),
			zap.Error(err),
		)
	}
}

// handleConfigExport turns a plan into a calculation config file that the
// CLI can load.
func (h *handler) handleConfigExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleConfigExport"

	req := calculateRequest{Plan: form.Defaults()}
	if !h.decodeBody(w, r, &req, op) {
		return
	}
	if err := validation.ValidatePlan(req.Plan); err != nil {
		h.respondCalculationError(w, err, op)
		return
	}

	conf := config.DefaultConfiguration()
	conf.Plan = req.Plan
	conf.Output.Format = constants.OutputFormatPretty

	yamlBytes, err := yaml.Marshal(conf)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode configuration: %v", err), op)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"configYaml": string(yamlBytes),
	})
}

// decodeBody reads a JSON body into dst, which may already hold defaults for
// omitted fields. It responds and returns false on failure.
func (h *handler) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	err := dec.Decode(dst)
	if errors.Is(err, io.EOF) {
		return true
	}
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxUploadSize), op)
			return false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return false
	}
	return true
}

func isFormPost(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/x-www-form-urlencoded"
}

// decodeForm reads a urlencoded form submission into plan. Fields that fail to
// parse or validate are reported the same way as model errors.
func (h *handler) decodeForm(w http.ResponseWriter, r *http.Request, plan *costmodel.PlanInputs, op string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseForm(); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxUploadSize), op)
			return false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to parse form: %v", err), op)
		return false
	}

	parsed, err := form.ParseValues(r.PostForm)
	if err != nil {
		h.respondCalculationError(w, err, op)
		return false
	}
	*plan = parsed
	return true
}

func (h *handler) respondCalculationError(w http.ResponseWriter, err error, op string) {
	if !errors.Is(err, costmodel.ErrInvalidInput) {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
		return
	}

	resp := errorResponse{Error: err.Error()}
	for _, fieldErr := range validation.FieldErrors(err) {
		var invalid *costmodel.InvalidInputError
		if errors.As(fieldErr, &invalid) {
			resp.Fields = append(resp.Fields, invalid.Field)
		}
	}
	h.logger.Info("rejected invalid input",
		zap.String("op", op),
		zap.Strings("fields", resp.Fields),
		zap.Error(err),
	)
	h.writeJSON(w, http.StatusBadRequest, resp)
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	writeError(w, h.logger, status, msg, op)
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	writeJSON(w, h.logger, status, payload)
}

func writeError(w http.ResponseWriter, logger *zap.Logger, status int, msg string, op string) {
	logger.Error("calculator request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)
	writeJSON(w, logger, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func (h *handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.logger.Debug("request served",
			zap.String("op", "server.logRequests"),
			zap.String("requestId", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
