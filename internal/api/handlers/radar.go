package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/vsantana/radarbdr/internal/contracts"
	"github.com/vsantana/radarbdr/internal/history"
	"github.com/vsantana/radarbdr/internal/scanner"
	"github.com/vsantana/radarbdr/internal/universe"
	"github.com/vsantana/radarbdr/pkg/logger"
)

// ScanRunner executes one scan pass
type ScanRunner interface {
	Run(ctx context.Context, cfg contracts.ScanConfig) *contracts.ScanResult
}

// ScanArchive persists and serves past scans
type ScanArchive interface {
	SaveScan(ctx context.Context, result *contracts.ScanResult) (int64, error)
	LatestSignals(ctx context.Context) ([]contracts.Signal, time.Time, error)
	RecentScans(ctx context.Context, limit int) ([]history.ScanRecord, error)
}

// Broadcaster pushes completed scans to live subscribers
type Broadcaster interface {
	Broadcast(result *contracts.ScanResult)
}

// RadarHandler handles the scan API endpoints
type RadarHandler struct {
	runner   ScanRunner
	catalog  scanner.CatalogSource
	resolver *universe.Resolver
	archive  ScanArchive // nil when no database is configured
	hub      Broadcaster
	defaults contracts.ScanConfig
	logger   *logger.Logger
}

// NewRadarHandler creates a new radar handler
func NewRadarHandler(
	runner ScanRunner,
	catalog scanner.CatalogSource,
	archive ScanArchive,
	hub Broadcaster,
	defaults contracts.ScanConfig,
	log *logger.Logger,
) *RadarHandler {
	return &RadarHandler{
		runner:   runner,
		catalog:  catalog,
		resolver: universe.NewResolver(log),
		archive:  archive,
		hub:      hub,
		defaults: defaults,
		logger:   log,
	}
}

// UniverseEntry is one resolved BDR in the API response
type UniverseEntry struct {
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
}

// GetUniverse returns the resolved BDR universe
// GET /api/universe
func (h *RadarHandler) GetUniverse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	catalog, err := h.catalog.FetchQuoteList(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch catalog")
		respondError(w, http.StatusServiceUnavailable, "Catalog source unavailable")
		return
	}

	tickers, names := h.resolver.Resolve(catalog)
	entries := make([]UniverseEntry, 0, len(tickers))
	for _, ticker := range tickers {
		entries = append(entries, UniverseEntry{Ticker: ticker, Name: names[ticker]})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(entries),
		"tickers": entries,
	})
}

// ScanRequest carries optional overrides of the configured scan criteria
type ScanRequest struct {
	DeclineThreshold *float64 `json:"decline_threshold"`
	RequireBollinger *bool    `json:"require_bollinger"`
	EnableFibonacci  *bool    `json:"enable_fibonacci"`
	EnableDonchian   *bool    `json:"enable_donchian"`
}

// Scan runs a full pipeline pass synchronously
// POST /api/scan
func (h *RadarHandler) Scan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cfg := h.defaults
	if r.Body != nil && r.ContentLength != 0 {
		var req ScanRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.DeclineThreshold != nil {
			if *req.DeclineThreshold > 0 {
				respondError(w, http.StatusBadRequest, "decline_threshold must be negative or zero")
				return
			}
			cfg.DeclineThreshold = *req.DeclineThreshold
		}
		if req.RequireBollinger != nil {
			cfg.RequireBollinger = *req.RequireBollinger
		}
		if req.EnableFibonacci != nil {
			cfg.EnableFibonacci = *req.EnableFibonacci
		}
		if req.EnableDonchian != nil {
			cfg.EnableDonchian = *req.EnableDonchian
		}
	}

	result := h.runner.Run(ctx, cfg)

	if h.archive != nil {
		if _, err := h.archive.SaveScan(ctx, result); err != nil {
			h.logger.WithError(err).Warn("Failed to archive scan")
		}
	}
	if h.hub != nil {
		h.hub.Broadcast(result)
	}

	status := http.StatusOK
	if result.ProviderDown {
		status = http.StatusBadGateway
	}
	respondJSON(w, status, result)
}

// LatestSignals returns the signal list of the most recent archived scan
// GET /api/signals/latest
func (h *RadarHandler) LatestSignals(w http.ResponseWriter, r *http.Request) {
	if h.archive == nil {
		respondError(w, http.StatusNotImplemented, "Scan archive is not configured")
		return
	}

	signals, at, err := h.archive.LatestSignals(r.Context())
	if errors.Is(err, history.ErrNoScans) {
		respondError(w, http.StatusNotFound, "No scans archived yet")
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to get latest signals")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve signals")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"at":      at,
		"count":   len(signals),
		"signals": signals,
	})
}

// RecentScans lists archived scan summaries, newest first
// GET /api/scans/recent?limit=20
func (h *RadarHandler) RecentScans(w http.ResponseWriter, r *http.Request) {
	if h.archive == nil {
		respondError(w, http.StatusNotImplemented, "Scan archive is not configured")
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 500 {
			respondError(w, http.StatusBadRequest, "limit must be between 1 and 500")
			return
		}
		limit = parsed
	}

	records, err := h.archive.RecentScans(r.Context(), limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list scans")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve scans")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(records),
		"scans": records,
	})
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
