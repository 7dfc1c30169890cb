package api

import (
	"context"
	"errors"
	"time"

	models "NewsPull/internal/domain/models"
	domrepo "NewsPull/internal/domain/repository"
	"NewsPull/internal/usecase"
	"NewsPull/internal/watchlist"
	xhttp "NewsPull/pkg/http"
	xlogger "NewsPull/pkg/logger"
	"NewsPull/pkg/util"

	"github.com/labstack/echo/v4"
)

// ReportEchoHandler exposes the engine over HTTP: the latest cycle report,
// the watchlist, the scored-article archive, and a manual scan trigger.
type ReportEchoHandler struct {
	logger  *xlogger.Logger
	runner  *usecase.CycleRunner
	index   *watchlist.AliasIndex
	storage domrepo.Storage
}

func NewReportEchoHandler(logger *xlogger.Logger, runner *usecase.CycleRunner, index *watchlist.AliasIndex, storage domrepo.Storage) *ReportEchoHandler {
	return &ReportEchoHandler{logger: logger, runner: runner, index: index, storage: storage}
}

func (h *ReportEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/report", h.Report)
	g.GET("/watchlist", h.Watchlist)
	g.GET("/articles", h.Articles)
	g.POST("/scan", h.Scan)
}

// Report returns the latest completed cycle report.
func (h *ReportEchoHandler) Report(c echo.Context) error {
	r := h.runner.Latest()
	if r == nil {
		return xhttp.NotFoundResponse(c, "no completed scan cycle yet")
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=15")
	return xhttp.SuccessResponse(c, r)
}

type watchlistEntry struct {
	Symbol  string   `json:"symbol"`
	Name    string   `json:"name"`
	Aliases []string `json:"aliases"`
}

// Watchlist returns the configured tickers and aliases.
func (h *ReportEchoHandler) Watchlist(c echo.Context) error {
	entries := h.index.Entries()
	out := make([]watchlistEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, watchlistEntry{Symbol: e.Symbol, Name: e.CanonicalName, Aliases: e.Aliases})
	}
	return xhttp.ListResponse(c, out, int64(len(out)))
}

// Articles queries the scored-article archive.
func (h *ReportEchoHandler) Articles(c echo.Context) error {
	if h.storage == nil {
		return xhttp.AppErrorResponse(c, xhttp.UnavailableError("article archive not configured"))
	}
	req := &models.ArticlesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	now := time.Now()
	from := now.AddDate(0, 0, -7)
	to := now
	if req.From != "" {
		if t, ok := util.ParseTime(req.From); ok {
			from = t
		} else {
			return xhttp.BadRequestResponse(c, "invalid 'from' timestamp")
		}
	}
	if req.To != "" {
		if t, ok := util.ParseTime(req.To); ok {
			to = t
		} else {
			return xhttp.BadRequestResponse(c, "invalid 'to' timestamp")
		}
	}

	rows, err := h.storage.Query(c.Request().Context(), req.Symbol, from, to, req.Limit)
	if err != nil {
		h.logger.Error("archive query error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

// Scan triggers a cycle in the background. The cycle outlives the request,
// so it runs on a detached context.
func (h *ReportEchoHandler) Scan(c echo.Context) error {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		if _, err := h.runner.Run(ctx); err != nil && !errors.Is(err, usecase.ErrCycleInProgress) {
			h.logger.Error("manual scan failed", xlogger.Error(err))
		}
	}()
	return xhttp.AcceptedResponse(c, map[string]string{"status": "scan started"})
}

var _ xhttp.Handler = (*ReportEchoHandler)(nil)
