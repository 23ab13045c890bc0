package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/finsight/advisor-portal/internal/cache"
	"github.com/finsight/advisor-portal/internal/common"
	"github.com/finsight/advisor-portal/internal/models"
	"github.com/finsight/advisor-portal/internal/ranking"
	"github.com/finsight/advisor-portal/internal/session"
)

// RankingsHandler serves the filtered, sorted, paginated investment table.
type RankingsHandler struct {
	logger    *common.Logger
	session   *session.AgentSession
	viewCache *cache.ViewCache
}

// NewRankingsHandler creates a new rankings handler. The cache is cleared by
// the session's publish hook whenever a new analysis result lands.
func NewRankingsHandler(logger *common.Logger, sess *session.AgentSession, viewCache *cache.ViewCache) *RankingsHandler {
	h := &RankingsHandler{logger: logger, session: sess, viewCache: viewCache}
	if viewCache != nil {
		sess.OnPublish(viewCache.Clear)
	}
	return h
}

// rankedInvestment is one table row: the investment plus its display
// percents and normalized recommendation category.
type rankedInvestment struct {
	models.Investment
	RecommendationCategory string         `json:"recommendation_category"`
	PillarPercents         pillarPercents `json:"pillar_percents"`
}

type pillarPercents struct {
	HistoricalReturns   float64 `json:"historical_returns"`
	RiskAdjustedReturns float64 `json:"risk_adjusted_returns"`
	Fundamentals        float64 `json:"fundamentals"`
	Dividends           float64 `json:"dividends"`
	Overall             float64 `json:"overall"`
}

type rankingsResponse struct {
	Status      string             `json:"status"`
	Investments []rankedInvestment `json:"investments"`
	Page        int                `json:"page"`
	PageSize    int                `json:"page_size"`
	TotalPages  int                `json:"total_pages"`
	Total       int                `json:"total"`
}

// ServeHTTP handles GET /api/rankings. Query parameters override the
// session's current view state and become the new current state:
// markets, asset_types (comma-separated), sort, dir, page, page_size.
func (h *RankingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	filter, sortState, pageState, err := h.parseViewQuery(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.session.SetViewState(filter, sortState, pageState)

	key := cache.MakeKey(filter.Markets, filter.AssetTypes,
		sortState.FieldPath, sortState.Descending, pageState.Page, pageState.PageSize)
	if h.viewCache != nil {
		if body, ok := h.viewCache.Get(key); ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write(body)
			return
		}
	}

	page, err := h.session.View()
	if errors.Is(err, session.ErrNoAnalysis) {
		WriteError(w, http.StatusNotFound, "no analysis result available yet")
		return
	}

	resp := rankingsResponse{
		Status:      "ok",
		Investments: make([]rankedInvestment, 0, len(page.Items)),
		Page:        page.Page,
		PageSize:    pageState.PageSize,
		TotalPages:  page.TotalPages,
		Total:       page.Total,
	}
	for _, inv := range page.Items {
		resp.Investments = append(resp.Investments, rankedInvestment{
			Investment:             inv,
			RecommendationCategory: models.NormalizeRecommendation(inv.Recommendation),
			PillarPercents: pillarPercents{
				HistoricalReturns:   ranking.ScoreToPercent(inv.Pillars.HistoricalReturns),
				RiskAdjustedReturns: ranking.ScoreToPercent(inv.Pillars.RiskAdjustedReturns),
				Fundamentals:        ranking.ScoreToPercent(inv.Pillars.Fundamentals),
				Dividends:           ranking.ScoreToPercent(inv.Pillars.Dividends),
				Overall:             ranking.ScoreToPercent(inv.Pillars.Overall),
			},
		})
	}

	body, err := json.Marshal(resp)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to encode rankings response")
		WriteError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if h.viewCache != nil {
		h.viewCache.Set(key, body)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// parseViewQuery merges query parameters over the session's current view state.
func (h *RankingsHandler) parseViewQuery(r *http.Request) (ranking.FilterState, ranking.SortState, ranking.PageState, error) {
	filter, sortState, pageState := h.session.ViewState()
	q := r.URL.Query()

	if q.Has("markets") || q.Has("asset_types") {
		parsed, err := ranking.NewFilterState(splitParam(q.Get("markets")), splitParam(q.Get("asset_types")), filter.RiskProfile)
		if err != nil {
			return filter, sortState, pageState, err
		}
		filter = parsed
	}

	if sortPath := q.Get("sort"); sortPath != "" {
		if !isKnownSortPath(sortPath) {
			return filter, sortState, pageState, errors.New("unknown sort field: " + sortPath)
		}
		sortState.FieldPath = sortPath
	}
	if dir := q.Get("dir"); dir != "" {
		switch strings.ToLower(dir) {
		case "asc":
			sortState.Descending = false
		case "desc":
			sortState.Descending = true
		default:
			return filter, sortState, pageState, errors.New("dir must be asc or desc")
		}
	}

	var err error
	if pageState.Page, err = intParam(q.Get("page"), pageState.Page); err != nil {
		return filter, sortState, pageState, errors.New("page must be an integer")
	}
	if pageState.PageSize, err = intParam(q.Get("page_size"), pageState.PageSize); err != nil {
		return filter, sortState, pageState, errors.New("page_size must be an integer")
	}
	if pageState.PageSize < 1 {
		pageState.PageSize = ranking.DefaultPageSize
	}
	if pageState.Page < 1 {
		pageState.Page = 1
	}

	return filter, sortState, pageState, nil
}

func splitParam(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func intParam(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func isKnownSortPath(path string) bool {
	for _, p := range ranking.KnownSortPaths() {
		if p == path {
			return true
		}
	}
	return false
}
