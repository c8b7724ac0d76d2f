package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/dfs-lineups/internal/ingest"
	"github.com/stitts-dev/dfs-lineups/internal/lineup"
	"github.com/stitts-dev/dfs-lineups/internal/models"
	"github.com/stitts-dev/dfs-lineups/internal/services"
	"github.com/stitts-dev/dfs-lineups/pkg/utils"
)

// SlateStore is the slate persistence the handlers rely on.
type SlateStore interface {
	Import(ctx context.Context, slate string, players []lineup.Player) error
	Load(ctx context.Context, slate string, rules lineup.Rules) ([]lineup.Player, error)
	List(ctx context.Context) ([]models.SlateSummary, error)
}

// LineupHandler serves lineup searches and slate management
type LineupHandler struct {
	slates   SlateStore
	rules    lineup.Rules
	defaults lineup.Options
	logger   *logrus.Logger
}

// NewLineupHandler creates a lineup handler searching under rules with the
// given default options. Requests may override individual settings.
func NewLineupHandler(slates SlateStore, rules lineup.Rules, defaults lineup.Options, logger *logrus.Logger) *LineupHandler {
	return &LineupHandler{
		slates:   slates,
		rules:    rules,
		defaults: defaults,
		logger:   logger,
	}
}

// SearchRequest is the body of a lineup search. Exactly one of Players and
// Slate names the pool; every other field overrides a server default.
// TimeoutMs can only shorten the server's search timeout.
type SearchRequest struct {
	Players          []ingest.Row `json:"players" binding:"omitempty,dive"`
	Slate            string       `json:"slate"`
	Policy           string       `json:"policy"`
	Strategy         string       `json:"strategy"`
	SalaryCap        *int         `json:"salary_cap" binding:"omitempty,gt=0"`
	MinAverageSalary *int         `json:"min_average_salary" binding:"omitempty,gte=0"`
	MaxLineups       *int         `json:"max_lineups" binding:"omitempty,gte=0"`
	TimeoutMs        *int64       `json:"timeout_ms" binding:"omitempty,gte=0"`
	NodeBudget       *int64       `json:"node_budget" binding:"omitempty,gte=0"`
	Dedup            *bool        `json:"dedup"`
}

// ImportRequest is the JSON body of a slate import.
type ImportRequest struct {
	Players []ingest.Row `json:"players" binding:"required,min=1,dive"`
}

// SearchLineups runs a lineup search over an inline or stored pool
func (h *LineupHandler) SearchLineups(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request format", err.Error())
		return
	}

	hasPlayers := len(req.Players) > 0
	hasSlate := strings.TrimSpace(req.Slate) != ""
	if hasPlayers == hasSlate {
		utils.SendValidationError(c, "Invalid request format", "provide either players or slate")
		return
	}

	rules := h.rules
	if req.SalaryCap != nil {
		rules.SalaryCap = *req.SalaryCap
	}
	if req.MinAverageSalary != nil {
		rules.MinAverageSalary = *req.MinAverageSalary
	}
	if err := rules.Validate(); err != nil {
		utils.SendValidationError(c, "Invalid contest rules", err.Error())
		return
	}

	opts, err := h.searchOptions(req)
	if err != nil {
		utils.SendValidationError(c, "Invalid search options", err.Error())
		return
	}

	var players []lineup.Player
	if hasPlayers {
		players, err = ingest.Players(req.Players, rules)
	} else {
		players, err = h.slates.Load(c.Request.Context(), req.Slate, rules)
	}
	if err != nil {
		h.sendPoolError(c, err)
		return
	}

	engine, err := lineup.NewEngine(rules, opts, h.logger)
	if err != nil {
		utils.SendValidationError(c, "Invalid search options", err.Error())
		return
	}

	result, err := engine.Search(c.Request.Context(), players)
	if err != nil {
		if errors.Is(err, lineup.ErrDuplicatePlayerID) {
			utils.SendError(c, http.StatusBadRequest, utils.NewAppError(utils.ErrCodeInvalidPlayer, "Invalid player pool", err.Error()))
			return
		}
		h.logger.WithError(err).Error("Lineup search failed")
		utils.SendError(c, http.StatusInternalServerError, utils.NewAppError(utils.ErrCodeSearch, "Lineup search failed", err.Error()))
		return
	}

	utils.SendSuccessWithMeta(c, result, &utils.Meta{
		Total:     result.Summary.Count,
		Returned:  len(result.Lineups),
		Truncated: result.Truncated,
		ElapsedMs: result.ElapsedMs,
	})
}

// ImportSlate stores a player pool under the slate name. The body is either
// JSON rows or a CSV export sent as text/csv.
func (h *LineupHandler) ImportSlate(c *gin.Context) {
	slate := c.Param("slate")

	var players []lineup.Player
	var err error
	if strings.HasPrefix(c.ContentType(), "text/csv") {
		players, err = ingest.ReadPlayers(c.Request.Body, h.rules)
	} else {
		var req ImportRequest
		if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
			utils.SendValidationError(c, "Invalid request format", bindErr.Error())
			return
		}
		players, err = ingest.Players(req.Players, h.rules)
	}
	if err != nil {
		h.sendPoolError(c, err)
		return
	}

	if err := h.slates.Import(c.Request.Context(), slate, players); err != nil {
		if errors.Is(err, services.ErrInvalidSlateName) {
			utils.SendValidationError(c, "Invalid slate name", err.Error())
			return
		}
		h.logger.WithError(err).WithField("slate", slate).Error("Failed to import slate")
		utils.SendInternalError(c, "Failed to import slate")
		return
	}

	utils.SendCreated(c, gin.H{
		"slate":   slate,
		"players": len(players),
	})
}

// ListSlates returns every stored slate
func (h *LineupHandler) ListSlates(c *gin.Context) {
	summaries, err := h.slates.List(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list slates")
		utils.SendInternalError(c, "Failed to list slates")
		return
	}
	if summaries == nil {
		summaries = []models.SlateSummary{}
	}

	utils.SendSuccessWithMeta(c, summaries, &utils.Meta{
		Total:    len(summaries),
		Returned: len(summaries),
	})
}

// GetSlateValues returns the value report for a stored slate
func (h *LineupHandler) GetSlateValues(c *gin.Context) {
	players, err := h.slates.Load(c.Request.Context(), c.Param("slate"), h.rules)
	if err != nil {
		h.sendPoolError(c, err)
		return
	}

	report := lineup.ValueReport(players)
	utils.SendSuccessWithMeta(c, report, &utils.Meta{
		Total:    len(report),
		Returned: len(report),
	})
}

func (h *LineupHandler) searchOptions(req SearchRequest) (lineup.Options, error) {
	opts := h.defaults
	opts.Progress = nil

	if req.Policy != "" {
		policy, err := lineup.ParsePolicy(req.Policy)
		if err != nil {
			return lineup.Options{}, err
		}
		opts.Policy = policy
	}
	if req.Strategy != "" {
		strategy, err := lineup.ParseStrategy(req.Strategy)
		if err != nil {
			return lineup.Options{}, err
		}
		opts.Strategy = strategy
	}
	if req.MaxLineups != nil {
		opts.MaxLineups = *req.MaxLineups
	}
	// The server timeout is a ceiling; zero keeps it.
	if req.TimeoutMs != nil && *req.TimeoutMs > 0 {
		timeout := time.Duration(*req.TimeoutMs) * time.Millisecond
		if h.defaults.Timeout > 0 && timeout > h.defaults.Timeout {
			timeout = h.defaults.Timeout
		}
		opts.Timeout = timeout
	}
	if req.NodeBudget != nil {
		opts.NodeBudget = *req.NodeBudget
	}
	if req.Dedup != nil {
		opts.Dedup = *req.Dedup
	}
	return opts, nil
}

// sendPoolError maps failures building a player pool to a response.
func (h *LineupHandler) sendPoolError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrSlateNotFound):
		utils.SendNotFound(c, err.Error())
	case errors.Is(err, ingest.ErrMalformedRow),
		errors.Is(err, lineup.ErrInvalidProjection),
		errors.Is(err, lineup.ErrNegativeCost),
		errors.Is(err, lineup.ErrUnknownRole):
		utils.SendError(c, http.StatusBadRequest, utils.NewAppError(utils.ErrCodeInvalidPlayer, "Invalid player pool", err.Error()))
	default:
		h.logger.WithError(err).Error("Failed to build player pool")
		utils.SendInternalError(c, "Failed to load player pool")
	}
}
