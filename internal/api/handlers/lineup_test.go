package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/dfs-lineups/internal/ingest"
	"github.com/stitts-dev/dfs-lineups/internal/lineup"
	"github.com/stitts-dev/dfs-lineups/internal/services"
	"github.com/stitts-dev/dfs-lineups/pkg/database"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details string `json:"details"`
	} `json:"error"`
	Meta *struct {
		Total     int   `json:"total"`
		Returned  int   `json:"returned"`
		Truncated bool  `json:"truncated"`
		ElapsedMs int64 `json:"elapsed_ms"`
	} `json:"meta"`
}

type testServer struct {
	router *gin.Engine
	db     *database.DB
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func setupServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewConnection(filepath.Join(t.TempDir(), "slates.db"), false)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := quietLogger()
	opts := lineup.DefaultOptions()
	opts.Workers = 2
	handler := NewLineupHandler(services.NewSlateService(db, log), lineup.DraftKingsNBA(), opts, log)

	router := gin.New()
	router.POST("/api/v1/lineups/search", handler.SearchLineups)
	router.GET("/api/v1/slates", handler.ListSlates)
	router.POST("/api/v1/slates/:slate", handler.ImportSlate)
	router.GET("/api/v1/slates/:slate/values", handler.GetSlateValues)

	return &testServer{router: router, db: db}
}

func (s *testServer) do(t *testing.T, method, path, contentType string, body io.Reader) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func (s *testServer) postJSON(t *testing.T, path string, payload interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return s.do(t, http.MethodPost, path, "application/json", bytes.NewReader(body))
}

// onePerSlotRows gives exactly one valid DraftKings lineup.
func onePerSlotRows() []ingest.Row {
	roles := []string{"PG", "SG", "SF", "PF", "C", "PG", "SF", "C"}
	rows := make([]ingest.Row, len(roles))
	for i, role := range roles {
		rows[i] = ingest.Row{
			Position:  role,
			Name:      fmt.Sprintf("%s Player %d", role, i+1),
			Salary:    5000,
			Game:      "Game1",
			AvgPoints: float64(20 + i),
		}
	}
	return rows
}

func TestSearchLineups_InlinePlayers(t *testing.T) {
	s := setupServer(t)

	w, env := s.postJSON(t, "/api/v1/lineups/search", gin.H{"players": onePerSlotRows()})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, env.Success)

	var result lineup.Result
	require.NoError(t, json.Unmarshal(env.Data, &result))
	require.Len(t, result.Lineups, 1)
	assert.Equal(t, "1,2,3,4,5,6,7,8", result.Lineups[0].Key)
	assert.Equal(t, 40000, result.Lineups[0].TotalSalary)
	assert.Equal(t, lineup.StrategyIndexed, result.Strategy)
	assert.Equal(t, lineup.PolicyStrict, result.Policy)
	assert.NotEmpty(t, result.SearchID)

	require.NotNil(t, env.Meta)
	assert.Equal(t, 1, env.Meta.Total)
	assert.Equal(t, 1, env.Meta.Returned)
}

func TestSearchLineups_Overrides(t *testing.T) {
	s := setupServer(t)

	// 40000 no longer fits once the cap drops to 39000.
	w, env := s.postJSON(t, "/api/v1/lineups/search", gin.H{
		"players":    onePerSlotRows(),
		"salary_cap": 39000,
		"policy":     "relaxed",
		"strategy":   "unindexed",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result lineup.Result
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Empty(t, result.Lineups)
	assert.Equal(t, lineup.StrategyUnindexed, result.Strategy)
	assert.Equal(t, lineup.PolicyRelaxed, result.Policy)
}

func TestSearchLineups_NodeBudgetTruncates(t *testing.T) {
	s := setupServer(t)

	w, env := s.postJSON(t, "/api/v1/lineups/search", gin.H{
		"players":     onePerSlotRows(),
		"strategy":    "unindexed",
		"node_budget": 3,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotNil(t, env.Meta)
	assert.True(t, env.Meta.Truncated)

	var result lineup.Result
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, lineup.StopNodeBudget, result.StopReason)
}

func TestSearchOptions_TimeoutCeiling(t *testing.T) {
	ms := func(v int64) *int64 { return &v }

	tests := []struct {
		name          string
		serverTimeout time.Duration
		timeoutMs     *int64
		want          time.Duration
	}{
		{"omitted keeps server timeout", 30 * time.Second, nil, 30 * time.Second},
		{"zero keeps server timeout", 30 * time.Second, ms(0), 30 * time.Second},
		{"shorter request wins", 30 * time.Second, ms(250), 250 * time.Millisecond},
		{"longer request is clamped", 30 * time.Second, ms(600000), 30 * time.Second},
		{"unlimited server accepts any request", 0, ms(600000), 10 * time.Minute},
		{"unlimited server with zero stays unlimited", 0, ms(0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defaults := lineup.DefaultOptions()
			defaults.Timeout = tt.serverTimeout
			h := NewLineupHandler(nil, lineup.DraftKingsNBA(), defaults, quietLogger())

			opts, err := h.searchOptions(SearchRequest{TimeoutMs: tt.timeoutMs})
			require.NoError(t, err)
			assert.Equal(t, tt.want, opts.Timeout)
		})
	}
}

func TestSearchLineups_FromSlate(t *testing.T) {
	s := setupServer(t)

	w, _ := s.postJSON(t, "/api/v1/slates/main", gin.H{"players": onePerSlotRows()})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, env := s.postJSON(t, "/api/v1/lineups/search", gin.H{"slate": "main"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result lineup.Result
	require.NoError(t, json.Unmarshal(env.Data, &result))
	require.Len(t, result.Lineups, 1)
	assert.Equal(t, "1,2,3,4,5,6,7,8", result.Lineups[0].Key)
}

func TestSearchLineups_Errors(t *testing.T) {
	s := setupServer(t)

	badRole := onePerSlotRows()
	badRole[0].Position = "QB"
	badPoints := onePerSlotRows()
	badPoints[3].AvgPoints = 0

	tests := []struct {
		name       string
		payload    interface{}
		wantStatus int
		wantCode   string
	}{
		{"neither players nor slate", gin.H{"policy": "strict"}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"both players and slate", gin.H{"players": onePerSlotRows(), "slate": "main"}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown policy", gin.H{"players": onePerSlotRows(), "policy": "lenient"}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown strategy", gin.H{"players": onePerSlotRows(), "strategy": "greedy"}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"negative timeout", gin.H{"players": onePerSlotRows(), "timeout_ms": -1}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"zero salary cap", gin.H{"players": onePerSlotRows(), "salary_cap": 0}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"missing position", gin.H{"players": []gin.H{{"name": "x", "salary": 1, "avg_points": 1}}}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown role", gin.H{"players": badRole}, http.StatusBadRequest, "INVALID_PLAYER"},
		{"zero projection", gin.H{"players": badPoints}, http.StatusBadRequest, "INVALID_PLAYER"},
		{"missing slate", gin.H{"slate": "nope"}, http.StatusNotFound, "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := s.postJSON(t, "/api/v1/lineups/search", tt.payload)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantCode, env.Error.Code)
		})
	}
}

func TestSearchLineups_MalformedJSON(t *testing.T) {
	s := setupServer(t)

	w, env := s.do(t, http.MethodPost, "/api/v1/lineups/search", "application/json", strings.NewReader("{"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestImportSlate_CSV(t *testing.T) {
	s := setupServer(t)

	csv := "Position,Name,Salary,GameInfo,AvgPointsPerGame\nPG,Alpha,4000,G1,20\nC,Bravo,5000,G1,30\n"
	w, env := s.do(t, http.MethodPost, "/api/v1/slates/early", "text/csv", strings.NewReader(csv))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Slate   string `json:"slate"`
		Players int    `json:"players"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "early", created.Slate)
	assert.Equal(t, 2, created.Players)

	w, env = s.do(t, http.MethodGet, "/api/v1/slates", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var slates []struct {
		Slate   string `json:"slate"`
		Players int    `json:"players"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &slates))
	require.Len(t, slates, 1)
	assert.Equal(t, "early", slates[0].Slate)
	assert.Equal(t, 2, slates[0].Players)
}

func TestImportSlate_Errors(t *testing.T) {
	s := setupServer(t)

	w, env := s.do(t, http.MethodPost, "/api/v1/slates/bad", "text/csv",
		strings.NewReader("Position,Name,Salary,GameInfo,AvgPointsPerGame\nPG,Alpha,lots,G1,20\n"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_PLAYER", env.Error.Code)

	w, env = s.postJSON(t, "/api/v1/slates/empty", gin.H{"players": []ingest.Row{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestListSlates_Empty(t *testing.T) {
	s := setupServer(t)

	w, env := s.do(t, http.MethodGet, "/api/v1/slates", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", string(env.Data))
}

func TestGetSlateValues(t *testing.T) {
	s := setupServer(t)

	rows := []ingest.Row{
		{Position: "PG", Name: "Pricey", Salary: 9000, Game: "G1", AvgPoints: 36},
		{Position: "C", Name: "Bargain", Salary: 4000, Game: "G1", AvgPoints: 25},
	}
	w, _ := s.postJSON(t, "/api/v1/slates/main", gin.H{"players": rows})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, env := s.do(t, http.MethodGet, "/api/v1/slates/main/values", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var report []lineup.PlayerValue
	require.NoError(t, json.Unmarshal(env.Data, &report))
	require.Len(t, report, 2)
	assert.Equal(t, "Bargain", report[0].Name)
	assert.Equal(t, 2, report[0].ID)
	assert.InDelta(t, 160.0, report[0].Value, 1e-9)
	assert.Equal(t, "Pricey", report[1].Name)

	w, env = s.do(t, http.MethodGet, "/api/v1/slates/missing/values", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}
