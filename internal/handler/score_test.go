package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leaderboard-backend/internal/service"
)

const testAuthToken = "abcd"

func submitScore(t *testing.T, h *ScoreHandler, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/backend/submit_score", strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	rec := httptest.NewRecorder()
	h.SubmitScore(rec, req)
	return rec
}

func newScoreFixture() (*ScoreHandler, *memLedger) {
	ledger := newMemLedger()
	return NewScoreHandler(service.NewScoreService(ledger), testAuthToken), ledger
}

func TestSubmitScoreSuccess(t *testing.T) {
	h, ledger := newScoreFixture()

	rec := submitScore(t, h, testAuthToken, `{"score": 1337, "color": "#ff00aa"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	id, err := uuid.Parse(resp["id"])
	require.NoError(t, err)

	stored, ok := ledger.unclaimed[id]
	require.True(t, ok, "score must be in the unclaimed pool")
	assert.Equal(t, 1337, stored.Score)
	assert.Equal(t, "#ff00aa", stored.Color)
}

func TestSubmitScoreFreshIDs(t *testing.T) {
	h, _ := newScoreFixture()

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		rec := submitScore(t, h, testAuthToken, `{"score": 1, "color": "#000000"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, seen[resp["id"]], "id %s issued twice", resp["id"])
		seen[resp["id"]] = true
	}
}

func TestSubmitScoreMissingToken(t *testing.T) {
	h, ledger := newScoreFixture()

	rec := submitScore(t, h, "", `{"score": 1, "color": "#000000"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, ledger.unclaimed)
}

func TestSubmitScoreWrongToken(t *testing.T) {
	h, ledger := newScoreFixture()

	rec := submitScore(t, h, "wrong", `{"score": 1, "color": "#000000"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, ledger.unclaimed)
}

func TestSubmitScoreNegative(t *testing.T) {
	h, ledger := newScoreFixture()

	rec := submitScore(t, h, testAuthToken, `{"score": -5, "color": "#000000"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid score")
	assert.Empty(t, ledger.unclaimed)
}

func TestSubmitScoreMalformedColor(t *testing.T) {
	colors := []string{
		"",         // empty
		"ff00aa",   // missing #
		"#ff00a",   // too short
		"#ff00aab", // too long
		"#ff00ag",  // non-hex digit
		"0ff00aa",  // # not leading
		"#ff 0aa",  // whitespace
	}

	for _, color := range colors {
		t.Run(color, func(t *testing.T) {
			h, ledger := newScoreFixture()

			body, _ := json.Marshal(map[string]any{"score": 1, "color": color})
			rec := submitScore(t, h, testAuthToken, string(body))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "Malformed color")
			assert.Empty(t, ledger.unclaimed, "no score may be created for color %q", color)
		})
	}
}

func TestSubmitScoreMalformedJSON(t *testing.T) {
	h, ledger := newScoreFixture()

	rec := submitScore(t, h, testAuthToken, `{"score": `)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, ledger.unclaimed)
}
