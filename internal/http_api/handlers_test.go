package http_api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/backlot-social/backlot/internal/config"
	"github.com/backlot-social/backlot/internal/models"
	"github.com/backlot-social/backlot/pkg/logger"
)

const testWallet = "DSL6XbjPfhXjD9YYhzxo5Dv2VRt7VSeXRkTefEu5pump"
const testSig = "5VERv8NMvzbJMEkV8xnrLkEaWRtSz9CosKDYjCJjBRnbJLgp8uirBgmQpjKhoR4tjF3ZpRzrFmBV6UjKdiSZkQUW"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

// stubBacklot overrides only what each test exercises; everything else
// panics if touched.
type stubBacklot struct {
	models.BacklotI

	tierInfo *models.TierInfo
	poll     *models.Poll
	vote     *models.Vote
	voteErr  error
}

func (s *stubBacklot) ResolveTier(ctx context.Context, wallet string) *models.TierInfo {
	return s.tierInfo
}

func (s *stubBacklot) GetPoll(ctx context.Context, id string) (*models.Poll, error) {
	if s.poll == nil || s.poll.ID != id {
		return nil, models.NewVerifyError(models.CodeNotFound, "Poll not found")
	}
	return s.poll, nil
}

func (s *stubBacklot) VerifyAndRecordVote(ctx context.Context, pollID, optionID, txSignature string) (*models.Vote, error) {
	if s.voteErr != nil {
		return nil, s.voteErr
	}
	return s.vote, nil
}

type stubIndexer struct {
	stats *models.TokenStats
}

func (s *stubIndexer) TokenStats(ctx context.Context) *models.TokenStats { return s.stats }

func (s *stubIndexer) Treasury(ctx context.Context) (*models.TreasuryOverview, error) {
	return &models.TreasuryOverview{}, nil
}

func newTestServer(backlot models.BacklotI, indexer models.IndexerService) *HTTPServer {
	cfg := &config.Config{
		SiteURL:      "https://www.backlotsocial.xyz",
		SolanaRPCURL: "http://localhost:8899",
		Development:  true,
	}
	router := gin.New()
	server := &HTTPServer{
		logger:  logger.NewNopLogger(),
		config:  cfg,
		router:  router,
		backlot: backlot,
		indexer: indexer,
	}
	server.routes()
	return server
}

func perform(s *HTTPServer, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestGetTier(t *testing.T) {
	s := newTestServer(&stubBacklot{
		tierInfo: &models.TierInfo{Balance: 50000, Tier: models.TierProducer, HoldingMultiplier: 2},
	}, &stubIndexer{})

	w := perform(s, http.MethodGet, "/api/v1/tier?wallet="+testWallet, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "producer", resp["tier"])
	require.Equal(t, float64(100000), resp["votingPower"])
}

func TestGetTierRejectsBadWallet(t *testing.T) {
	s := newTestServer(&stubBacklot{}, &stubIndexer{})

	w := perform(s, http.MethodGet, "/api/v1/tier?wallet=nope", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVerifyVoteStatusMapping(t *testing.T) {
	pollID := uuid.NewString()
	optionID := uuid.NewString()
	body := `{"pollId":"` + pollID + `","optionId":"` + optionID + `","txSignature":"` + testSig + `"}`

	cases := []struct {
		err    error
		status int
	}{
		{models.NewVerifyError(models.CodeDuplicateVote, "Already voted on this poll"), http.StatusConflict},
		{models.NewVerifyError(models.CodeTxNotFound, "Transaction not found"), http.StatusNotFound},
		{models.NewVerifyError(models.CodeInsufficientTransfer, "Insufficient transfer"), http.StatusBadRequest},
		{models.NewVerifyError(models.CodeTierRequired, "Must hold tokens"), http.StatusForbidden},
	}
	for _, tc := range cases {
		s := newTestServer(&stubBacklot{voteErr: tc.err}, &stubIndexer{})
		w := perform(s, http.MethodPost, "/api/v1/vote", body)
		require.Equal(t, tc.status, w.Code, "error %v", tc.err)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Equal(t, false, resp["success"])
		require.NotEmpty(t, resp["code"])
	}
}

func TestVerifyVoteSuccess(t *testing.T) {
	pollID := uuid.NewString()
	optionID := uuid.NewString()
	s := newTestServer(&stubBacklot{
		vote: &models.Vote{ID: uuid.NewString(), PollID: pollID, Weight: 50000},
	}, &stubIndexer{})

	body := `{"pollId":"` + pollID + `","optionId":"` + optionID + `","txSignature":"` + testSig + `"}`
	w := perform(s, http.MethodPost, "/api/v1/vote", body)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestVerifyVoteRejectsMissingFields(t *testing.T) {
	s := newTestServer(&stubBacklot{}, &stubIndexer{})

	w := perform(s, http.MethodPost, "/api/v1/vote", `{"pollId":"x"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInternalErrorsDoNotLeak(t *testing.T) {
	pollID := uuid.NewString()
	s := newTestServer(&stubBacklot{voteErr: context.DeadlineExceeded}, &stubIndexer{})

	body := `{"pollId":"` + pollID + `","optionId":"` + uuid.NewString() + `","txSignature":"` + testSig + `"}`
	w := perform(s, http.MethodPost, "/api/v1/vote", body)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotContains(t, w.Body.String(), "deadline")
}

func TestTokenStats(t *testing.T) {
	s := newTestServer(&stubBacklot{}, &stubIndexer{
		stats: &models.TokenStats{Price: 0.0042, Holders: 1234},
	})

	w := perform(s, http.MethodGet, "/api/v1/token-stats", "")
	require.Equal(t, http.StatusOK, w.Code)

	var stats models.TokenStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	require.Equal(t, 0.0042, stats.Price)
	require.Equal(t, 1234, stats.Holders)
}

func TestProxyRPCRejectsUnlistedMethod(t *testing.T) {
	s := newTestServer(&stubBacklot{}, &stubIndexer{})

	w := perform(s, http.MethodPost, "/api/v1/rpc", `{"jsonrpc":"2.0","id":1,"method":"requestAirdrop"}`)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetVoteActionListsOptions(t *testing.T) {
	pollID := uuid.NewString()
	s := newTestServer(&stubBacklot{
		poll: &models.Poll{
			ID:    pollID,
			Title: "Which scene do we shoot next?",
			Options: []models.PollOption{
				{ID: uuid.NewString(), PollID: pollID, Label: "The rooftop chase"},
				{ID: uuid.NewString(), PollID: pollID, Label: "The diner standoff"},
			},
		},
	}, &stubIndexer{})

	w := perform(s, http.MethodGet, "/api/v1/actions/vote?poll="+pollID, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, w.Header().Get("X-Action-Version"))

	var resp ActionGetResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "Which scene do we shoot next?", resp.Title)
	require.Len(t, resp.Links.Actions, 2)
	require.Contains(t, resp.Links.Actions[0].Href, pollID)
}
