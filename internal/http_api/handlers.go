package http_api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/backlot-social/backlot/internal/models"
	"github.com/backlot-social/backlot/pkg/validation"
)

// VoteTransactionRequest represents the JSON body for building a vote transaction
type VoteTransactionRequest struct {
	PollID        string `json:"pollId" binding:"required"`
	OptionID      string `json:"optionId" binding:"required"`
	WalletAddress string `json:"walletAddress" binding:"required"`
}

// VerifyVoteRequest represents the JSON body for verifying a submitted vote
type VerifyVoteRequest struct {
	PollID      string `json:"pollId" binding:"required"`
	OptionID    string `json:"optionId" binding:"required"`
	TxSignature string `json:"txSignature" binding:"required"`
}

// FundingRequest represents the JSON body for building a funding transaction
type FundingRequest struct {
	MilestoneID   string  `json:"milestoneId" binding:"required"`
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	WalletAddress string  `json:"walletAddress" binding:"required"`
}

// ConfirmFundingRequest represents the JSON body for confirming a funding transfer
type ConfirmFundingRequest struct {
	MilestoneID   string  `json:"milestoneId" binding:"required"`
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	WalletAddress string  `json:"walletAddress" binding:"required"`
	TxSignature   string  `json:"txSignature" binding:"required"`
}

// ChatRequest represents the JSON body for posting a chat message
type ChatRequest struct {
	WalletAddress string `json:"walletAddress" binding:"required"`
	Message       string `json:"message" binding:"required"`
}

// verifyErrorStatus maps a verification failure code to an HTTP status.
// Duplicates are conflicts, missing resources are 404s, everything else the
// client sent wrong is a 400.
func verifyErrorStatus(code string) int {
	switch code {
	case models.CodeDuplicateVote, models.CodeDuplicateContribution:
		return http.StatusConflict
	case models.CodeNotFound, models.CodeTxNotFound:
		return http.StatusNotFound
	case models.CodeTierRequired:
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}

// respondError writes a verification failure or a generic 500. Internal
// errors never leak details to the client.
func (s *HTTPServer) respondError(c *gin.Context, err error) {
	if ve, ok := models.AsVerifyError(err); ok {
		c.JSON(verifyErrorStatus(ve.Code), gin.H{
			"success": false,
			"code":    ve.Code,
			"error":   ve.Message,
		})
		return
	}
	s.logger.Error("Internal error ", "path ", c.FullPath(), "error ", err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error":   "Internal server error",
	})
}

// getTier is a handler for the /tier endpoint.
func (s *HTTPServer) getTier(c *gin.Context) {
	wallet := c.Query("wallet")
	if err := validation.ValidateAddress(wallet); err != nil {
		s.logger.Debug("Invalid wallet address", "error", err, "address", wallet)
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid wallet address: " + err.Error(),
		})
		return
	}

	info := s.backlot.ResolveTier(c.Request.Context(), wallet)
	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"wallet":            wallet,
		"balance":           info.Balance,
		"tier":              info.Tier,
		"holdingMultiplier": info.HoldingMultiplier,
		"votingPower":       info.VotingPower(),
	})
}

// listPolls is a handler for the /polls endpoint.
func (s *HTTPServer) listPolls(c *gin.Context) {
	polls, err := s.backlot.ListPolls(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "polls": polls})
}

// getPoll is a handler for the /polls/:id endpoint.
func (s *HTTPServer) getPoll(c *gin.Context) {
	poll, err := s.backlot.GetPoll(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "poll": poll})
}

// buildVoteTransaction is a handler for the /vote/transaction endpoint.
func (s *HTTPServer) buildVoteTransaction(c *gin.Context) {
	var req VoteTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.logger.Debug("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body: " + err.Error(),
		})
		return
	}

	serialized, err := s.backlot.BuildVoteTransaction(c.Request.Context(), req.PollID, req.OptionID, req.WalletAddress)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "transaction": serialized})
}

// verifyVote is a handler for the /vote endpoint.
func (s *HTTPServer) verifyVote(c *gin.Context) {
	var req VerifyVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.logger.Debug("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body: " + err.Error(),
		})
		return
	}

	vote, err := s.backlot.VerifyAndRecordVote(c.Request.Context(), req.PollID, req.OptionID, req.TxSignature)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "vote": vote})
}

// getLeaderboard is a handler for the /leaderboard endpoint.
func (s *HTTPServer) getLeaderboard(c *gin.Context) {
	wallet := c.Query("wallet")
	if wallet != "" {
		if err := validation.ValidateAddress(wallet); err != nil {
			s.logger.Debug("Invalid wallet address", "error", err, "address", wallet)
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Invalid wallet address: " + err.Error(),
			})
			return
		}
	}

	result, err := s.backlot.Leaderboard(c.Request.Context(), wallet)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"leaderboard": result.Entries,
		"myRank":      result.MyRank,
	})
}

// listMilestones is a handler for the /milestones endpoint.
func (s *HTTPServer) listMilestones(c *gin.Context) {
	milestones, err := s.backlot.ListMilestones(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "milestones": milestones})
}

// buildFundingTransaction is a handler for the /fund-milestone endpoint.
func (s *HTTPServer) buildFundingTransaction(c *gin.Context) {
	var req FundingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.logger.Debug("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body: " + err.Error(),
		})
		return
	}

	serialized, err := s.backlot.BuildFundingTransaction(c.Request.Context(), req.MilestoneID, req.Amount, req.WalletAddress)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "transaction": serialized})
}

// confirmFunding is a handler for the /fund-milestone/confirm endpoint.
func (s *HTTPServer) confirmFunding(c *gin.Context) {
	var req ConfirmFundingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.logger.Debug("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body: " + err.Error(),
		})
		return
	}

	err := s.backlot.VerifyAndRecordFunding(c.Request.Context(), req.MilestoneID, req.Amount, req.WalletAddress, req.TxSignature)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Contribution recorded",
	})
}

// listChatMessages is a handler for the GET /chat endpoint.
func (s *HTTPServer) listChatMessages(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 200 {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Invalid limit",
			})
			return
		}
		limit = parsed
	}

	messages, err := s.backlot.ListChatMessages(c.Request.Context(), limit)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "messages": messages})
}

// postChatMessage is a handler for the POST /chat endpoint.
func (s *HTTPServer) postChatMessage(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.logger.Debug("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body: " + err.Error(),
		})
		return
	}

	msg, err := s.backlot.PostChatMessage(c.Request.Context(), req.WalletAddress, req.Message)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": msg})
}

// listEpisodes is a handler for the /episodes endpoint.
func (s *HTTPServer) listEpisodes(c *gin.Context) {
	episodes, err := s.backlot.ListEpisodes(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "episodes": episodes})
}

// listBackstagePosts is a handler for the /backstage endpoint.
func (s *HTTPServer) listBackstagePosts(c *gin.Context) {
	posts, err := s.backlot.ListBackstagePosts(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "posts": posts})
}

// getTokenStats is a handler for the /token-stats endpoint.
func (s *HTTPServer) getTokenStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.indexer.TokenStats(c.Request.Context()))
}

// getTreasury is a handler for the /treasury endpoint.
func (s *HTTPServer) getTreasury(c *gin.Context) {
	overview, err := s.indexer.Treasury(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}
