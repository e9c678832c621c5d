package http_api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/backlot-social/backlot/internal/models"
	"github.com/backlot-social/backlot/pkg/validation"
)

// Action-protocol wire types. These follow the Solana Actions shapes so
// wallets and blink renderers can unfurl vote links.

// ActionGetResponse describes the vote action and one button per poll option.
type ActionGetResponse struct {
	Icon        string      `json:"icon"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Label       string      `json:"label"`
	Links       ActionLinks `json:"links"`
}

type ActionLinks struct {
	Actions []ActionLink `json:"actions"`
}

type ActionLink struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	Href  string `json:"href"`
}

// ActionPostRequest carries the signing wallet.
type ActionPostRequest struct {
	Account string `json:"account" binding:"required"`
}

// ActionPostResponse returns the unsigned transaction plus a follow-up link
// the client calls with the signature once submitted.
type ActionPostResponse struct {
	Type        string          `json:"type"`
	Transaction string          `json:"transaction"`
	Message     string          `json:"message"`
	Links       *ActionNextLink `json:"links,omitempty"`
}

type ActionNextLink struct {
	Next ActionCallback `json:"next"`
}

type ActionCallback struct {
	Type string `json:"type"`
	Href string `json:"href"`
}

// ActionConfirmRequest carries the submitted transaction signature.
type ActionConfirmRequest struct {
	Signature string `json:"signature" binding:"required"`
	Account   string `json:"account"`
}

// setActionHeaders adds the headers the action protocol requires on every
// response, including errors.
func setActionHeaders(c *gin.Context) {
	c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
	c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept-Encoding, Authorization")
	c.Writer.Header().Set("X-Action-Version", "2.4")
	c.Writer.Header().Set("X-Blockchain-Ids", "solana:5eykt4UsFv8P8NJdTREpY1vzqKqZKvdp")
}

// actionsPreflight is a handler for OPTIONS on the action endpoints.
func (s *HTTPServer) actionsPreflight(c *gin.Context) {
	setActionHeaders(c)
	c.Status(http.StatusNoContent)
}

// getVoteAction is a handler for the GET /actions/vote endpoint.
func (s *HTTPServer) getVoteAction(c *gin.Context) {
	setActionHeaders(c)

	pollID := c.Query("poll")
	poll, err := s.backlot.GetPoll(c.Request.Context(), pollID)
	if err != nil {
		s.respondError(c, err)
		return
	}

	actions := make([]ActionLink, 0, len(poll.Options))
	for _, option := range poll.Options {
		actions = append(actions, ActionLink{
			Type:  "transaction",
			Label: option.Label,
			Href:  fmt.Sprintf("%s/api/v1/actions/vote?poll=%s&option=%s", s.config.SiteURL, poll.ID, option.ID),
		})
	}

	c.JSON(http.StatusOK, ActionGetResponse{
		Icon:        fmt.Sprintf("%s/images/vote-action.png", s.config.SiteURL),
		Title:       poll.Title,
		Description: poll.Description,
		Label:       "Vote",
		Links:       ActionLinks{Actions: actions},
	})
}

// postVoteAction is a handler for the POST /actions/vote endpoint.
func (s *HTTPServer) postVoteAction(c *gin.Context) {
	setActionHeaders(c)

	pollID := c.Query("poll")
	optionID := c.Query("option")

	var req ActionPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.logger.Debug("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	serialized, message, err := s.backlot.BuildActionVoteTransaction(c.Request.Context(), pollID, optionID, req.Account)
	if err != nil {
		if ve, ok := models.AsVerifyError(err); ok {
			c.JSON(verifyErrorStatus(ve.Code), gin.H{"message": ve.Message})
			return
		}
		s.logger.Error("Failed to build action transaction ", "poll ", pollID, "error ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, ActionPostResponse{
		Type:        "transaction",
		Transaction: serialized,
		Message:     message,
		Links: &ActionNextLink{
			Next: ActionCallback{
				Type: "post",
				Href: fmt.Sprintf("%s/api/v1/actions/vote/confirm?poll=%s&option=%s", s.config.SiteURL, pollID, optionID),
			},
		},
	})
}

// confirmVoteAction is a handler for the POST /actions/vote/confirm endpoint.
// The wallet calls it with the signature after submitting; recording happens
// in the background once the transaction confirms.
func (s *HTTPServer) confirmVoteAction(c *gin.Context) {
	setActionHeaders(c)

	pollID := c.Query("poll")
	optionID := c.Query("option")

	var req ActionConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.logger.Debug("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	if err := validation.ValidateSignature(req.Signature); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid transaction signature"})
		return
	}

	s.backlot.WatchAndRecordVote(pollID, optionID, req.Signature)

	c.JSON(http.StatusOK, gin.H{
		"type":    "post",
		"message": "Vote submitted! It will be recorded once the transaction confirms.",
	})
}
