package http_api

// routes sets up the routes for the HTTP server.
func (s *HTTPServer) routes() {
	v1 := s.router.Group("/api/v1")

	v1.GET("/tier", s.getTier)

	v1.GET("/polls", s.listPolls)
	v1.GET("/polls/:id", s.getPoll)
	v1.POST("/vote/transaction", s.buildVoteTransaction)
	v1.POST("/vote", s.verifyVote)

	v1.GET("/leaderboard", s.getLeaderboard)

	v1.GET("/milestones", s.listMilestones)
	v1.POST("/fund-milestone", s.buildFundingTransaction)
	v1.POST("/fund-milestone/confirm", s.confirmFunding)

	v1.GET("/chat", s.listChatMessages)
	v1.POST("/chat", s.postChatMessage)

	v1.GET("/episodes", s.listEpisodes)
	v1.GET("/backstage", s.listBackstagePosts)

	v1.GET("/token-stats", s.getTokenStats)
	v1.GET("/treasury", s.getTreasury)
	v1.POST("/rpc", s.proxyRPC)

	v1.GET("/actions/vote", s.getVoteAction)
	v1.POST("/actions/vote", s.postVoteAction)
	v1.OPTIONS("/actions/vote", s.actionsPreflight)
	v1.POST("/actions/vote/confirm", s.confirmVoteAction)
	v1.OPTIONS("/actions/vote/confirm", s.actionsPreflight)
}
