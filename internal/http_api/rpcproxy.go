package http_api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	rpcProxyTimeout = 15 * time.Second
	rpcMaxBodySize  = 64 * 1024
)

// allowedRPCMethods is the set of chain RPC calls the frontend may relay
// through us. Everything a wallet needs to sign and submit, nothing more;
// the upstream URL (and any key embedded in it) stays server-side.
var allowedRPCMethods = map[string]struct{}{
	"getLatestBlockhash":     {},
	"getBalance":             {},
	"getAccountInfo":         {},
	"getTokenAccountBalance": {},
	"getSignatureStatuses":   {},
	"sendTransaction":        {},
	"simulateTransaction":    {},
}

var rpcProxyClient = &http.Client{Timeout: rpcProxyTimeout}

// proxyRPC is a handler for the /rpc endpoint. It relays allow-listed
// JSON-RPC requests to the configured chain endpoint.
func (s *HTTPServer) proxyRPC(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, rpcMaxBodySize))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Failed to read request body",
		})
		return
	}

	var probe struct {
		Method string `json:"method"`
	}
	if err := json.Unmarshal(body, &probe); err != nil || probe.Method == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid JSON-RPC request",
		})
		return
	}
	if _, ok := allowedRPCMethods[probe.Method]; !ok {
		s.logger.Debug("Rejected RPC method ", "method ", probe.Method)
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   "RPC method not allowed: " + probe.Method,
		})
		return
	}

	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodPost, s.config.SolanaRPCURL, bytes.NewReader(body))
	if err != nil {
		s.respondError(c, err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := rpcProxyClient.Do(req)
	if err != nil {
		s.logger.Error("RPC upstream unreachable ", "method ", probe.Method, "error ", err)
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error":   "RPC upstream unreachable",
		})
		return
	}
	defer resp.Body.Close()

	c.DataFromReader(resp.StatusCode, resp.ContentLength, "application/json", resp.Body, nil)
}
