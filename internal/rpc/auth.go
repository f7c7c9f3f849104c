package rpc

import (
	"maps"
	"strings"

	"github.com/fystack/solana-account-fetcher/pkg/common/config"
)

// NodeHeaders returns the HTTP headers to send to node. Explicit headers win;
// otherwise an api key that is not already part of the URL is sent as a
// bearer token.
func NodeHeaders(node config.Node) map[string]string {
	if len(node.Headers) > 0 {
		headers := make(map[string]string, len(node.Headers))
		maps.Copy(headers, node.Headers)
		return headers
	}

	if node.ApiKey == "" || strings.Contains(node.URL, node.ApiKey) {
		return nil
	}

	token := node.ApiKey
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		token = strings.TrimSpace(token[len("bearer "):])
	}
	return map[string]string{"Authorization": "Bearer " + token}
}
