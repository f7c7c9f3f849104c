package config

import (
	"fmt"
	"net/url"
	"os"
	"sort"
	"strings"

	"github.com/samber/lo"
)

type Node struct {
	Name      string            `yaml:"name"`
	URL       string            `yaml:"url"         validate:"required,url"`
	ApiKey    string            `yaml:"api_key"`
	ApiKeyEnv string            `yaml:"api_key_env"`
	Headers   map[string]string `yaml:"headers,omitempty"`
	Query     map[string]string `yaml:"query,omitempty"`
}

// FinalizeNodes fills api keys, substitutes ${VAR} references, attaches query
// parameters and names anonymous nodes by position ("primary", "fallback-1", ...).
func FinalizeNodes(nodes []Node) ([]Node, error) {
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		if n.Headers == nil {
			n.Headers = map[string]string{}
		}
		if n.Query == nil {
			n.Query = map[string]string{}
		}

		key := n.ApiKey
		if key == "" && n.ApiKeyEnv != "" {
			key = os.Getenv(n.ApiKeyEnv)
		}
		n.ApiKey = key

		n.URL = substituteEnvVars(substituteKey(n.URL, key))
		for k, v := range n.Headers {
			n.Headers[k] = substituteEnvVars(substituteKey(v, key))
		}
		for k, v := range n.Query {
			n.Query[k] = substituteEnvVars(substituteKey(v, key))
		}

		u, err := url.Parse(n.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("%w: node %d: invalid url %q", ErrConfig, i, n.URL)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return nil, fmt.Errorf("%w: node %d: unsupported scheme %q", ErrConfig, i, u.Scheme)
		}

		if len(n.Query) > 0 {
			q := u.Query()
			for k, v := range n.Query {
				q.Set(k, v)
			}
			u.RawQuery = q.Encode()
			n.URL = u.String()
		}

		if n.Name == "" {
			if i == 0 {
				n.Name = "primary"
			} else {
				n.Name = fmt.Sprintf("fallback-%d", i)
			}
		}
		out[i] = n
	}
	return out, nil
}

// Redacted returns the node URL with credentials and query values masked.
func (n Node) Redacted() string {
	u, err := url.Parse(n.URL)
	if err != nil {
		return "<invalid url>"
	}
	if u.User != nil {
		u.User = url.User(u.User.Username())
	}
	if u.RawQuery != "" {
		keys := lo.Keys(u.Query())
		sort.Strings(keys)
		u.RawQuery = strings.Join(lo.Map(keys, func(k string, _ int) string {
			return k + "=***"
		}), "&")
	}
	s := u.String()
	if n.ApiKey != "" {
		s = strings.ReplaceAll(s, n.ApiKey, "***")
	}
	return s
}

func substituteKey(s, key string) string {
	if s == "" || key == "" {
		return s
	}
	return strings.ReplaceAll(s, "${API_KEY}", key)
}

// substituteEnvVars replaces each ${NAME} with the variable's value in a
// single pass; substituted values are never expanded again. Bare $NAME and
// unterminated references are left as written.
func substituteEnvVars(s string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	var b strings.Builder
	for {
		start := strings.Index(s, "${")
		if start == -1 {
			break
		}
		end := strings.IndexByte(s[start:], '}')
		if end == -1 {
			break
		}
		end += start
		b.WriteString(s[:start])
		b.WriteString(os.Getenv(s[start+2 : end]))
		s = s[end+1:]
	}
	b.WriteString(s)
	return b.String()
}
