package app

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/riskibarqy/prediction-league/internal/config"
)

// postgresDSN is the connection string handed to lib/pq plus the database
// name reported on query spans.
type postgresDSN struct {
	conn   string
	dbName string
}

// buildPostgresDSN fills in driver options the deployment did not pin.
// Both URL and key=value forms are accepted; explicit values always win.
func buildPostgresDSN(cfg config.Config) postgresDSN {
	raw := strings.TrimSpace(cfg.DBURL)
	defaults := map[string]string{}
	if cfg.DBDisablePreparedBinary {
		defaults["disable_prepared_binary_result"] = "yes"
	}
	if name := strings.TrimSpace(cfg.ServiceName); name != "" {
		defaults["application_name"] = name
	}

	if parsed, err := url.Parse(raw); err == nil && parsed.Scheme != "" {
		query := parsed.Query()
		changed := false
		for key, value := range defaults {
			if query.Get(key) == "" {
				query.Set(key, value)
				changed = true
			}
		}
		if changed {
			parsed.RawQuery = query.Encode()
		}
		return postgresDSN{
			conn:   parsed.String(),
			dbName: strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/")),
		}
	}

	pairs := keywordPairs(raw)
	var b strings.Builder
	b.WriteString(raw)
	for _, key := range []string{"disable_prepared_binary_result", "application_name"} {
		value, ok := defaults[key]
		if !ok || pairs[key] != "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(key + "=" + quoteKeywordValue(value))
	}
	return postgresDSN{conn: b.String(), dbName: pairs["dbname"]}
}

func keywordPairs(raw string) map[string]string {
	pairs := make(map[string]string)
	for _, token := range strings.Fields(raw) {
		key, value, ok := strings.Cut(token, "=")
		if !ok {
			continue
		}
		pairs[strings.TrimSpace(key)] = strings.Trim(strings.TrimSpace(value), `"'`)
	}
	return pairs
}

func quoteKeywordValue(v string) string {
	if !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

const maxTracedQueryLength = 512

var (
	sqlBlockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)
	sqlLineComment  = regexp.MustCompile(`--[^\n]*`)
	sqlWhitespace   = regexp.MustCompile(`\s+`)
)

// traceQuery is the span name for a statement: comments dropped, whitespace
// collapsed and capped without splitting a multi-byte rune.
func traceQuery(query string) string {
	query = sqlBlockComment.ReplaceAllString(query, " ")
	query = sqlLineComment.ReplaceAllString(query, " ")
	query = strings.TrimSpace(sqlWhitespace.ReplaceAllString(query, " "))
	if len(query) <= maxTracedQueryLength {
		return query
	}
	cut := maxTracedQueryLength
	for cut > 0 && !utf8.RuneStart(query[cut]) {
		cut--
	}
	return query[:cut] + "..."
}
