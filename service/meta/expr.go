package meta

import (
	"os"
	"strings"
	"unicode"
)

const envPrefix = "${env."

// expandEnvExpr replaces ${env.KEY} with the value of KEY, or "" when unset.
// ${env.KEY:-fallback} uses fallback when KEY is unset or empty. Expressions
// with an invalid key, or without a closing brace, are left as they are.
func expandEnvExpr(value string) string {
	if !strings.Contains(value, envPrefix) {
		return value
	}
	var b strings.Builder
	rest := value
	for {
		idx := strings.Index(rest, envPrefix)
		if idx < 0 {
			b.WriteString(rest)
			return b.String()
		}
		b.WriteString(rest[:idx])
		body := rest[idx+len(envPrefix):]
		end := strings.IndexByte(body, '}')
		if end < 0 {
			b.WriteString(rest[idx:])
			return b.String()
		}
		key, fallback, hasFallback := strings.Cut(body[:end], ":-")
		if !validEnvKey(key) {
			// keep the prefix and rescan what follows it
			b.WriteString(envPrefix)
			rest = body
			continue
		}
		v := os.Getenv(key)
		if v == "" && hasFallback {
			v = fallback
		}
		b.WriteString(v)
		rest = body[end+1:]
	}
}

func validEnvKey(key string) bool {
	for _, r := range key {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}
