package meta

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandEnvExpr(t *testing.T) {
	type testCase struct {
		description string
		env         map[string]string
		input       string
		expect      string
	}
	var testCases = []testCase{
		{description: "plain", input: "deadline: 5", expect: "deadline: 5"},
		{description: "single", env: map[string]string{"AF_LIMIT": "20"}, input: "limit: ${env.AF_LIMIT}", expect: "limit: 20"},
		{description: "repeated", env: map[string]string{"AF_A": "1", "AF_B": "2"}, input: "${env.AF_A}-${env.AF_B}-${env.AF_A}", expect: "1-2-1"},
		{description: "unset", input: "url: ${env.AF_UNSET}/data", expect: "url: /data"},
		{description: "fallback used", input: "url: ${env.AF_UNSET:-mem://localhost/data}", expect: "url: mem://localhost/data"},
		{description: "fallback ignored", env: map[string]string{"AF_URL": "file:///var/auditflow"}, input: "${env.AF_URL:-mem://x}", expect: "file:///var/auditflow"},
		{description: "unterminated", input: "a ${env.AF_X and ${env.AF_Y} b", expect: "a ${env.AF_X and  b"},
		{description: "empty key", input: "x ${env.} y", expect: "x  y"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			for _, key := range []string{"AF_LIMIT", "AF_A", "AF_B", "AF_UNSET", "AF_URL", "AF_X", "AF_Y"} {
				t.Setenv(key, "")
			}
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			assert.Equal(t, tc.expect, expandEnvExpr(tc.input))
		})
	}
}
