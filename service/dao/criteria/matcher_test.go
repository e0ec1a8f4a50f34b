package criteria

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viant/auditflow/service/dao"
)

func TestFilterByStatus(t *testing.T) {
	type testCase struct {
		name       string
		status     string
		parameters []*dao.Parameter
		expected   bool
	}
	tests := []testCase{
		{name: "no parameters", status: "Open", expected: true},
		{name: "single match", status: "Open", parameters: []*dao.Parameter{dao.WithStatus("Open")}, expected: true},
		{name: "single mismatch", status: "Closed", parameters: []*dao.Parameter{dao.WithStatus("Open")}, expected: false},
		{name: "any of", status: "Reopened", parameters: []*dao.Parameter{dao.WithStatus("Open", "Rejected", "Reopened")}, expected: true},
		{name: "none of", status: "Closed", parameters: []*dao.Parameter{dao.WithStatus("Open", "Rejected")}, expected: false},
		{name: "other parameter ignored", status: "Closed", parameters: []*dao.Parameter{dao.NewParameter("Area", "Finance")}, expected: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, FilterByStatus(tc.status, tc.parameters))
		})
	}
}
