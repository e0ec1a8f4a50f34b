package policy_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/auditflow/model"
	"github.com/viant/auditflow/policy"
)

func TestPolicy_DefaultRules(t *testing.T) {
	lead := model.NewIdentity("Sarah Lead", model.RoleLeadAuditor)
	auditor := model.NewIdentity("John Doe", model.RoleAuditor)
	auditee := model.NewIdentity("Bob Johnson", model.RoleAuditee)

	type testCase struct {
		op       string
		identity model.Identity
		expected bool
	}

	testCases := []testCase{
		{op: policy.OpCreatePlan, identity: lead, expected: true},
		{op: policy.OpCreatePlan, identity: auditor, expected: false},
		{op: policy.OpUpdatePlan, identity: auditee, expected: false},
		{op: policy.OpAdvanceStatus, identity: lead, expected: true},
		{op: policy.OpAdvanceStatus, identity: auditor, expected: false},
		{op: policy.OpRaiseNCAR, identity: lead, expected: true},
		{op: policy.OpRaiseNCAR, identity: auditor, expected: true},
		{op: policy.OpRaiseNCAR, identity: auditee, expected: false},
		{op: policy.OpSubmitActionPlan, identity: auditee, expected: true},
		{op: policy.OpSubmitActionPlan, identity: auditor, expected: true},
		{op: policy.OpReview, identity: lead, expected: true},
		{op: policy.OpReview, identity: auditor, expected: false},
		{op: "unknown", identity: lead, expected: false},
	}

	p := policy.MustNew(nil)
	for _, tc := range testCases {
		t.Run(tc.op+"/"+string(tc.identity.Role), func(t *testing.T) {
			actual, err := p.Allowed(tc.op, tc.identity, nil)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestPolicy_CustomRules(t *testing.T) {
	p, err := policy.New(&policy.Config{
		Mode: policy.ModeAllow,
		Rules: map[string]string{
			policy.OpSubmitActionPlan: `identity.role == "AUDITEE" && resource.auditee == identity.name`,
		},
	})
	require.NoError(t, err)

	allowed, err := p.Allowed(policy.OpSubmitActionPlan, model.NewIdentity("Bob Johnson", model.RoleAuditee), map[string]any{"auditee": "Bob Johnson"})
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = p.Allowed(policy.OpSubmitActionPlan, model.NewIdentity("Jane Smith", model.RoleAuditee), map[string]any{"auditee": "Bob Johnson"})
	require.NoError(t, err)
	assert.False(t, allowed)

	// missing key surfaces as an evaluation error
	_, err = p.Allowed(policy.OpSubmitActionPlan, model.NewIdentity("Bob Johnson", model.RoleAuditee), nil)
	assert.Error(t, err)

	allowed, err = p.Allowed("exportReport", model.NewIdentity("x", model.RoleAuditee), nil)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestPolicy_Invalid(t *testing.T) {
	type testCase struct {
		name   string
		config *policy.Config
	}
	testCases := []testCase{
		{name: "syntax", config: &policy.Config{Rules: map[string]string{policy.OpCreatePlan: `identity.role ==`}}},
		{name: "not bool", config: &policy.Config{Rules: map[string]string{policy.OpCreatePlan: `identity.name`}}},
		{name: "mode", config: &policy.Config{Mode: "ask"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := policy.New(tc.config)
			assert.Error(t, err)
		})
	}
}

func TestContext(t *testing.T) {
	assert.Nil(t, policy.FromContext(context.Background()))
	p := policy.MustNew(nil)
	ctx := policy.WithPolicy(context.Background(), p)
	assert.Same(t, p, policy.FromContext(ctx))

	var nilPolicy *policy.Policy
	allowed, err := nilPolicy.Allowed(policy.OpReview, model.Identity{}, nil)
	require.NoError(t, err)
	assert.True(t, allowed)
}
