package auditflow_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/afs/file"

	"github.com/viant/auditflow"
	"github.com/viant/auditflow/model"
	"github.com/viant/auditflow/policy"
	"github.com/viant/auditflow/service/event"
	"github.com/viant/auditflow/service/fixture"
	"github.com/viant/auditflow/service/review"
	"github.com/viant/auditflow/service/workflow"
)

var testNow = time.Date(2023, 10, 16, 9, 0, 0, 0, time.UTC)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestService(t *testing.T) {
	ctx := context.Background()
	srv, err := auditflow.New(ctx,
		auditflow.WithLogger(quietLogger()),
		auditflow.WithNow(func() time.Time { return testNow }),
	)
	require.NoError(t, err)
	defer srv.Close()

	engine := srv.Workflow()
	plans, err := engine.Plans(ctx)
	require.NoError(t, err)
	assert.Len(t, plans, 2)
	ncars, err := engine.NCARs(ctx)
	require.NoError(t, err)
	assert.Len(t, ncars, 2)
	assert.Len(t, engine.Users(), 4)
	assert.Nil(t, srv.Events())
	assert.Nil(t, srv.Reviews().Queue())

	lead := model.NewIdentity("John Doe", model.RoleLeadAuditor)
	plan, err := engine.CreatePlan(ctx, lead, workflow.PlanInput{
		StartDate: "2023-11-01",
		EndDate:   "2023-11-02",
		Auditors:  []string{"John Doe"},
		Auditees:  []string{"Bob Johnson"},
	})
	require.NoError(t, err)
	assert.Equal(t, "AP_000003_202310", plan.ID)
}

func TestService_Config(t *testing.T) {
	type testCase struct {
		description string
		config      *auditflow.Config
		expectErr   bool
	}
	var testCases = []testCase{
		{description: "defaults", config: auditflow.DefaultConfig()},
		{
			description: "zero deadline",
			config:      &auditflow.Config{Notification: auditflow.NotificationConfig{Limit: 10}},
			expectErr:   true,
		},
		{
			description: "negative limit",
			config: &auditflow.Config{
				Deadline:     auditflow.DeadlineConfig{BusinessDays: 5},
				Notification: auditflow.NotificationConfig{Limit: -1},
			},
			expectErr: true,
		},
		{
			description: "bad policy rule",
			config: &auditflow.Config{
				Deadline: auditflow.DeadlineConfig{BusinessDays: 5},
				Policy:   &policy.Config{Rules: map[string]string{policy.OpRaiseNCAR: "identity.role +"}},
			},
			expectErr: true,
		},
		{
			description: "skip seed with events",
			config: &auditflow.Config{
				Deadline: auditflow.DeadlineConfig{BusinessDays: 3},
				Events:   auditflow.EventsConfig{Enabled: true, QueueBuffer: 8},
				SkipSeed: true,
			},
		},
	}

	for _, tc := range testCases {
		srv, err := auditflow.New(context.Background(),
			auditflow.WithConfig(tc.config),
			auditflow.WithLogger(quietLogger()),
		)
		if tc.expectErr {
			assert.Error(t, err, tc.description)
			continue
		}
		require.NoError(t, err, tc.description)
		assert.Equal(t, tc.config, srv.Config(), tc.description)
		srv.Close()
	}
}

func TestLoadConfig(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	const URL = "mem://localhost/auditflow/config.yaml"
	content := `deadline:
  businessDays: 3
notification:
  limit: 5
events:
  enabled: true
skipSeed: true
policy:
  mode: deny
  rules:
    raiseNCAR: 'identity.role == "LEAD_AUDITOR"'
`
	require.NoError(t, fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader([]byte(content))))

	config, err := auditflow.LoadConfig(ctx, URL)
	require.NoError(t, err)
	assert.Equal(t, 3, config.Deadline.BusinessDays)
	assert.Equal(t, 5, config.Notification.Limit)
	assert.True(t, config.Events.Enabled)
	assert.True(t, config.SkipSeed)

	srv, err := auditflow.New(ctx, auditflow.WithConfig(config), auditflow.WithLogger(quietLogger()))
	require.NoError(t, err)
	defer srv.Close()

	auditor := model.NewIdentity("Alice Smith", model.RoleAuditor)
	_, err = srv.Workflow().RaiseNCAR(ctx, auditor, workflow.NCARInput{
		AuditPlanID: "AP_000001_202310",
		Statement:   "Calibration records missing",
		Requirement: "ISO 9001 7.1.5",
		Evidence:    "Log book",
		FindingType: model.FindingMajor,
		Clause:      "7.1.5",
		Area:        "Production",
		Auditee:     "Bob Johnson",
	})
	assert.ErrorIs(t, err, workflow.ErrPermission)

	_, err = auditflow.LoadConfig(ctx, "mem://localhost/auditflow/missing.yaml")
	assert.Error(t, err)
}

func TestService_Events(t *testing.T) {
	ctx := context.Background()
	fixtures, err := fixture.Default(ctx)
	require.NoError(t, err)
	events := event.New(event.WithLogger(quietLogger()))
	srv, err := auditflow.New(ctx,
		auditflow.WithLogger(quietLogger()),
		auditflow.WithNow(func() time.Time { return testNow }),
		auditflow.WithEventService(events),
		auditflow.WithFixtures(fixtures),
	)
	require.NoError(t, err)
	defer srv.Close()
	assert.Same(t, events, srv.Events())

	lead := model.NewIdentity("John Doe", model.RoleLeadAuditor)
	_, err = srv.Workflow().AdvanceStatus(ctx, lead, "AP_000001_202310")
	require.NoError(t, err)

	consumeCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	evt, err := events.Feed().Consume(consumeCtx)
	require.NoError(t, err)
	assert.Equal(t, event.EntityAuditPlan, evt.Context.EntityType)
	assert.Equal(t, "AP_000001_202310", evt.Context.EntityID)
}

// lockedBuffer collects log output written from listener goroutines.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestService_ReviewEvents(t *testing.T) {
	ctx := context.Background()
	config := auditflow.DefaultConfig()
	config.Events = auditflow.EventsConfig{Enabled: true, QueueBuffer: 16}
	logs := &lockedBuffer{}
	srv, err := auditflow.New(ctx,
		auditflow.WithConfig(config),
		auditflow.WithLogger(slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))),
		auditflow.WithNow(func() time.Time { return testNow }),
	)
	require.NoError(t, err)
	defer srv.Close()
	require.NotNil(t, srv.Events())
	require.NotNil(t, srv.Reviews().Queue())

	lead := model.NewIdentity("John Doe", model.RoleLeadAuditor)
	_, err = srv.Workflow().Validate(ctx, lead, "NCAR_000002_202310", workflow.DecisionApprove, "Receipts attached.")
	require.NoError(t, err)

	decision, err := review.WaitForDecision(ctx, srv.Reviews(), "ACT_000001_202310", time.Second)
	require.NoError(t, err)
	assert.True(t, decision.Approved)
	assert.Equal(t, "John Doe", decision.Reviewer)
	assert.Equal(t, model.NCARStatusClosed, decision.Outcome)
	assert.Equal(t, "Receipts attached.", decision.Remarks)

	assert.Eventually(t, func() bool {
		return strings.Contains(logs.String(), "workflow event") && strings.Contains(logs.String(), "NCAR_000002_202310")
	}, time.Second, 10*time.Millisecond)
}
