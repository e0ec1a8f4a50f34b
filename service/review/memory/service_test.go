package memory_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/auditflow/model"
	"github.com/viant/auditflow/service/messaging/memory"
	"github.com/viant/auditflow/service/review"
	reviewmem "github.com/viant/auditflow/service/review/memory"
)

func TestService_RequestReview(t *testing.T) {
	ctx := context.Background()
	svc := reviewmem.New()

	require.NoError(t, svc.RequestReview(ctx, &review.Request{ID: "ACT_000001_202310", NCARID: "NCAR_000001_202310"}))
	require.NoError(t, svc.RequestReview(ctx, &review.Request{ID: "ACT_000002_202310", NCARID: "NCAR_000002_202310"}))
	// resubmission supersedes the pending request of the same NCAR
	require.NoError(t, svc.RequestReview(ctx, &review.Request{ID: "ACT_000003_202310", NCARID: "NCAR_000001_202310"}))

	pending, err := svc.ListPending(ctx)
	require.NoError(t, err)
	var ids []string
	for _, r := range pending {
		ids = append(ids, r.ID)
		assert.False(t, r.CreatedAt.IsZero())
	}
	sort.Strings(ids)
	assert.Equal(t, []string{"ACT_000002_202310", "ACT_000003_202310"}, ids)

	filtered, err := review.ListPending(ctx, svc, review.WithNCARID("NCAR_000001_202310"))
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "ACT_000003_202310", filtered[0].ID)

	assert.Error(t, svc.RequestReview(ctx, &review.Request{ID: "x"}))
	assert.Error(t, svc.RequestReview(ctx, nil))
}

func TestService_Decide(t *testing.T) {
	type testCase struct {
		name        string
		requestID   string
		twice       bool
		expectError bool
	}

	testCases := []testCase{
		{name: "approve pending", requestID: "ACT_000001_202310"},
		{name: "unknown request", requestID: "ACT_999999_202310", expectError: true},
		{name: "already decided", requestID: "ACT_000001_202310", twice: true, expectError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			svc := reviewmem.New()
			require.NoError(t, svc.RequestReview(ctx, &review.Request{ID: "ACT_000001_202310", NCARID: "NCAR_000001_202310"}))

			decision := &review.Decision{RequestID: tc.requestID, Approved: true, Reviewer: "Sarah Lead", Role: model.RoleLeadAuditor, Outcome: model.NCARStatusClosed}
			if tc.twice {
				_, err := svc.Decide(ctx, decision)
				require.NoError(t, err)
			}
			actual, err := svc.Decide(ctx, decision)
			if tc.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, actual.ID)
			assert.Equal(t, "NCAR_000001_202310", actual.NCARID)

			pending, _ := svc.ListPending(ctx)
			assert.Empty(t, pending)
			decisions, _ := review.DecisionsFor(ctx, svc, "NCAR_000001_202310")
			assert.Len(t, decisions, 1)
		})
	}
}

func TestWaitForDecision(t *testing.T) {
	ctx := context.Background()
	svc := reviewmem.New(reviewmem.WithQueue(memory.NewQueue[review.Event](memory.DefaultConfig())))
	require.NoError(t, svc.RequestReview(ctx, &review.Request{ID: "ACT_000001_202310", NCARID: "NCAR_000001_202310"}))

	go func() {
		time.Sleep(10 * time.Millisecond)
		_, _ = svc.Decide(ctx, &review.Decision{RequestID: "ACT_000001_202310", Approved: false, Remarks: "root cause too vague"})
	}()
	d, err := review.WaitForDecision(ctx, svc, "ACT_000001_202310", time.Second)
	require.NoError(t, err)
	assert.False(t, d.Approved)
	assert.Equal(t, "root cause too vague", d.Remarks)

	_, err = review.WaitForDecision(ctx, svc, "ACT_000002_202310", 20*time.Millisecond)
	assert.Error(t, err)

	_, err = review.WaitForDecision(ctx, reviewmem.New(), "ACT_000001_202310", 20*time.Millisecond)
	assert.Error(t, err)
}
