package report_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/viant/auditflow/model"
	"github.com/viant/auditflow/report"
)

func TestBuild(t *testing.T) {
	now := time.Date(2023, 10, 20, 12, 0, 0, 0, time.UTC)
	day := 24 * time.Hour
	closedAt := func(t time.Time) *time.Time { return &t }

	plans := []*model.AuditPlan{
		{ID: "AP_000001_202310", Status: model.AuditStatusPlanned},
		{ID: "AP_000002_202310", Status: model.AuditStatusCompleted},
		{ID: "AP_000003_202310", Status: model.AuditStatusPlanned},
	}
	created := time.Date(2023, 9, 1, 12, 0, 0, 0, time.UTC)
	ncars := []*model.NCAR{
		{ID: "NCAR_000001_202309", Area: "Finance", FindingType: model.FindingMajor, Status: model.NCARStatusOpen, CreatedAt: created, Deadline: created.Add(7 * day)},
		{ID: "NCAR_000002_202309", Area: "Finance", FindingType: model.FindingMinor, Status: model.NCARStatusClosed, CreatedAt: created, Deadline: created.Add(7 * day), ClosedAt: closedAt(created.Add(4 * day))},
		{ID: "NCAR_000003_202310", Area: "Operations", FindingType: model.FindingOFI, Status: model.NCARStatusClosed, CreatedAt: created, Deadline: created.Add(7 * day), ClosedAt: closedAt(time.Date(2023, 10, 3, 12, 0, 0, 0, time.UTC))},
		{ID: "NCAR_000004_202310", Area: "Quality", FindingType: model.FindingMinor, Status: model.NCARStatusReopened, CreatedAt: now, Deadline: now.Add(7 * day)},
	}

	type testCase struct {
		name   string
		plans  []*model.AuditPlan
		ncars  []*model.NCAR
		assert func(t *testing.T, d *report.Dashboard)
	}

	testCases := []testCase{
		{
			name: "empty",
			assert: func(t *testing.T, d *report.Dashboard) {
				assert.Equal(t, 0, d.TotalAudits)
				assert.Equal(t, 0.0, d.CompletionRate)
				assert.Equal(t, 0.0, d.AvgTATDays)
				assert.Empty(t, d.ByStatus)
			},
		},
		{
			name:  "mixed",
			plans: plans,
			ncars: ncars,
			assert: func(t *testing.T, d *report.Dashboard) {
				assert.Equal(t, 3, d.TotalAudits)
				assert.Equal(t, 4, d.TotalNCARs)
				assert.Equal(t, 1, d.OpenNCARs)
				assert.Equal(t, 2, d.UnresolvedNCARs)
				assert.Equal(t, 2, d.ClosedNCARs)
				assert.Equal(t, 1, d.OverdueNCARs)
				assert.Equal(t, 0.5, d.CompletionRate)
				// 4 days and 32 days
				assert.Equal(t, 18.0, d.AvgTATDays)
				assert.Equal(t, []report.Count{{Name: "Finance", Value: 2}, {Name: "Operations", Value: 1}, {Name: "Quality", Value: 1}}, d.ByArea)
				assert.Equal(t, []report.Count{{Name: "Major", Value: 1}, {Name: "Minor", Value: 2}, {Name: "OFI", Value: 1}}, d.ByFindingType)
				assert.Equal(t, []report.Count{{Name: "Open", Value: 1}, {Name: "Closed", Value: 2}, {Name: "Reopened", Value: 1}}, d.ByStatus)
				assert.Equal(t, []report.Count{{Name: "Planned", Value: 2}, {Name: "Completed", Value: 1}}, d.ByAuditStatus)
				assert.Equal(t, []report.Trend{{Month: "2023-09", AvgDays: 4, Closed: 1}, {Month: "2023-10", AvgDays: 32, Closed: 1}}, d.TATTrend)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.assert(t, report.Build(tc.plans, tc.ncars, now))
		})
	}
}
