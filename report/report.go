package report

import (
	"math"
	"sort"
	"time"

	"github.com/viant/auditflow/model"
)

// Count is a labelled counter, used for chart series.
type Count struct {
	Name  string `json:"name" yaml:"name"`
	Value int    `json:"value" yaml:"value"`
}

// Trend is the average turnaround of NCARs closed in one month.
type Trend struct {
	Month   string  `json:"month" yaml:"month"` // YYYY-MM
	AvgDays float64 `json:"avgDays" yaml:"avgDays"`
	Closed  int     `json:"closed" yaml:"closed"`
}

// Dashboard aggregates the tracker state.
type Dashboard struct {
	GeneratedAt     time.Time `json:"generatedAt" yaml:"generatedAt"`
	TotalAudits     int       `json:"totalAudits" yaml:"totalAudits"`
	TotalNCARs      int       `json:"totalNcars" yaml:"totalNcars"`
	OpenNCARs       int       `json:"openNcars" yaml:"openNcars"`
	UnresolvedNCARs int       `json:"unresolvedNcars" yaml:"unresolvedNcars"`
	ClosedNCARs     int       `json:"closedNcars" yaml:"closedNcars"`
	OverdueNCARs    int       `json:"overdueNcars" yaml:"overdueNcars"`
	AvgTATDays      float64   `json:"avgTatDays" yaml:"avgTatDays"`
	CompletionRate  float64   `json:"completionRate" yaml:"completionRate"`
	ByArea          []Count   `json:"byArea" yaml:"byArea"`
	ByFindingType   []Count   `json:"byFindingType" yaml:"byFindingType"`
	ByStatus        []Count   `json:"byStatus" yaml:"byStatus"`
	ByAuditStatus   []Count   `json:"byAuditStatus" yaml:"byAuditStatus"`
	TATTrend        []Trend   `json:"tatTrend" yaml:"tatTrend"`
}

// Build computes the dashboard as of now. OpenNCARs counts NCARs in the Open
// status only; UnresolvedNCARs counts everything not Closed. CompletionRate
// is closed/total NCARs in [0,1], zero when there are none.
func Build(plans []*model.AuditPlan, ncars []*model.NCAR, now time.Time) *Dashboard {
	ret := &Dashboard{
		GeneratedAt: now,
		TotalAudits: len(plans),
		TotalNCARs:  len(ncars),
	}
	auditStatuses := map[string]int{}
	for _, p := range plans {
		auditStatuses[string(p.Status)]++
	}
	areas := map[string]int{}
	findings := map[string]int{}
	statuses := map[string]int{}
	var tatSum float64
	trend := map[string]*Trend{}
	for _, n := range ncars {
		areas[n.Area]++
		findings[string(n.FindingType)]++
		statuses[string(n.Status)]++
		if n.Status == model.NCARStatusOpen {
			ret.OpenNCARs++
		}
		if n.Status.Terminal() {
			ret.ClosedNCARs++
		} else {
			ret.UnresolvedNCARs++
		}
		if n.Overdue(now) {
			ret.OverdueNCARs++
		}
		if days, ok := n.TAT(); ok {
			tatSum += days
			month := n.ClosedAt.Format("2006-01")
			t, ok := trend[month]
			if !ok {
				t = &Trend{Month: month}
				trend[month] = t
			}
			t.AvgDays += days
			t.Closed++
		}
	}
	closedWithTAT := 0
	for _, t := range trend {
		closedWithTAT += t.Closed
		t.AvgDays = round(t.AvgDays / float64(t.Closed))
		ret.TATTrend = append(ret.TATTrend, *t)
	}
	sort.Slice(ret.TATTrend, func(i, j int) bool { return ret.TATTrend[i].Month < ret.TATTrend[j].Month })
	if closedWithTAT > 0 {
		ret.AvgTATDays = round(tatSum / float64(closedWithTAT))
	}
	if len(ncars) > 0 {
		ret.CompletionRate = round(float64(ret.ClosedNCARs) / float64(len(ncars)))
	}
	ret.ByArea = sorted(areas, nil)
	ret.ByFindingType = sorted(findings, findingOrder)
	ret.ByStatus = sorted(statuses, ncarStatusOrder)
	ret.ByAuditStatus = sorted(auditStatuses, auditStatusOrder)
	return ret
}

var findingOrder = func() map[string]int {
	ret := map[string]int{}
	for i, f := range model.FindingTypes {
		ret[string(f)] = i
	}
	return ret
}()

var ncarStatusOrder = func() map[string]int {
	ret := map[string]int{}
	for i, s := range model.NCARStatuses {
		ret[string(s)] = i
	}
	return ret
}()

var auditStatusOrder = map[string]int{
	string(model.AuditStatusPlanned):   0,
	string(model.AuditStatusActual):    1,
	string(model.AuditStatusCompleted): 2,
}

// sorted orders by the supplied rank, then by descending value and name.
func sorted(counts map[string]int, rank map[string]int) []Count {
	ret := make([]Count, 0, len(counts))
	for name, value := range counts {
		ret = append(ret, Count{Name: name, Value: value})
	}
	sort.Slice(ret, func(i, j int) bool {
		if rank != nil {
			ri, iok := rank[ret[i].Name]
			rj, jok := rank[ret[j].Name]
			if iok && jok && ri != rj {
				return ri < rj
			}
			if iok != jok {
				return iok
			}
		}
		if ret[i].Value != ret[j].Value {
			return ret[i].Value > ret[j].Value
		}
		return ret[i].Name < ret[j].Name
	})
	return ret
}

func round(v float64) float64 {
	return math.Round(v*100) / 100
}
