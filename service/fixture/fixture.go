// Package fixture supplies the seed data the tracker starts with. The
// built-in data set is embedded; any afs URL may replace it.
package fixture

import (
	"context"
	"embed"
	"fmt"
	"strings"

	"github.com/viant/afs"
	_ "github.com/viant/afs/embed"

	"github.com/viant/auditflow/internal/idgen"
	"github.com/viant/auditflow/model"
	"github.com/viant/auditflow/service/meta"
)

//go:embed seed/*
var seedFS embed.FS

// DefaultURL locates the embedded data set.
const DefaultURL = "embed:///seed/default.yaml"

// Fixtures is the seed data set.
type Fixtures struct {
	Users         []*model.User         `yaml:"users"`
	AuditPlans    []*model.AuditPlan    `yaml:"auditPlans"`
	NCARs         []*model.NCAR         `yaml:"ncars"`
	ActionPlans   []*model.ActionPlan   `yaml:"actionPlans"`
	Notifications []*model.Notification `yaml:"notifications"`
}

// Load reads fixtures from URL, or the embedded data set when URL is empty.
func Load(ctx context.Context, URL string) (*Fixtures, error) {
	if URL == "" {
		URL = DefaultURL
	}
	var service *meta.Service
	if strings.HasPrefix(URL, "embed:") {
		service = meta.New(afs.New(), "", &seedFS)
	} else {
		service = meta.New(afs.New(), "")
	}
	ret := &Fixtures{}
	if err := service.Load(ctx, URL, ret); err != nil {
		return nil, fmt.Errorf("failed to load fixtures: %w", err)
	}
	if err := ret.Validate(); err != nil {
		return nil, fmt.Errorf("invalid fixtures %v: %w", URL, err)
	}
	return ret, nil
}

// Default loads the embedded data set.
func Default(ctx context.Context) (*Fixtures, error) {
	return Load(ctx, DefaultURL)
}

// Validate checks identifiers, statuses and references. Every user name
// and record identifier must be unique.
func (f *Fixtures) Validate() error {
	users := map[string]bool{}
	for _, u := range f.Users {
		if u.Name == "" || !u.Role.Valid() {
			return fmt.Errorf("invalid user %q (%s)", u.Name, u.Role)
		}
		if users[u.Name] {
			return fmt.Errorf("duplicate user %q", u.Name)
		}
		users[u.Name] = true
	}
	plans := map[string]bool{}
	for _, p := range f.AuditPlans {
		if err := checkID(p.ID, idgen.PrefixAuditPlan); err != nil {
			return err
		}
		if plans[p.ID] {
			return fmt.Errorf("duplicate audit plan %s", p.ID)
		}
		if p.Status.Rank() < 0 {
			return fmt.Errorf("audit plan %s: unknown status %q", p.ID, p.Status)
		}
		if err := model.ValidateDates(p.StartDate, p.EndDate); err != nil {
			return fmt.Errorf("audit plan %s: %w", p.ID, err)
		}
		plans[p.ID] = true
	}
	ncars := map[string]bool{}
	for _, n := range f.NCARs {
		if err := checkID(n.ID, idgen.PrefixNCAR); err != nil {
			return err
		}
		if ncars[n.ID] {
			return fmt.Errorf("duplicate ncar %s", n.ID)
		}
		if !n.Status.Valid() {
			return fmt.Errorf("ncar %s: unknown status %q", n.ID, n.Status)
		}
		if !n.FindingType.Valid() {
			return fmt.Errorf("ncar %s: unknown finding type %q", n.ID, n.FindingType)
		}
		if n.AuditPlanID != "" && !plans[n.AuditPlanID] {
			return fmt.Errorf("ncar %s: unknown audit plan %s", n.ID, n.AuditPlanID)
		}
		ncars[n.ID] = true
	}
	live := map[string]string{}
	actionPlans := map[string]bool{}
	for _, a := range f.ActionPlans {
		if err := checkID(a.ID, idgen.PrefixActionPlan); err != nil {
			return err
		}
		if actionPlans[a.ID] {
			return fmt.Errorf("duplicate action plan %s", a.ID)
		}
		actionPlans[a.ID] = true
		if !ncars[a.NCARID] {
			return fmt.Errorf("action plan %s: unknown ncar %s", a.ID, a.NCARID)
		}
		if prev, ok := live[a.NCARID]; ok {
			return fmt.Errorf("action plans %s and %s both target ncar %s", prev, a.ID, a.NCARID)
		}
		live[a.NCARID] = a.ID
	}
	return nil
}

func checkID(id, prefix string) error {
	actual, _, _, err := idgen.Parse(id)
	if err != nil {
		return err
	}
	if actual != prefix {
		return fmt.Errorf("identifier %s: expected prefix %s", id, prefix)
	}
	return nil
}
