// Package scenario replays scripted workflow steps against the engine. A
// scenario is a YAML document of steps, each naming an operation, the user
// acting, and the operation's fields.
package scenario

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/viant/auditflow/model"
	"github.com/viant/auditflow/policy"
	"github.com/viant/auditflow/service/meta"
	"github.com/viant/auditflow/service/workflow"
)

// OpValidate is the validation entry point of the review operation.
const OpValidate = "validate"

// LastRef refers to the identifier produced by the previous step.
const LastRef = "$last"

type Scenario struct {
	Name  string  `json:"name" yaml:"name"`
	Steps []*Step `json:"steps" yaml:"steps"`
}

// Step is a single engine call.
type Step struct {
	Op string `json:"op" yaml:"op"`
	// As is the roster name of the acting user.
	As string `json:"as" yaml:"as"`
	// Role overrides the roster role, or supplies one for unknown users.
	Role       model.Role                `json:"role,omitempty" yaml:"role,omitempty"`
	ID         string                    `json:"id,omitempty" yaml:"id,omitempty"`
	Version    int                       `json:"version,omitempty" yaml:"version,omitempty"`
	Plan       *workflow.PlanInput       `json:"plan,omitempty" yaml:"plan,omitempty"`
	NCAR       *workflow.NCARInput       `json:"ncar,omitempty" yaml:"ncar,omitempty"`
	ActionPlan *workflow.ActionPlanInput `json:"actionPlan,omitempty" yaml:"actionPlan,omitempty"`
	Decision   workflow.Decision         `json:"decision,omitempty" yaml:"decision,omitempty"`
	Remarks    string                    `json:"remarks,omitempty" yaml:"remarks,omitempty"`
	// Expect names the error kind the step must fail with.
	Expect string `json:"expect,omitempty" yaml:"expect,omitempty"`
	// ExpectStatus is the status the affected record must end in.
	ExpectStatus string `json:"expectStatus,omitempty" yaml:"expectStatus,omitempty"`
}

// Result is the outcome of a step.
type Result struct {
	Index  int
	Op     string
	As     string
	ID     string
	Status string
	Err    error
}

var kinds = map[string]error{
	"permission":        workflow.ErrPermission,
	"invalidState":      workflow.ErrInvalidState,
	"validation":        workflow.ErrValidation,
	"notFound":          workflow.ErrNotFound,
	"missingDependency": workflow.ErrMissingDependency,
	"conflict":          workflow.ErrConflict,
}

// KindName returns the scenario name of err's kind, or "" when err is not a
// workflow error.
func KindName(err error) string {
	for name, kind := range kinds {
		if errors.Is(err, kind) {
			return name
		}
	}
	return ""
}

// Load decodes the scenario at URL.
func Load(ctx context.Context, service *meta.Service, URL string) (*Scenario, error) {
	ret := &Scenario{}
	if err := service.Load(ctx, URL, ret); err != nil {
		return nil, err
	}
	if err := ret.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario %v: %w", URL, err)
	}
	return ret, nil
}

// Validate checks step shapes without touching the engine.
func (s *Scenario) Validate() error {
	for i, step := range s.Steps {
		if step == nil {
			return fmt.Errorf("step %d: empty", i+1)
		}
		if strings.TrimSpace(step.As) == "" {
			return fmt.Errorf("step %d: as is required", i+1)
		}
		if step.Expect != "" {
			if _, ok := kinds[step.Expect]; !ok {
				return fmt.Errorf("step %d: unknown error kind %q", i+1, step.Expect)
			}
		}
		switch step.Op {
		case policy.OpCreatePlan:
			if step.Plan == nil {
				return fmt.Errorf("step %d: plan is required", i+1)
			}
		case policy.OpUpdatePlan:
			if step.Plan == nil || step.ID == "" {
				return fmt.Errorf("step %d: id and plan are required", i+1)
			}
		case policy.OpAdvanceStatus:
			if step.ID == "" {
				return fmt.Errorf("step %d: id is required", i+1)
			}
		case policy.OpRaiseNCAR:
			if step.NCAR == nil {
				return fmt.Errorf("step %d: ncar is required", i+1)
			}
		case policy.OpSubmitActionPlan:
			if step.ActionPlan == nil || step.ID == "" {
				return fmt.Errorf("step %d: id and actionPlan are required", i+1)
			}
		case policy.OpReview, OpValidate:
			if step.ID == "" {
				return fmt.Errorf("step %d: id is required", i+1)
			}
		default:
			return fmt.Errorf("step %d: unsupported op %q", i+1, step.Op)
		}
	}
	return nil
}

// Runner replays scenarios against a workflow engine.
type Runner struct {
	engine *workflow.Service
	last   string
}

func NewRunner(engine *workflow.Service) *Runner {
	return &Runner{engine: engine}
}

// Run validates s, then executes every step in order. It stops at the first
// step whose outcome differs from its expectations and returns the results
// so far.
func (r *Runner) Run(ctx context.Context, s *Scenario) ([]*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	var results []*Result
	for i, step := range s.Steps {
		result := r.runStep(ctx, i+1, step)
		results = append(results, result)
		if err := check(step, result); err != nil {
			return results, fmt.Errorf("step %d (%v as %v): %w", i+1, step.Op, step.As, err)
		}
	}
	return results, nil
}

func check(step *Step, result *Result) error {
	if step.Expect == "" {
		if result.Err != nil {
			return result.Err
		}
	} else if !errors.Is(result.Err, kinds[step.Expect]) {
		return fmt.Errorf("expected %v error, got %v", step.Expect, result.Err)
	}
	if step.ExpectStatus != "" && step.ExpectStatus != result.Status {
		return fmt.Errorf("expected status %q, got %q", step.ExpectStatus, result.Status)
	}
	return nil
}

func (r *Runner) identity(step *Step) (model.Identity, error) {
	name := strings.TrimSpace(step.As)
	for _, user := range r.engine.Users() {
		if user.Name == name {
			ret := user.Identity()
			if step.Role != "" {
				ret.Role = step.Role
			}
			return ret, nil
		}
	}
	if step.Role == "" {
		return model.Identity{}, fmt.Errorf("unknown user %q", name)
	}
	return model.NewIdentity(name, step.Role), nil
}

func (r *Runner) resolve(ref string) string {
	if ref == LastRef {
		return r.last
	}
	return ref
}

func (r *Runner) runStep(ctx context.Context, index int, step *Step) *Result {
	ret := &Result{Index: index, Op: step.Op, As: step.As, ID: r.resolve(step.ID)}
	identity, err := r.identity(step)
	if err != nil {
		ret.Err = err
		return ret
	}
	switch step.Op {
	case policy.OpCreatePlan:
		plan, err := r.engine.CreatePlan(ctx, identity, *step.Plan)
		ret.Err = err
		if plan != nil {
			ret.ID, ret.Status = plan.ID, string(plan.Status)
		}
	case policy.OpUpdatePlan:
		plan, err := r.engine.UpdatePlan(ctx, identity, ret.ID, *step.Plan, step.Version)
		ret.Err = err
		if plan != nil {
			ret.Status = string(plan.Status)
		}
	case policy.OpAdvanceStatus:
		plan, err := r.engine.AdvanceStatus(ctx, identity, ret.ID)
		ret.Err = err
		if plan != nil {
			ret.Status = string(plan.Status)
		}
	case policy.OpRaiseNCAR:
		input := *step.NCAR
		input.AuditPlanID = r.resolve(input.AuditPlanID)
		ncar, err := r.engine.RaiseNCAR(ctx, identity, input)
		ret.Err = err
		if ncar != nil {
			ret.ID, ret.Status = ncar.ID, string(ncar.Status)
		}
	case policy.OpSubmitActionPlan:
		plan, err := r.engine.SubmitActionPlan(ctx, identity, ret.ID, *step.ActionPlan)
		ret.Err = err
		if plan != nil {
			ret.Status = r.ncarStatus(ctx, ret.ID)
		}
	case policy.OpReview:
		ncar, err := r.engine.ReviewActionPlan(ctx, identity, ret.ID, step.Decision, step.Remarks)
		ret.Err = err
		if ncar != nil {
			ret.Status = string(ncar.Status)
		}
	case OpValidate:
		ncar, err := r.engine.Validate(ctx, identity, ret.ID, step.Decision, step.Remarks)
		ret.Err = err
		if ncar != nil {
			ret.Status = string(ncar.Status)
		}
	default:
		ret.Err = fmt.Errorf("unsupported op %q", step.Op)
	}
	if ret.Err == nil && ret.ID != "" {
		r.last = ret.ID
	}
	return ret
}

func (r *Runner) ncarStatus(ctx context.Context, id string) string {
	ncar, err := r.engine.NCAR(ctx, id)
	if err != nil {
		return ""
	}
	return string(ncar.Status)
}
