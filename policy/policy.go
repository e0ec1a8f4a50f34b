package policy

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/viant/auditflow/model"
)

// Operations guarded by the policy.
const (
	OpCreatePlan       = "createPlan"
	OpUpdatePlan       = "updatePlan"
	OpAdvanceStatus    = "advanceStatus"
	OpRaiseNCAR        = "raiseNCAR"
	OpSubmitActionPlan = "submitActionPlan"
	OpReview           = "reviewActionPlan"
)

// Fallback modes applied to operations without a rule.
const (
	ModeAllow = "allow"
	ModeDeny  = "deny"
)

// DefaultRules returns the built-in rule set.
func DefaultRules() map[string]string {
	return map[string]string{
		OpCreatePlan:       `identity.role == "LEAD_AUDITOR"`,
		OpUpdatePlan:       `identity.role == "LEAD_AUDITOR"`,
		OpAdvanceStatus:    `identity.role == "LEAD_AUDITOR"`,
		OpRaiseNCAR:        `identity.role in ["LEAD_AUDITOR", "AUDITOR"]`,
		OpSubmitActionPlan: `true`,
		OpReview:           `identity.role == "LEAD_AUDITOR"`,
	}
}

// Config represents the declarative part of a Policy.
type Config struct {
	Mode  string            `json:"mode,omitempty" yaml:"mode,omitempty"`
	Rules map[string]string `json:"rules,omitempty" yaml:"rules,omitempty"`
}

// Policy evaluates per-operation rules. Programs are compiled once and
// cached by expression.
type Policy struct {
	mode  string
	rules map[string]string
	env   *cel.Env
	mu    sync.RWMutex
	cache map[string]cel.Program
}

// New builds a policy from the default rules overlaid with config rules.
// Every rule is compiled up front so that a malformed expression fails at
// construction.
func New(config *Config) (*Policy, error) {
	env, err := cel.NewEnv(
		cel.Variable("identity", cel.MapType(cel.StringType, cel.StringType)),
		cel.Variable("op", cel.StringType),
		cel.Variable("resource", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	ret := &Policy{
		mode:  ModeDeny,
		rules: DefaultRules(),
		env:   env,
		cache: make(map[string]cel.Program),
	}
	if config != nil {
		if config.Mode != "" {
			ret.mode = config.Mode
		}
		for op, expr := range config.Rules {
			ret.rules[op] = expr
		}
	}
	if ret.mode != ModeAllow && ret.mode != ModeDeny {
		return nil, fmt.Errorf("unsupported policy mode: %q", ret.mode)
	}
	for _, op := range ret.Operations() {
		if _, err = ret.program(ret.rules[op]); err != nil {
			return nil, fmt.Errorf("policy rule %s: %w", op, err)
		}
	}
	return ret, nil
}

// MustNew is New that panics on error, intended for tests and static rules.
func MustNew(config *Config) *Policy {
	ret, err := New(config)
	if err != nil {
		panic(err)
	}
	return ret
}

// Operations returns the operations with a rule, sorted.
func (p *Policy) Operations() []string {
	ret := make([]string, 0, len(p.rules))
	for op := range p.rules {
		ret = append(ret, op)
	}
	sort.Strings(ret)
	return ret
}

// Rule returns the expression guarding op.
func (p *Policy) Rule(op string) (string, bool) {
	expr, ok := p.rules[op]
	return expr, ok
}

func (p *Policy) program(expr string) (cel.Program, error) {
	p.mu.RLock()
	prg, ok := p.cache[expr]
	p.mu.RUnlock()
	if ok {
		return prg, nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if prg, ok = p.cache[expr]; ok {
		return prg, nil
	}
	ast, issues := p.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile: %w", issues.Err())
	}
	if out := ast.OutputType(); !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("compile: expression %q does not yield bool", expr)
	}
	prg, err := p.env.Program(ast, cel.InterruptCheckFrequency(100), cel.CostLimit(10000))
	if err != nil {
		return nil, fmt.Errorf("program: %w", err)
	}
	p.cache[expr] = prg
	return prg, nil
}

// Allowed reports whether identity may perform op on resource. resource may
// be nil.
func (p *Policy) Allowed(op string, identity model.Identity, resource map[string]any) (bool, error) {
	if p == nil {
		return true, nil
	}
	expr, ok := p.rules[op]
	if !ok {
		return p.mode == ModeAllow, nil
	}
	prg, err := p.program(expr)
	if err != nil {
		return false, err
	}
	if resource == nil {
		resource = map[string]any{}
	}
	out, _, err := prg.Eval(map[string]any{
		"identity": map[string]string{"name": identity.Name, "role": string(identity.Role)},
		"op":       op,
		"resource": resource,
	})
	if err != nil {
		return false, fmt.Errorf("eval %s: %w", op, err)
	}
	allowed, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("eval %s: result not bool", op)
	}
	return allowed, nil
}

type ctxKeyT struct{}

var ctxKey ctxKeyT

// WithPolicy embeds policy in ctx.
func WithPolicy(ctx context.Context, p *Policy) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey, p)
}

// FromContext extracts the embedded policy, or nil.
func FromContext(ctx context.Context) *Policy {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxKey).(*Policy); ok {
		return v
	}
	return nil
}
