package event

import "time"

// Entity types carried in Context.EntityType.
const (
	EntityAuditPlan  = "auditPlan"
	EntityNCAR       = "ncar"
	EntityActionPlan = "actionPlan"
)

// Context describes the workflow mutation an event reports.
type Context struct {
	EntityType string `json:"entityType"`
	EntityID   string `json:"entityId"`
	Op         string `json:"op"`
	Actor      string `json:"actor,omitempty"`
	Role       string `json:"role,omitempty"`
	From       string `json:"from,omitempty"`
	To         string `json:"to,omitempty"`
}

type Event[T any] struct {
	Context   *Context               `json:"context"`
	CreatedAt time.Time              `json:"createdAt"`
	Metadata  map[string]interface{} `json:"metadata"`
	Data      T                      `json:"data"`
}

func NewEvent[T any](context *Context, data T) *Event[T] {
	return &Event[T]{
		Context:   context,
		CreatedAt: time.Now(),
		Metadata:  make(map[string]interface{}),
		Data:      data,
	}
}
