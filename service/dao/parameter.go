package dao

// StatusParameterName is the parameter recognised by status filters.
const StatusParameterName = "Status"

type Parameter struct {
	Name  string
	Value interface{}
}

func NewParameter(name string, values ...string) *Parameter {
	if len(values) == 1 {
		return &Parameter{Name: name, Value: values[0]}
	}
	return &Parameter{Name: name, Value: values}
}

// WithStatus builds a status filter matching any of the supplied values.
func WithStatus(statuses ...string) *Parameter {
	return NewParameter(StatusParameterName, statuses...)
}
