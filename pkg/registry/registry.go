// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
)

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	err = json.Unmarshal(data, &reg)
	return &reg, err
}

// TaskTypes returns the task types of all registered activities.
func (r *ActivityRegistry) TaskTypes() []string {
	types := make([]string, 0, len(r.Activities))
	for _, a := range r.Activities {
		types = append(types, a.TaskType)
	}
	return types
}

// Lookup finds an activity by task type.
func (r *ActivityRegistry) Lookup(taskType string) (*Activity, bool) {
	for i := range r.Activities {
		if r.Activities[i].TaskType == taskType {
			return &r.Activities[i], true
		}
	}
	return nil, false
}

// CheckTaskTypes verifies that every given task type is declared in the
// registry. Run at startup so a worker binary and a stale registry file
// cannot drift apart silently.
func (r *ActivityRegistry) CheckTaskTypes(taskTypes []string) error {
	for _, tt := range taskTypes {
		if _, ok := r.Lookup(tt); !ok {
			return fmt.Errorf("task type %q is not declared in the activity registry (version %s)", tt, r.Version)
		}
	}
	return nil
}
