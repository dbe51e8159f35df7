package framework

import "strings"

// KeySeparator joins the components of an encoded key.
const KeySeparator = "-"

// Key addresses a task (or one named field of a task) inside a client
// record. Completion is tracked under the task key; answers are stored under
// both the task key (free-form value) and its field keys.
type Key struct {
	Phase     string
	SubModule string
	Task      string
	Field     string
}

// TaskKey builds the key of a task.
func TaskKey(phaseID, subModuleID, taskID string) Key {
	return Key{Phase: phaseID, SubModule: subModuleID, Task: taskID}
}

// WithField returns the key of a named field of the same task.
func (k Key) WithField(fieldID string) Key {
	k.Field = fieldID
	return k
}

// TaskOnly drops the field component.
func (k Key) TaskOnly() Key {
	k.Field = ""
	return k
}

// IsField reports whether the key addresses a named field.
func (k Key) IsField() bool {
	return k.Field != ""
}

// String is the canonical encoding stored in client records:
// phase-submodule-task, with -field appended for field keys.
func (k Key) String() string {
	parts := []string{k.Phase, k.SubModule, k.Task}
	if k.Field != "" {
		parts = append(parts, k.Field)
	}
	return strings.Join(parts, KeySeparator)
}
