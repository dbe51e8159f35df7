// Package answers records task answers into the flat input map of a client
// record and tracks task completion.
//
// A task's free-form value lives under its task key and each structured
// field under the task key plus the field id. Saving content that is more
// than one character long (after trimming) marks the task complete; saving
// never un-completes a task. Completion can also be set explicitly.
package answers

import (
	"fmt"
	"strings"
	"unicode/utf16"

	"acqos/internal/framework"
	"acqos/internal/state"
)

// minContentLen is the trimmed length a value must exceed to count as
// content for auto-completion.
const minContentLen = 1

// TaskAnswers are the stored values of one task.
type TaskAnswers struct {
	Key    framework.Key
	Fields map[string]string // by input id, one entry per declared input
	Main   string
}

// HasContent reports whether any value would trigger auto-completion.
func (a TaskAnswers) HasContent() bool {
	if hasContent(a.Main) {
		return true
	}
	for _, v := range a.Fields {
		if hasContent(v) {
			return true
		}
	}
	return false
}

// hasContent measures length in UTF-16 code units, so a single emoji outside
// the Basic Multilingual Plane counts as two.
func hasContent(v string) bool {
	n := 0
	for _, r := range strings.TrimSpace(v) {
		n += utf16.RuneLen(r)
	}
	return n > minContentLen
}

// RecordAnswer writes the values of a task. Every declared input is written
// (missing entries as empty strings); values for undeclared fields are
// ignored. The free-form value is always written under the task key. When
// any written value has content the task is marked complete.
func RecordAnswer(catalog *framework.Catalog, data state.ClientData, phaseID, subModuleID, taskID string, fields map[string]string, main string) (state.ClientData, error) {
	task, ok := catalog.Task(phaseID, subModuleID, taskID)
	if !ok {
		return data, fmt.Errorf("task %s/%s/%s: %w", phaseID, subModuleID, taskID, framework.ErrNotFound)
	}

	key := framework.TaskKey(phaseID, subModuleID, taskID)
	out := data.Clone()
	written := TaskAnswers{Key: key, Fields: make(map[string]string, len(task.Inputs)), Main: main}

	for _, in := range task.Inputs {
		v := fields[in.ID]
		out.UserInputs[key.WithField(in.ID).String()] = v
		written.Fields[in.ID] = v
	}
	out.UserInputs[key.String()] = main

	if written.HasContent() {
		out.CompletedItems, _ = state.AppendUnique(out.CompletedItems, key.String())
	}
	return out, nil
}

// SetCompleted adds the task key to, or removes it from, the completed set.
// Field keys are reduced to their task key.
func SetCompleted(data state.ClientData, k framework.Key, done bool) state.ClientData {
	out := data.Clone()
	enc := k.TaskOnly().String()
	if done {
		out.CompletedItems, _ = state.AppendUnique(out.CompletedItems, enc)
	} else {
		out.CompletedItems, _ = state.Without(out.CompletedItems, enc)
	}
	return out
}

// Toggle flips the completion of a task.
func Toggle(data state.ClientData, k framework.Key) state.ClientData {
	return SetCompleted(data, k, !data.IsCompleted(k))
}

// Read returns the stored values of a task.
func Read(catalog *framework.Catalog, data state.ClientData, phaseID, subModuleID, taskID string) (TaskAnswers, error) {
	task, ok := catalog.Task(phaseID, subModuleID, taskID)
	if !ok {
		return TaskAnswers{}, fmt.Errorf("task %s/%s/%s: %w", phaseID, subModuleID, taskID, framework.ErrNotFound)
	}

	key := framework.TaskKey(phaseID, subModuleID, taskID)
	a := TaskAnswers{
		Key:    key,
		Fields: make(map[string]string, len(task.Inputs)),
		Main:   data.Input(key),
	}
	for _, in := range task.Inputs {
		a.Fields[in.ID] = data.Input(key.WithField(in.ID))
	}
	return a, nil
}

// HasInput reports whether anything is stored for the task, either its
// free-form value or one of its fields.
func HasInput(data state.ClientData, k framework.Key) bool {
	enc := k.TaskOnly().String()
	for stored := range data.UserInputs {
		if stored == enc || strings.HasPrefix(stored, enc+framework.KeySeparator) {
			return true
		}
	}
	return false
}
