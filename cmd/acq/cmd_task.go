package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"acqos/cmd/acq/ui"
	"acqos/internal/answers"
	"acqos/internal/framework"
	"acqos/internal/unlock"
)

var (
	answerFields []string
	answerText   string
	showPlain    bool
	showWidth    int
	nextPhase    string
)

// taskCmd groups task commands
var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Read, answer and complete curriculum tasks",
	Long: `Tasks are addressed either by three ids or by their composite key:

  acq task show offre avatar-deep-dive avatar-core
  acq task show offre-avatar-deep-dive-avatar-core`,
}

var taskShowCmd = &cobra.Command{
	Use:   "show [task-key | phase sub-module task]",
	Short: "Show a task's instructions and saved answers",
	Args:  taskArgs,
	RunE:  runTaskShow,
}

var taskAnswerCmd = &cobra.Command{
	Use:   "answer [task-key | phase sub-module task]",
	Short: "Save answers for a task",
	Long: `Saves the structured fields and free-form notes of a task. Fields and notes
not given on the command line keep their saved value. Saving any value longer
than one character marks the task complete. Saving never un-completes a task.

Example:
  acq task answer offre-avatar-deep-dive-avatar-core --field "name=Jean, 32 ans" --field job=Cadre`,
	Args: taskArgs,
	RunE: runTaskAnswer,
}

var taskDoneCmd = &cobra.Command{
	Use:   "done [task-key | phase sub-module task]",
	Short: "Mark a task complete",
	Args:  taskArgs,
	RunE:  func(cmd *cobra.Command, args []string) error { return runTaskComplete(cmd, args, true) },
}

var taskUndoneCmd = &cobra.Command{
	Use:   "undone [task-key | phase sub-module task]",
	Short: "Mark a task not complete",
	Args:  taskArgs,
	RunE:  func(cmd *cobra.Command, args []string) error { return runTaskComplete(cmd, args, false) },
}

var taskToggleCmd = &cobra.Command{
	Use:   "toggle [task-key | phase sub-module task]",
	Short: "Flip the completion of a task",
	Args:  taskArgs,
	RunE:  runTaskToggle,
}

var taskNextCmd = &cobra.Command{
	Use:   "next",
	Short: "Show the next task to work on in the active phase",
	Args:  cobra.NoArgs,
	RunE:  runTaskNext,
}

func init() {
	taskShowCmd.Flags().BoolVar(&showPlain, "plain", false, "Print markdown without terminal rendering")
	taskShowCmd.Flags().IntVar(&showWidth, "width", 80, "Wrap width")
	addAnswerFlags(taskAnswerCmd.Flags())
	taskNextCmd.Flags().StringVar(&nextPhase, "phase", "", "Phase id (default: active phase)")

	taskCmd.AddCommand(taskShowCmd)
	taskCmd.AddCommand(taskAnswerCmd)
	taskCmd.AddCommand(taskDoneCmd)
	taskCmd.AddCommand(taskUndoneCmd)
	taskCmd.AddCommand(taskToggleCmd)
	taskCmd.AddCommand(taskNextCmd)
}

func addAnswerFlags(fs *pflag.FlagSet) {
	fs.StringArrayVarP(&answerFields, "field", "f", nil, "Field value as id=value (repeatable)")
	fs.StringVarP(&answerText, "text", "t", "", "Free-form notes")
}

// parseFields splits id=value pairs on the first "=".
func parseFields(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		id, value, ok := strings.Cut(p, "=")
		id = strings.TrimSpace(id)
		if !ok || id == "" {
			return nil, fmt.Errorf("field %q must be formatted as id=value", p)
		}
		out[id] = value
	}
	return out, nil
}

func taskArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 1 && len(args) != 3 {
		return fmt.Errorf("expected a task key or three ids, got %d arguments", len(args))
	}
	return nil
}

// resolveTask turns the arguments into a task key.
func resolveTask(c *framework.Catalog, args []string) (framework.Key, error) {
	if len(args) == 3 {
		return framework.TaskKey(args[0], args[1], args[2]), nil
	}
	k, ok := c.ParseKey(args[0])
	if !ok {
		return framework.Key{}, fmt.Errorf("task %q: %w", args[0], framework.ErrNotFound)
	}
	return k.TaskOnly(), nil
}

func runTaskShow(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		k, err := resolveTask(a.catalog, args)
		if err != nil {
			return err
		}
		task, err := a.ws.OpenTask(k.Phase, k.SubModule, k.Task)
		if err != nil {
			return err
		}
		data := a.ws.Data()
		saved, err := answers.Read(a.catalog, data, k.Phase, k.SubModule, k.Task)
		if err != nil {
			return err
		}

		md := ui.TaskMarkdown(task, saved.Fields, saved.Main, data.IsCompleted(k))
		if showPlain {
			fmt.Fprint(cmd.OutOrStdout(), md)
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), ui.RenderMarkdown(md, showWidth))
		return nil
	})
}

func runTaskAnswer(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		k, err := resolveTask(a.catalog, args)
		if err != nil {
			return err
		}
		task, ok := a.catalog.Lookup(k)
		if !ok {
			return fmt.Errorf("task %s: %w", k, framework.ErrNotFound)
		}
		given, err := parseFields(answerFields)
		if err != nil {
			return err
		}
		for id := range given {
			if _, ok := task.Input(id); !ok {
				return fmt.Errorf("task %s has no field %q", k, id)
			}
		}

		saved, err := answers.Read(a.catalog, a.ws.Data(), k.Phase, k.SubModule, k.Task)
		if err != nil {
			return err
		}
		for id, v := range given {
			saved.Fields[id] = v
		}
		if cmd.Flags().Changed("text") {
			saved.Main = answerText
		}

		if err := a.ws.RecordAnswer(ctx, k.Phase, k.SubModule, k.Task, saved.Fields, saved.Main); err != nil {
			return err
		}

		status := "en cours"
		if a.ws.Data().IsCompleted(k) {
			status = "terminée"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Réponses enregistrées pour %q (%s).\n", task.Title, status)
		printUnlockedStage(cmd, a, k)
		return nil
	})
}

func runTaskComplete(cmd *cobra.Command, args []string, done bool) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		k, err := resolveTask(a.catalog, args)
		if err != nil {
			return err
		}
		if err := a.ws.SetCompleted(ctx, k, done); err != nil {
			return err
		}
		printCompletion(cmd, a, k)
		return nil
	})
}

func runTaskToggle(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		k, err := resolveTask(a.catalog, args)
		if err != nil {
			return err
		}
		if err := a.ws.ToggleCompleted(ctx, k); err != nil {
			return err
		}
		printCompletion(cmd, a, k)
		return nil
	})
}

func printCompletion(cmd *cobra.Command, a *app, k framework.Key) {
	mark := "[ ]"
	if a.ws.Data().IsCompleted(k) {
		mark = "[x]"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", mark, k)
	printUnlockedStage(cmd, a, k)
}

// printUnlockedStage announces the following sub-module once the task's
// sub-module is complete.
func printUnlockedStage(cmd *cobra.Command, a *app, k framework.Key) {
	phase, ok := a.catalog.Phase(k.Phase)
	if !ok {
		return
	}
	sub, _, ok := phase.SubModule(k.SubModule)
	if !ok || !unlock.IsSubModuleComplete(phase.ID, sub, a.ws.Data()) {
		return
	}
	if next, ok := unlock.NextSubModule(phase, sub.ID); ok {
		fmt.Fprintf(cmd.OutOrStdout(), "Étape suivante débloquée : %s\n", next.Title)
	}
}

func runTaskNext(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		data := a.ws.Data()
		id := nextPhase
		if id == "" {
			id, _ = data.ActivePhase()
		}
		phase, ok := a.catalog.Phase(id)
		if !ok {
			return fmt.Errorf("%w: %q", unlock.ErrPhaseNotFound, id)
		}

		out := cmd.OutOrStdout()
		next, ok := unlock.NextAction(phase, data)
		if !ok {
			fmt.Fprintf(out, "Rien à faire dans %s.\n", phase.Title)
			return nil
		}
		remaining := 0
		for _, k := range a.catalog.TaskKeys(phase.ID) {
			if !data.IsCompleted(k) {
				remaining++
			}
		}
		fmt.Fprintf(out, "%s\n  %s (%d tâches restantes)\n  acq task show %s\n", next.Label(), next.SubModule.Title, remaining, next.Key)
		return nil
	})
}
