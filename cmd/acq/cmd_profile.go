package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"acqos/internal/progress"
	"acqos/internal/workspace"
)

// Flag values. Only flags that were set on the command line are applied, so
// a command can edit one field and keep the rest.
var (
	flagName, flagDomain                         string
	flagVersion, flagMission, flagAudience       string
	flagPrefix                                   string
	flagGoal, flagDeadline, flagSituation        string
	flagMotivation                               string
	flagTone, flagArchetype, flagVocab, flagForb string
)

var identityCmd = &cobra.Command{
	Use:   "identity",
	Short: "Edit the project identity (first phase)",
}

var identitySetCmd = &cobra.Command{
	Use:   "set",
	Short: "Save the identity form",
	Long: `Saves the identity form. When both the client name and the domain are
set, the offer phase is unlocked. The offer phase becomes the active phase.

Example:
  acq identity set --name Acme --domain acme.io --mission "Aider les indépendants"`,
	RunE: runIdentitySet,
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Edit the client name and domain",
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change the client name and domain",
	RunE:  runSettingsSet,
}

var objectivesCmd = &cobra.Command{
	Use:   "objectives",
	Short: "Edit the SMART objectives",
}

var objectivesSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change the objectives",
	RunE:  runObjectivesSet,
}

var voiceCmd = &cobra.Command{
	Use:   "voice",
	Short: "Edit the brand voice",
}

var voiceSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change the brand voice",
	RunE:  runVoiceSet,
}

func init() {
	addClientFlags(identitySetCmd.Flags())
	identitySetCmd.Flags().StringVar(&flagVersion, "version", "", "Identity version label")
	identitySetCmd.Flags().StringVar(&flagMission, "mission", "", "Mission statement")
	identitySetCmd.Flags().StringVar(&flagAudience, "audience", "", "Target audience summary")
	identitySetCmd.Flags().StringVar(&flagPrefix, "prefix", "", "Selected domain prefix")
	identityCmd.AddCommand(identitySetCmd)

	addClientFlags(settingsSetCmd.Flags())
	settingsCmd.AddCommand(settingsSetCmd)

	objectivesSetCmd.Flags().StringVar(&flagGoal, "goal", "", "SMART goal")
	objectivesSetCmd.Flags().StringVar(&flagDeadline, "deadline", "", "Deadline")
	objectivesSetCmd.Flags().StringVar(&flagSituation, "situation", "", "Current situation")
	objectivesSetCmd.Flags().StringVar(&flagMotivation, "motivation", "", "Motivation")
	objectivesCmd.AddCommand(objectivesSetCmd)

	voiceSetCmd.Flags().StringVar(&flagTone, "tone", "", "Tone")
	voiceSetCmd.Flags().StringVar(&flagArchetype, "archetype", "", "Brand archetype")
	voiceSetCmd.Flags().StringVar(&flagVocab, "vocabulary", "", "Preferred vocabulary")
	voiceSetCmd.Flags().StringVar(&flagForb, "forbidden", "", "Forbidden words")
	voiceCmd.AddCommand(voiceSetCmd)
}

func addClientFlags(fs *pflag.FlagSet) {
	fs.StringVar(&flagName, "name", "", "Client name")
	fs.StringVar(&flagDomain, "domain", "", "Client domain")
}

// apply copies a flag value into dst when the flag was given.
func apply(cmd *cobra.Command, name string, value string, dst *string) {
	if cmd.Flags().Changed(name) {
		*dst = value
	}
}

func runIdentitySet(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		d := a.ws.Data()
		form := workspace.IdentityForm{
			ClientName:   d.ClientName,
			ClientDomain: d.ClientDomain,
			Identity:     d.Identity,
		}
		apply(cmd, "name", flagName, &form.ClientName)
		apply(cmd, "domain", flagDomain, &form.ClientDomain)
		apply(cmd, "version", flagVersion, &form.Identity.Version)
		apply(cmd, "mission", flagMission, &form.Identity.Mission)
		apply(cmd, "audience", flagAudience, &form.Identity.TargetAudienceSummary)
		apply(cmd, "prefix", flagPrefix, &form.Identity.SelectedDomainPrefix)

		if err := a.ws.SaveIdentity(ctx, form); err != nil {
			return err
		}

		d = a.ws.Data()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Identité enregistrée (%d%%).\n", progress.Identity(d))
		if d.HasUnlocked("offre") {
			fmt.Fprintln(out, "Phase Offre débloquée : acq phase show offre")
		} else {
			fmt.Fprintln(out, "Renseignez le nom et le domaine pour débloquer la phase Offre.")
		}
		return nil
	})
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		d := a.ws.Data()
		name, domain := d.ClientName, d.ClientDomain
		apply(cmd, "name", flagName, &name)
		apply(cmd, "domain", flagDomain, &domain)
		if err := a.ws.UpdateSettings(ctx, name, domain); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Paramètres enregistrés.")
		return nil
	})
}

func runObjectivesSet(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		o := a.ws.Data().Objectives
		apply(cmd, "goal", flagGoal, &o.SmartGoal)
		apply(cmd, "deadline", flagDeadline, &o.Deadline)
		apply(cmd, "situation", flagSituation, &o.CurrentSituation)
		apply(cmd, "motivation", flagMotivation, &o.Motivation)
		if err := a.ws.UpdateObjectives(ctx, o); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Objectifs enregistrés.")
		return nil
	})
}

func runVoiceSet(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		v := a.ws.Data().BrandVoice
		apply(cmd, "tone", flagTone, &v.Tone)
		apply(cmd, "archetype", flagArchetype, &v.Archetype)
		apply(cmd, "vocabulary", flagVocab, &v.Vocabulary)
		apply(cmd, "forbidden", flagForb, &v.Forbidden)
		if err := a.ws.UpdateBrandVoice(ctx, v); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Voix de marque enregistrée.")
		return nil
	})
}
