package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"acqos/internal/state"
	"acqos/internal/workspace"
)

var (
	brandingKind  string
	brandingName  string
	brandingValue string
)

// brandingCmd manages the branding reference library
var brandingCmd = &cobra.Command{
	Use:   "branding",
	Short: "Manage branding assets (colors, fonts, links)",
}

var brandingListCmd = &cobra.Command{
	Use:   "list",
	Short: "List branding assets by module",
	Args:  cobra.NoArgs,
	RunE:  runBrandingList,
}

var brandingAddCmd = &cobra.Command{
	Use:   "add [name] [value]",
	Short: "Add a branding asset",
	Long: `Adds an asset to the branding library.

Examples:
  acq branding add "Couleur Secondaire" "#ff6600" --type color
  acq branding add "Site" https://acme.io --type link`,
	Args: cobra.ExactArgs(2),
	RunE: runBrandingAdd,
}

var brandingUpdateCmd = &cobra.Command{
	Use:   "update [asset-id]",
	Short: "Change the name, value or type of a branding asset",
	Long: `Changes an asset in place. Only the flags given are applied.

Example:
  acq branding update 1 --value "#1e1b4b"`,
	Args: cobra.ExactArgs(1),
	RunE: runBrandingUpdate,
}

var brandingRmCmd = &cobra.Command{
	Use:   "rm [asset-id]",
	Short: "Remove a branding asset",
	Args:  cobra.ExactArgs(1),
	RunE:  runBrandingRm,
}

func init() {
	brandingAddCmd.Flags().StringVar(&brandingKind, "type", string(state.AssetText), "Asset type: color, link or text")

	brandingUpdateCmd.Flags().StringVar(&brandingName, "name", "", "Asset name")
	brandingUpdateCmd.Flags().StringVar(&brandingValue, "value", "", "Asset value")
	brandingUpdateCmd.Flags().StringVar(&brandingKind, "type", string(state.AssetText), "Asset type: color, link or text")

	brandingCmd.AddCommand(brandingListCmd)
	brandingCmd.AddCommand(brandingAddCmd)
	brandingCmd.AddCommand(brandingUpdateCmd)
	brandingCmd.AddCommand(brandingRmCmd)
}

// moduleKinds maps branding modules to the asset kinds they show.
var moduleKinds = map[string][]state.AssetKind{
	"visual": {state.AssetColor, state.AssetText},
	"assets": {state.AssetLink},
}

func runBrandingList(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		out := cmd.OutOrStdout()
		data := a.ws.Data()
		for _, m := range a.catalog.BrandingModules() {
			fmt.Fprintf(out, "%s %s\n", m.Icon.Glyph(), m.Title)
			if m.ID == "voice" {
				v := data.BrandVoice
				fmt.Fprintf(out, "   ton : %s\n   archétype : %s\n   vocabulaire : %s\n   interdits : %s\n",
					v.Tone, v.Archetype, v.Vocabulary, v.Forbidden)
				continue
			}
			for _, kind := range moduleKinds[m.ID] {
				for _, asset := range data.AssetsOfKind(kind) {
					fmt.Fprintf(out, "   %-36s %-6s %-24s %s\n", asset.ID, asset.Kind, asset.Name, asset.Value)
				}
			}
		}
		return nil
	})
}

func runBrandingAdd(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		asset, err := a.ws.AddBrandingAsset(ctx, args[0], args[1], state.AssetKind(brandingKind))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Ajouté %s (%s)\n", asset.Name, asset.ID)
		return nil
	})
}

func runBrandingUpdate(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		asset, ok := a.ws.Data().Asset(args[0])
		if !ok {
			return fmt.Errorf("%w: %s", workspace.ErrAssetNotFound, args[0])
		}
		kind := string(asset.Kind)
		apply(cmd, "name", brandingName, &asset.Name)
		apply(cmd, "value", brandingValue, &asset.Value)
		apply(cmd, "type", brandingKind, &kind)
		asset.Kind = state.AssetKind(kind)

		if err := a.ws.UpdateBrandingAsset(ctx, asset); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Modifié %s : %s\n", asset.Name, asset.Value)
		return nil
	})
}

func runBrandingRm(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		if err := a.ws.RemoveBrandingAsset(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Supprimé %s\n", args[0])
		return nil
	})
}
