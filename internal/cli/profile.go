package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/SquarePack/internal/gcode"
	"github.com/piwi3910/SquarePack/internal/project"
)

// profileStorePath is the custom G-code profile store.
var profileStorePath = project.DefaultProfilesPath()

// profileCmd manages G-code profiles
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage G-code profiles",
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List built-in and custom G-code profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		custom, err := project.LoadCustomProfiles(profileStorePath)
		if err != nil {
			return fmt.Errorf("failed to load custom profiles: %w", err)
		}
		w := cmd.OutOrStdout()
		for _, p := range gcode.Profiles {
			fmt.Fprintf(w, "%-16s built-in  %s\n", p.Name, p.Description)
		}
		for _, p := range custom {
			fmt.Fprintf(w, "%-16s custom    %s\n", p.Name, p.Description)
		}
		return nil
	},
}

var profileImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import a shared G-code profile from JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := project.ImportProfile(args[0])
		if err != nil {
			return fmt.Errorf("failed to import profile: %w", err)
		}
		custom, err := project.LoadCustomProfiles(profileStorePath)
		if err != nil {
			return fmt.Errorf("failed to load custom profiles: %w", err)
		}

		replaced := false
		for i := range custom {
			if custom[i].Name == profile.Name {
				custom[i] = profile
				replaced = true
			}
		}
		if !replaced {
			custom = append(custom, profile)
		}
		if err := project.SaveCustomProfiles(profileStorePath, custom); err != nil {
			return fmt.Errorf("failed to save custom profiles: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported profile %q\n", profile.Name)
		return nil
	},
}

func init() {
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileImportCmd)
}
