package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mailbolt/mailbolt"
	"github.com/mailbolt/mailbolt/internal/config"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check a profile file",
	Long: `Check if a profile file is valid.

This validates:
  - YAML syntax
  - Include statements
  - The retry policy
  - DKIM triple completeness`,
	RunE: func(cmd *cobra.Command, args []string) error {
		profilePath := cfgFile
		if profilePath == "" {
			profilePath = config.DefaultProfileFile
		}

		if _, err := os.Stat(profilePath); os.IsNotExist(err) {
			return fmt.Errorf("profile file not found: %s", profilePath)
		}

		profile, err := config.Load(profilePath)
		if err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		}

		if err := profile.Validate(); err != nil {
			return fmt.Errorf("profile validation failed: %w", err)
		}

		fmt.Printf("✓ Profile file %s is valid\n", profilePath)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit, and build date of mailbolt.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("mailbolt %s\n", mailbolt.Version)
		if mailbolt.GitCommit != "" {
			fmt.Printf("  Commit: %s\n", mailbolt.GitCommit)
		}
		if mailbolt.BuildDate != "" {
			fmt.Printf("  Built:  %s\n", mailbolt.BuildDate)
		}
	},
}
