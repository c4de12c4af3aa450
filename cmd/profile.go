package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jobpilot/internal/profile"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Inspect and extend the candidate profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the profile",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		a := newApplication()
		pretty, _ := json.MarshalIndent(a.loadProfile().Document(), "", "  ")
		fmt.Fprintln(cmd.OutOrStdout(), string(pretty))
	},
}

var profileAddSkillsCmd = &cobra.Command{
	Use:   "add-skills <skill>...",
	Short: "Normalize and add skills to the profile",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		extendProfile(cmd, profile.KindSkills, args)
	},
}

var profileAddQualificationsCmd = &cobra.Command{
	Use:   "add-qualifications <qualification>...",
	Short: "Normalize and add qualifications to the profile",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		extendProfile(cmd, profile.KindQualifications, args)
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileShowCmd, profileAddSkillsCmd, profileAddQualificationsCmd)

	profileCmd.PersistentFlags().Bool("raw", false, "add entries as given, without model normalization")
}

func extendProfile(cmd *cobra.Command, kind profile.Kind, entries []string) {
	ctx := context.Background()
	a := newApplication()
	p := a.loadProfile()

	if raw, _ := cmd.Flags().GetBool("raw"); !raw {
		normalizer := profile.NewNormalizer(a.gateway(ctx), a.prompts, a.logger)
		entries = normalizer.Normalize(ctx, kind, entries)
	}

	var added []string
	switch kind {
	case profile.KindQualifications:
		added = p.AddQualifications(entries)
	default:
		added = p.AddSkills(entries)
	}

	if len(added) == 0 {
		a.logger.Info("profile unchanged", zap.String("kind", string(kind)), zap.String("reason", "all entries already present"))
		return
	}

	if err := a.profiles.Save(p); err != nil {
		a.logger.Fatal("saving the profile", zap.Error(err))
	}
	a.logger.Info("profile updated", zap.String("kind", string(kind)), zap.Strings("added", added))
}
