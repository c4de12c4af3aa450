package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show and change runtime settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current settings",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		a := newApplication()
		s, err := a.settings.Load()
		if err != nil {
			a.logger.Fatal("loading settings", zap.Error(err))
		}

		pretty, _ := json.MarshalIndent(map[string]any{
			"developer_mode":   s.DeveloperMode,
			"preferred_models": s.PreferredModels,
			"credit_balance":   s.CreditBalance,
		}, "", "  ")
		fmt.Fprintln(cmd.OutOrStdout(), string(pretty))
	},
}

var settingsDevModeCmd = &cobra.Command{
	Use:       "dev-mode <on|off>",
	Short:     "Route every call to the cheap fallback model",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"on", "off"},
	Run: func(_ *cobra.Command, args []string) {
		a := newApplication()
		enabled, err := parseSwitch(args[0])
		if err != nil {
			a.logger.Fatal("parsing developer mode", zap.Error(err))
		}
		if err := a.settings.SetDeveloperMode(enabled); err != nil {
			a.logger.Fatal("saving settings", zap.Error(err))
		}
		a.logger.Info("developer mode updated", zap.Bool("enabled", enabled))
	},
}

var settingsSetModelCmd = &cobra.Command{
	Use:   "set-model <task> <model>",
	Short: "Set the preferred model of a task",
	Args:  cobra.ExactArgs(2),
	Run: func(_ *cobra.Command, args []string) {
		a := newApplication()
		if err := a.settings.SetModel(args[0], args[1]); err != nil {
			a.logger.Fatal("saving settings", zap.Error(err))
		}
		a.logger.Info("preferred model updated", zap.String("task", args[0]), zap.String("model", args[1]))
	},
}

var settingsSetBalanceCmd = &cobra.Command{
	Use:   "set-balance <usd>",
	Short: "Overwrite the credit balance",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		a := newApplication()
		amount, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			a.logger.Fatal("parsing balance", zap.Error(err))
		}
		if err := a.settings.SetBalance(amount); err != nil {
			a.logger.Fatal("saving settings", zap.Error(err))
		}
		a.logger.Info("credit balance updated", zap.Float64("balance", amount))
	},
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsShowCmd, settingsDevModeCmd, settingsSetModelCmd, settingsSetBalanceCmd)
}

func parseSwitch(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on", "true", "1", "yes":
		return true, nil
	case "off", "false", "0", "no":
		return false, nil
	default:
		return false, fmt.Errorf("expected on or off, got %q", value)
	}
}
