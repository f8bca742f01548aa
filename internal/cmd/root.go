package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wiggumlabs/ralphctl/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "ralphctl",
	Short: "Ralph Wiggum iteration-loop controller",
	Long: `Ralphctl manages bounded iterative loops for an external text generator:
a task prompt is fed to the generator repeatedly until its output carries
the completion promise or the safety cap is reached.

The loop state survives process restarts, so start, run, status, and cancel
can be issued from separate invocations.`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/ralphctl/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/ralphctl")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("RALPHCTL")
	// Replace dots with underscores for nested keys in env vars
	// e.g., RALPHCTL_LOOP_DEFAULT_PROMISE for loop.default_promise
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
