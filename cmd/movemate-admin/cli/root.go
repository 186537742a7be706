package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"movemate-admin/internal/config"
)

var cfgFile string

// Execute creates the root command tree and runs it.
func Execute(version, commit, date string) error {
	return newRootCmd(version, commit, date).Execute()
}

func newRootCmd(version, commit, date string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "movemate-admin",
		Short: "MoveMate admin backend",
		Long: `Backend for the MoveMate admin dashboard: admin login, security-question
password reset and a read-only view of orders and drivers.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.Init(viper.GetViper(), cfgFile)
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./movemate.yaml)")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newUsersCmd())
	cmd.AddCommand(newVersionCmd(version, commit, date))

	return cmd
}
