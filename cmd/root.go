package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "bs",
		Short:         "BetterSchedule CLI (bs): school timetable and session management",
		Long:          "bs (BetterSchedule CLI) logs in to the school information API, keeps the session token fresh, and renders the current timetable in the terminal.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newLoginCmd(app),
		newLogoutCmd(app),
		newRefreshCmd(app),
		newStatusCmd(app),
		newTimetableCmd(app),
		newWatchCmd(app),
	)

	return rootCmd
}
