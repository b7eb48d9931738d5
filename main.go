package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"MultilinearPCS/modules/logger"
)

var verbose bool

func init() {
	pcsCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging.")
}

var pcsCmd = &cobra.Command{
	Use:   "pcs",
	Short: "Multilinear polynomial commitment utilities",
	Args:  cobra.NoArgs,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if !verbose {
			logger.Disable()
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.HelpFunc()(cmd, args)
	},
}

func main() {
	if err := pcsCmd.Execute(); err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}
}
