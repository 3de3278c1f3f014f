// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the codefinder build version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		short, _ := cmd.Flags().GetBool("short")
		_, err := fmt.Fprintln(cmd.OutOrStdout(), versionString(short))
		return err
	},
}

// versionString formats the build version, with the toolchain and platform
// unless short is set.
func versionString(short bool) string {
	if short {
		return version
	}
	return fmt.Sprintf("codefinder %s (%s %s/%s)", version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

func init() {
	versionCmd.Flags().Bool("short", false, "print only the version number")

	rootCmd.AddCommand(versionCmd)
}
