package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <address>...",
	Short: "Resolve logical addresses to controller instances",
	Long: `Resolve logical addresses to the controller instance that owns them,
using the mapping mode currently configured on the device.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		s, err := openSession(ctx, nil)
		if err != nil {
			return err
		}
		defer s.Close()

		for _, arg := range args {
			addr, err := parseUint32(arg)
			if err != nil {
				return err
			}
			loc, err := s.drv.Resolve(ctx, addr)
			if err != nil {
				return err
			}
			fmt.Printf("0x%08X: %s%d, controller 0x%08X, window 0x%08X+0x%X (%s)\n",
				addr, loc.Kind, loc.Instance, loc.Controller, loc.Window.Base, loc.Window.Size, loc.Mode)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}
