package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var massEraseCmd = &cobra.Command{
	Use:   "mass-erase <group>",
	Short: "Mass erase a group of controller instances",
	Long:  `Mass erase every controller instance of a group (see 'devices' for the groups)`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		pb := newProgressBar()
		s, err := openSession(ctx, pb.Update)
		if err != nil {
			return err
		}
		defer s.Close()

		err = s.drv.MassEraseCommand(ctx, nil, args)
		pb.Finish()
		if err != nil {
			return err
		}

		color.Green("Mass erase of group %s complete", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(massEraseCmd)
}
