package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/moffa90/go-ryflash/flash"
	"github.com/spf13/cobra"
)

var eraseCheckCmd = &cobra.Command{
	Use:   "erase-check <bank> [first [last]]",
	Short: "Report which sectors of a bank are blank",
	Long: `Read the sectors first..last of a bank, or the whole bank when no range is
given, and report each one as erased or dirty`,
	Args: cobra.RangeArgs(1, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt(args[0])
		if err != nil {
			return err
		}

		ctx, cancel := commandContext()
		defer cancel()

		pb := newProgressBar()
		s, err := openSession(ctx, pb.Update)
		if err != nil {
			return err
		}
		defer s.Close()

		bank, err := s.probeBank(id)
		if err != nil {
			return err
		}
		first, last, err := sectorRange(bank, args[1:])
		if err != nil {
			return err
		}

		err = s.drv.EraseCheck(ctx, bank, first, last)
		pb.Finish()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		dirty := 0
		for i := first; i <= last; i++ {
			sec := bank.Sectors[i]
			state := color.GreenString("%s", sec.State)
			if sec.State != flash.StateErased {
				state = color.YellowString("%s", sec.State)
				dirty++
			}
			fmt.Fprintf(out, "  #%-4d 0x%08X  %s\n", i, bank.Addr(i), state)
		}
		fmt.Fprintf(out, "%d of %d sectors erased\n", last-first+1-dirty, last-first+1)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(eraseCheckCmd)
}
