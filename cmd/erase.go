package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/moffa90/go-ryflash/flash"
	"github.com/spf13/cobra"
)

var eraseCmd = &cobra.Command{
	Use:   "erase <bank> [first [last]]",
	Short: "Erase sectors of a bank",
	Long:  `Erase the sectors first..last of a bank, or the whole bank when no range is given`,
	Args:  cobra.RangeArgs(1, 3),
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

		err = s.drv.Erase(ctx, bank, first, last)
		pb.Finish()
		if err != nil {
			return err
		}

		color.Green("Erased sectors %d-%d of bank %d", first, last, bank.ID)
		fmt.Printf("  0x%08X-0x%08X\n", bank.Addr(first), uint64(bank.Addr(last))+uint64(bank.Sectors[last].Size)-1)
		return nil
	},
}

// sectorRange parses the optional [first [last]] arguments. No arguments
// select the whole bank and a single one selects one sector.
func sectorRange(bank *flash.Bank, args []string) (first, last int, err error) {
	first, last = 0, len(bank.Sectors)-1
	if len(args) > 0 {
		if first, err = parseInt(args[0]); err != nil {
			return 0, 0, err
		}
		last = first
	}
	if len(args) > 1 {
		if last, err = parseInt(args[1]); err != nil {
			return 0, 0, err
		}
	}
	return first, last, nil
}

func init() {
	rootCmd.AddCommand(eraseCmd)
}
