package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var probeCmd = &cobra.Command{
	Use:   "probe [bank...]",
	Short: "Show bank geometry and current mapping",
	Long: `Probe the given banks (all banks by default) and show which controller
instance currently owns the first byte of each.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		s, err := openSession(ctx, nil)
		if err != nil {
			return err
		}
		defer s.Close()

		dev := s.drv.Device()
		if dev.HasDualMapping() {
			fmt.Printf("%s: mapping mode read from 0x%08X\n", dev.Name, dev.MapModeRegister)
		}

		ids := dev.BankIDs()
		if len(args) > 0 {
			ids = ids[:0]
			for _, arg := range args {
				id, err := parseInt(arg)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}
		}

		for _, id := range ids {
			bank, err := s.probeBank(id)
			if err != nil {
				return err
			}
			fmt.Printf("bank %d: 0x%08X-0x%08X, %d sectors", bank.ID, bank.Base, uint64(bank.Base)+uint64(bank.Size)-1, len(bank.Sectors))

			loc, err := s.drv.Resolve(ctx, bank.Base)
			if err != nil {
				color.Yellow(" (%v)", err)
				continue
			}
			fmt.Printf(", %s%d (%s map, controller 0x%08X)\n", loc.Kind, loc.Instance, loc.Mode, loc.Controller)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(probeCmd)
}
