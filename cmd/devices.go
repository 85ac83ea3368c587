package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/moffa90/go-ryflash/device"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List supported devices",
	Long:  `List the supported devices with their banks and mass-erase groups`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		bold := color.New(color.Bold)
		for _, name := range device.Names() {
			d := device.ByName(name)
			bold.Printf("%s", d.Name)
			fmt.Printf(" - %s\n", d.Description)

			for _, id := range d.BankIDs() {
				g := d.Banks[id]
				fmt.Printf("  bank %d: 0x%08X, %d KiB, %d x %d KiB sectors\n",
					id, g.Base, g.Size/1024, g.NumSectors(), g.SectorSize/1024)
			}
			for _, id := range d.GroupIDs() {
				fmt.Printf("  mass-erase group %d:", id)
				for _, t := range d.MassEraseGroups[id] {
					fmt.Printf(" %s%d", t.Kind, t.Instance)
				}
				fmt.Println()
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}
