package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/moffa90/go-ryflash/flash"
	"github.com/moffa90/go-ryflash/openocd"
)

var (
	deviceName  string
	openocdAddr string
	useSim      bool
	haltTarget  bool
	verbosity   int
	timeout     time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "ryflash",
	Short: "Flash programmer for ry and xc2xx devices",
	Long: `A tool for erasing and programming the on-chip Program-Flash and
Data-Flash controllers of ry and xc2xx devices through OpenOCD.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = flag.Set("logtostderr", "true")
		_ = flag.Set("v", strconv.Itoa(verbosity))
	},
}

// Execute runs the root command and exits with status 1 on failure.
func Execute() {
	err := rootCmd.Execute()
	glog.Flush()
	if err != nil {
		color.Red("Error: %v", err)
		if errors.Is(err, flash.ErrNotHalted) {
			fmt.Fprintln(os.Stderr, "Halt the core first, or pass --halt.")
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&deviceName, "device", "d", "ry", "target device (see 'devices')")
	rootCmd.PersistentFlags().StringVar(&openocdAddr, "openocd", openocd.DefaultAddr, "OpenOCD Tcl RPC address")
	rootCmd.PersistentFlags().BoolVar(&useSim, "sim", false, "run against an in-memory simulated target")
	rootCmd.PersistentFlags().BoolVar(&haltTarget, "halt", false, "halt the core before touching flash")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity (-vvvv traces every register access)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "overall command timeout")
}

// commandContext returns the context of one command run, canceled on
// interrupt or after --timeout.
func commandContext() (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	if timeout <= 0 {
		return ctx, stop
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}
