package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/moffa90/go-ryflash/firmware"
)

var readCmd = &cobra.Command{
	Use:   "read <bank> <offset> <length> <outfile>",
	Short: "Read flash contents",
	Long: `Read flash contents of a bank. Files ending in .hex are written as Intel HEX,
anything else as raw binary; "-" writes binary to stdout.`,
	Args: cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt(args[0])
		if err != nil {
			return err
		}
		offset, err := parseUint32(args[1])
		if err != nil {
			return err
		}
		length, err := parseUint32(args[2])
		if err != nil {
			return err
		}

		ctx, cancel := commandContext()
		defer cancel()

		s, err := openSession(ctx, nil)
		if err != nil {
			return err
		}
		defer s.Close()

		bank, err := s.probeBank(id)
		if err != nil {
			return err
		}
		data, err := s.drv.Read(ctx, bank, offset, length)
		if err != nil {
			return err
		}

		w, err := openWrite(args[3])
		if err != nil {
			return err
		}
		if strings.EqualFold(filepath.Ext(args[3]), ".hex") {
			err = firmware.WriteHex(w, bank.Base+offset, data)
		} else {
			_, err = w.Write(data)
		}
		if cerr := w.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stderr, "Read %d bytes from 0x%08X, CRC16 0x%04X\n", len(data), bank.Base+offset, firmware.CRC16(data))
		return nil
	},
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func openWrite(arg string) (io.WriteCloser, error) {
	if arg == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	return os.Create(arg)
}

func init() {
	rootCmd.AddCommand(readCmd)
}
