package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/golang/glog"

	"github.com/moffa90/go-ryflash/device"
	"github.com/moffa90/go-ryflash/flash"
	"github.com/moffa90/go-ryflash/openocd"
	"github.com/moffa90/go-ryflash/sim"
)

// session is the target connection and driver used by one command.
type session struct {
	drv   *flash.Driver
	close func() error
}

func openSession(ctx context.Context, progress flash.ProgressCallback) (*session, error) {
	dev := device.ByName(deviceName)
	if dev == nil {
		return nil, fmt.Errorf("target device '%s' not found (known: %s)", deviceName, strings.Join(device.Names(), ", "))
	}

	var tgt flash.Target
	closeFn := func() error { return nil }

	if useSim {
		glog.V(1).Infof("using simulated %s target", dev.Name)
		tgt = sim.New(dev)
	} else {
		client, err := openocd.Dial(ctx, openocdAddr)
		if err != nil {
			return nil, err
		}
		if haltTarget {
			if err := client.Halt(ctx); err != nil {
				client.Close()
				return nil, err
			}
		}
		tgt = client
		closeFn = client.Close
	}

	opts := []flash.Option{flash.WithLogger(glogLogger{})}
	if progress != nil {
		opts = append(opts, flash.WithProgressCallback(progress))
	}

	return &session{
		drv:   flash.New(tgt, dev, opts...),
		close: closeFn,
	}, nil
}

func (s *session) Close() {
	if err := s.close(); err != nil {
		glog.Warningf("close target: %v", err)
	}
}

// probeBank probes the bank with the given identifier.
func (s *session) probeBank(id int) (*flash.Bank, error) {
	bank := &flash.Bank{ID: id}
	if err := s.drv.Probe(bank); err != nil {
		return nil, err
	}
	return bank, nil
}

// bankFor returns the probed bank that contains [addr, addr+length).
func (s *session) bankFor(addr uint32, length int) (*flash.Bank, error) {
	for _, id := range s.drv.Device().BankIDs() {
		bank, err := s.probeBank(id)
		if err != nil {
			return nil, err
		}
		if addr >= bank.Base && uint64(addr)+uint64(length) <= uint64(bank.Base)+uint64(bank.Size) {
			return bank, nil
		}
	}
	return nil, fmt.Errorf("no bank of %s contains 0x%08X+%d", s.drv.Info(), addr, length)
}

func parseUint32(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return uint32(v), nil
}

func parseInt(s string) (int, error) {
	v, err := strconv.ParseInt(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return int(v), nil
}
