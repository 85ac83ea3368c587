package openocd

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang/glog"
)

// DefaultAddr is the default OpenOCD Tcl RPC endpoint.
const DefaultAddr = "localhost:6666"

// terminator ends every command and every reply on the Tcl RPC port.
const terminator = 0x1a

// Client is a connection to the Tcl RPC server of a running OpenOCD instance.
// It implements flash.Target on the current target of that instance.
//
// Client is safe for concurrent use; commands are serialized on the connection.
type Client struct {
	mu      sync.Mutex
	conn    net.Conn
	r       *bufio.Reader
	timeout time.Duration
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithTimeout sets the deadline of a command when the context has none.
// Default is 10 seconds.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// Dial connects to the OpenOCD Tcl RPC server at addr.
//
// Example:
//
//	client, err := openocd.Dial(ctx, openocd.DefaultAddr)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
func Dial(ctx context.Context, addr string, opts ...Option) (*Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("connect to openocd at %s: %w", addr, err)
	}
	glog.V(1).Infof("connected to openocd at %s", addr)
	return NewClient(conn, opts...), nil
}

// NewClient wraps an established connection.
func NewClient(conn net.Conn, opts ...Option) *Client {
	if conn == nil {
		panic("connection cannot be nil")
	}
	c := &Client{
		conn:    conn,
		r:       bufio.NewReader(conn),
		timeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Command runs one Tcl command and returns its result text.
func (c *Client) Command(ctx context.Context, cmd string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.timeout)
	}
	if err := c.conn.SetDeadline(deadline); err != nil {
		return "", err
	}

	if _, err := c.conn.Write(append([]byte(cmd), terminator)); err != nil {
		return "", &CommandError{Command: cmd, Err: err}
	}
	reply, err := c.r.ReadString(terminator)
	if err != nil {
		return "", &CommandError{Command: cmd, Err: err}
	}
	reply = strings.TrimSpace(strings.TrimSuffix(reply, string(rune(terminator))))

	glog.V(4).Infof("%s => %q", cmd, reply)
	return reply, nil
}

// ReadU32 reads one 32-bit word of target memory.
func (c *Client) ReadU32(ctx context.Context, addr uint32) (uint32, error) {
	cmd := fmt.Sprintf("read_memory 0x%08x 32 1", addr)
	reply, err := c.Command(ctx, cmd)
	if err != nil {
		return 0, err
	}

	fields := strings.Fields(reply)
	if len(fields) != 1 {
		return 0, &CommandError{Command: cmd, Reply: reply}
	}
	v, err := strconv.ParseUint(fields[0], 0, 32)
	if err != nil {
		return 0, &CommandError{Command: cmd, Reply: reply}
	}
	return uint32(v), nil
}

// WriteU32 writes one 32-bit word of target memory.
func (c *Client) WriteU32(ctx context.Context, addr, value uint32) error {
	cmd := fmt.Sprintf("write_memory 0x%08x 32 {0x%08x}", addr, value)
	reply, err := c.Command(ctx, cmd)
	if err != nil {
		return err
	}
	if reply != "" {
		return &CommandError{Command: cmd, Reply: reply}
	}
	return nil
}

// State returns the state of the current target, such as "halted" or "running".
func (c *Client) State(ctx context.Context) (string, error) {
	return c.Command(ctx, "[target current] curstate")
}

// IsHalted reports whether the current target is halted.
func (c *Client) IsHalted(ctx context.Context) (bool, error) {
	state, err := c.State(ctx)
	if err != nil {
		return false, err
	}
	return state == "halted", nil
}

// Halt requests a halt of the current target and checks that it took effect.
func (c *Client) Halt(ctx context.Context) error {
	if _, err := c.Command(ctx, "halt"); err != nil {
		return err
	}
	halted, err := c.IsHalted(ctx)
	if err != nil {
		return err
	}
	if !halted {
		return fmt.Errorf("target did not halt")
	}
	return nil
}
