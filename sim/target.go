package sim

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/moffa90/go-ryflash/device"
	"github.com/moffa90/go-ryflash/protocol"
)

// Op is the kind of a recorded access.
type Op int

const (
	OpRead Op = iota
	OpWrite
	OpHaltState
)

func (o Op) String() string {
	switch o {
	case OpRead:
		return "read"
	case OpWrite:
		return "write"
	case OpHaltState:
		return "halt-state"
	default:
		return fmt.Sprintf("Op(%d)", int(o))
	}
}

// Access is one recorded target access.
type Access struct {
	Op    Op
	Addr  uint32
	Value uint32
}

func (a Access) String() string {
	switch a.Op {
	case OpWrite:
		return fmt.Sprintf("write [0x%08X] <- 0x%08X", a.Addr, a.Value)
	case OpRead:
		return fmt.Sprintf("read  [0x%08X] -> 0x%08X", a.Addr, a.Value)
	default:
		return a.Op.String()
	}
}

// Target is an in-memory model of the flash controllers of one device. It
// implements the register protocol closely enough to stand in for hardware:
//   - controllers ignore every write until the two unlock keys are written
//   - erase and program only touch sectors enabled in SWER
//   - programming can only clear bits, erasing sets bytes to 0xFF
//   - logical flash reads are decoded through the current mapping register
//
// Target is safe for concurrent use.
type Target struct {
	mu sync.Mutex

	dev    *device.Descriptor
	halted bool
	mapReg uint32
	busy   int

	ctrls   []*controller
	storage map[uint32][]byte

	fault    func(Access) error
	log      []Access
	rejected int
}

// New creates a halted simulated target for dev with all flash erased.
//
// Example:
//
//	tgt := sim.New(device.ByName("ry"))
//	drv := flash.New(tgt, device.ByName("ry"))
func New(dev *device.Descriptor) *Target {
	if dev == nil {
		panic("device descriptor cannot be nil")
	}

	t := &Target{
		dev:     dev,
		halted:  true,
		storage: make(map[uint32][]byte),
	}
	for i := range dev.Regions {
		r := &dev.Regions[i]
		for inst, base := range r.Controllers {
			t.ctrls = append(t.ctrls, &controller{region: r, instance: inst, base: base})
		}
	}
	return t
}

// SetHalted sets the core state reported by IsHalted.
func (t *Target) SetHalted(halted bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.halted = halted
}

// SetMapRegister sets the mapping-configuration register.
func (t *Target) SetMapRegister(v uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.mapReg = v
}

// MapRegister returns the mapping-configuration register.
func (t *Target) MapRegister() uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mapReg
}

// SetBusy sets how many status reads report busy after each started command.
// A negative count keeps the controllers busy forever.
func (t *Target) SetBusy(reads int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.busy = reads
}

// SetFault installs a hook called before every access. A non-nil error fails
// the access without side effects. Pass nil to remove the hook.
func (t *Target) SetFault(fault func(Access) error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fault = fault
}

// Accesses returns a copy of the access log.
func (t *Target) Accesses() []Access {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Access(nil), t.log...)
}

// ResetAccesses clears the access log.
func (t *Target) ResetAccesses() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.log = nil
}

// Rejected returns the number of started commands the controllers refused.
func (t *Target) Rejected() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rejected
}

// Unlocked reports whether the controller of the given kind and instance
// accepted the unlock handshake.
func (t *Target) Unlocked(kind protocol.Kind, instance int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, c := range t.ctrls {
		if c.region.Kind == kind && c.instance == instance {
			return c.lock == unlocked
		}
	}
	return false
}

// Load copies data into flash at a logical address, bypassing the controllers.
func (t *Target) Load(addr uint32, data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, b := range data {
		_, mem, off, err := t.locate(addr + uint32(i))
		if err != nil {
			return err
		}
		mem[off] = b
	}
	return nil
}

// Peek returns n bytes of flash at a logical address, decoded through the
// current mapping.
func (t *Target) Peek(addr uint32, n int) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]byte, n)
	for i := range out {
		_, mem, off, err := t.locate(addr + uint32(i))
		if err != nil {
			return nil, err
		}
		out[i] = mem[off]
	}
	return out, nil
}

// ReadU32 implements flash.Target.
func (t *Target) ReadU32(ctx context.Context, addr uint32) (uint32, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.check(ctx, Access{Op: OpRead, Addr: addr}); err != nil {
		return 0, err
	}

	v, err := t.read(addr)
	if err != nil {
		return 0, err
	}
	t.log = append(t.log, Access{Op: OpRead, Addr: addr, Value: v})
	return v, nil
}

// WriteU32 implements flash.Target.
func (t *Target) WriteU32(ctx context.Context, addr, value uint32) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	a := Access{Op: OpWrite, Addr: addr, Value: value}
	if err := t.check(ctx, a); err != nil {
		return err
	}
	if err := t.write(addr, value); err != nil {
		return err
	}
	t.log = append(t.log, a)
	return nil
}

// IsHalted implements flash.Target.
func (t *Target) IsHalted(ctx context.Context) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.check(ctx, Access{Op: OpHaltState}); err != nil {
		return false, err
	}
	return t.halted, nil
}

func (t *Target) check(ctx context.Context, a Access) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if t.fault != nil {
		return t.fault(a)
	}
	return nil
}

func (t *Target) read(addr uint32) (uint32, error) {
	if addr%protocol.WordSize != 0 {
		return 0, fmt.Errorf("sim: unaligned read at 0x%08X", addr)
	}
	if t.dev.MapModeRegister != 0 && addr == t.dev.MapModeRegister {
		return t.mapReg, nil
	}
	if c := t.controllerAt(addr); c != nil {
		return c.readReg(addr - c.base), nil
	}

	_, mem, off, err := t.locate(addr)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(mem[off:]), nil
}

func (t *Target) write(addr, value uint32) error {
	if addr%protocol.WordSize != 0 {
		return fmt.Errorf("sim: unaligned write at 0x%08X", addr)
	}
	if t.dev.MapModeRegister != 0 && addr == t.dev.MapModeRegister {
		t.mapReg = value
		return nil
	}
	if c := t.controllerAt(addr); c != nil {
		if c.writeReg(addr-c.base, value) {
			t.start(c)
		}
		return nil
	}
	if _, ok := t.dev.Classify(addr); ok {
		return fmt.Errorf("sim: flash at 0x%08X is not writable by bus access", addr)
	}
	return fmt.Errorf("sim: bus fault writing 0x%08X", addr)
}

func (t *Target) controllerAt(addr uint32) *controller {
	for _, c := range t.ctrls {
		if c.contains(addr) {
			return c
		}
	}
	return nil
}

// locate decodes a logical flash address to its owning controller and the
// backing storage of the window it falls in.
func (t *Target) locate(addr uint32) (*controller, []byte, uint32, error) {
	r, ok := t.dev.Classify(addr)
	if !ok {
		return nil, nil, 0, fmt.Errorf("sim: bus fault at 0x%08X", addr)
	}
	mode := r.Mode(t.mapReg)
	inst, win, ok := r.Find(addr, mode)
	if !ok {
		return nil, nil, 0, fmt.Errorf("sim: bus fault at 0x%08X (%s mapping)", addr, mode)
	}

	// Storage is keyed by the physical window: the single-map base of the
	// instance, or the base of a fixed window.
	key := r.Maps[protocol.MapSingle][inst]
	for _, fw := range r.Fixed {
		if fw.Window == win {
			key = fw.Base
		}
	}

	var ctrl *controller
	for _, c := range t.ctrls {
		if c.region == r && c.instance == inst {
			ctrl = c
		}
	}
	return ctrl, t.mem(key, win.Size), addr - win.Base, nil
}

func (t *Target) mem(key, size uint32) []byte {
	m, ok := t.storage[key]
	if !ok {
		m = make([]byte, size)
		for i := range m {
			m[i] = protocol.ErasedByte
		}
		t.storage[key] = m
	}
	return m
}

// start executes the command loaded into c.
func (t *Target) start(c *controller) {
	ok := false
	switch c.wmr {
	case protocol.ModeSectorErase:
		ok = t.eraseSector(c)
	case protocol.ModeMassErase:
		ok = t.massErase(c)
	case protocol.ModeSingleProgram:
		n := c.loadedWords()
		ok = n > 0 && t.program(c, c.oar, c.pdr[:n])
	case protocol.ModeSeriesProgram:
		if c.loadedWords() == protocol.DataRegisterCount {
			ok = t.program(c, c.next, c.pdr[:])
			c.next += protocol.GroupSize
		}
	}
	if !ok {
		t.rejected++
	}
	c.loaded = 0
	c.busy = t.busy
}

func (t *Target) eraseSector(c *controller) bool {
	owner, mem, off, err := t.locate(c.oar)
	if err != nil || owner != c || !c.sectorEnabled(off) {
		return false
	}
	size := c.region.SectorSize
	start := off - off%size
	for i := start; i < start+size && int(i) < len(mem); i++ {
		mem[i] = protocol.ErasedByte
	}
	return true
}

// massErase clears the main array of c. The address register is not decoded.
func (t *Target) massErase(c *controller) bool {
	if !c.allSectorsEnabled() {
		return false
	}
	mem := t.mem(c.region.Maps[protocol.MapSingle][c.instance], c.region.BlockSize)
	for i := range mem {
		mem[i] = protocol.ErasedByte
	}
	return true
}

// program ANDs words into flash starting at addr.
func (t *Target) program(c *controller, addr uint32, words []uint32) bool {
	if addr%protocol.WordSize != 0 {
		return false
	}
	for i, w := range words {
		a := addr + uint32(i*protocol.WordSize)
		owner, mem, off, err := t.locate(a)
		if err != nil || owner != c || !c.sectorEnabled(off) {
			return false
		}
		var b [protocol.WordSize]byte
		binary.LittleEndian.PutUint32(b[:], w)
		for k := range b {
			mem[off+uint32(k)] &= b[k]
		}
	}
	return true
}
