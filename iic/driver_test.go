package iic

import (
	"reflect"
	"strings"
	"testing"

	"dvfsboot/rcar"
	"dvfsboot/sim"
)

const (
	pmicAddr   = 0x30
	eepromAddr = 0x50
)

func newTestBoard(t *testing.T) (*sim.Board, *Controller, *sim.RegisterFile, *sim.RegisterFile) {
	t.Helper()
	ClearEventRing()

	board := sim.NewBoard(rcar.ProductH3, 0x00000000)
	pmic := sim.NewRegisterFile("bd9571", nil)
	eeprom := sim.NewRegisterFile("eeprom", map[uint8]uint8{0x70: 0x42})
	board.Attach(pmicAddr, pmic)
	board.Attach(eepromAddr, eeprom)

	c := New(board)
	c.SetPollLimit(10000)
	return board, c, pmic, eeprom
}

// expectFatal runs fn and reports the Fatal it raised, failing the test if
// fn returned normally.
func expectFatal(t *testing.T, fn func()) (f *Fatal) {
	t.Helper()
	returned := false
	func() {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			var ok bool
			if f, ok = r.(*Fatal); !ok {
				panic(r)
			}
		}()
		fn()
		returned = true
	}()
	if returned {
		t.Fatal("Expected fatal abort, but call returned normally")
	}
	return f
}

func TestSendScenario(t *testing.T) {
	board, c, pmic, _ := newTestBoard(t)

	if err := c.Send(0x30, 0x54, 0x52); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	expected := []string{
		"enable",
		"clock-config 0x07/0x01",
		"START",
		"write 0x60",
		"write 0x54",
		"write 0x52",
		"STOP",
		"disable",
	}
	got := sim.Strings(board.Trace)
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Unexpected bus trace\n got: %v\nwant: %v", got, expected)
	}
	if pmic.Regs[0x54] != 0x52 {
		t.Errorf("Expected PMIC register 0x54 = 0x52, got %s", hex8(pmic.Regs[0x54]))
	}
	if !board.ClockRunning() {
		t.Error("Expected IIC DVFS module clock to be enabled")
	}
}

func TestReceiveScenario(t *testing.T) {
	board, c, _, _ := newTestBoard(t)

	v, err := c.Receive(0x50, 0x70)
	if err != nil {
		t.Fatalf("Receive failed: %v", err)
	}
	if v != 0x42 {
		t.Errorf("Expected 0x42, got %s", hex8(v))
	}

	expected := []string{
		"enable",
		"clock-config 0x07/0x01",
		"START",
		"write 0xA0",
		"write 0x70",
		"RETRANSMIT",
		"write 0xA1",
		"CHANGE-DIRECTION",
		"STOP-READ",
		"read 0x42",
		"disable",
	}
	got := sim.Strings(board.Trace)
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Unexpected bus trace\n got: %v\nwant: %v", got, expected)
	}
}

func TestRoundTrip(t *testing.T) {
	board, c, _, _ := newTestBoard(t)

	slaves := []uint8{0x00, 0x08, 0x30, 0x50, 0x7F}
	for _, slave := range slaves {
		board.Attach(slave, sim.NewRegisterFile("dev", nil))
	}

	for _, slave := range slaves {
		for _, reg := range []uint8{0x00, 0x20, 0x54, 0x70, 0xFF} {
			for _, data := range []uint8{0x00, 0x01, 0x52, 0xA5, 0xFF} {
				if err := c.Send(slave, reg, data); err != nil {
					t.Fatalf("Send(%s, %s, %s) failed: %v", hex8(slave), hex8(reg), hex8(data), err)
				}
				got, err := c.Receive(slave, reg)
				if err != nil {
					t.Fatalf("Receive(%s, %s) failed: %v", hex8(slave), hex8(reg), err)
				}
				if got != data {
					t.Errorf("Round trip %s/%s: wrote %s, read %s", hex8(slave), hex8(reg), hex8(data), hex8(got))
				}
			}
		}
	}
}

func TestRecoveryWithinBudget(t *testing.T) {
	tests := []struct {
		name string
		kind sim.FaultKind
		at   int
	}{
		{"arbitration lost at start", sim.ArbitrationLost, sim.AtStart},
		{"arbitration lost on address", sim.ArbitrationLost, 0},
		{"arbitration lost on register", sim.ArbitrationLost, 1},
		{"nack on address", sim.Nack, 0},
		{"nack on data", sim.Nack, 2},
	}

	for _, tc := range tests {
		for n := 0; n <= MaxRetries; n++ {
			t.Run(tc.name+"/"+itoa(n), func(t *testing.T) {
				board, c, pmic, _ := newTestBoard(t)
				for attempt := 1; attempt <= n; attempt++ {
					board.Faults = append(board.Faults, sim.Fault{Kind: tc.kind, Attempt: attempt, Byte: tc.at})
				}

				if err := c.Send(pmicAddr, 0x20, 0x10); err != nil {
					t.Fatalf("Send with %d faults failed: %v", n, err)
				}
				if pmic.Regs[0x20] != 0x10 {
					t.Errorf("Expected register written after recovery, got %s", hex8(pmic.Regs[0x20]))
				}
				if got := board.Attempts(); got != n+1 {
					t.Errorf("Expected %d attempts, got %d", n+1, got)
				}
				// One stop and disable per recovery, plus the final ones
				if got := sim.Count(board.Trace, sim.EvStop); got != n+1 {
					t.Errorf("Expected %d stop conditions, got %d", n+1, got)
				}
				if got := sim.Count(board.Trace, sim.EvDisable); got != n+1 {
					t.Errorf("Expected %d disables, got %d", n+1, got)
				}
			})
		}
	}
}

func TestReceiveRecoversFromArbitrationLoss(t *testing.T) {
	board, c, _, eeprom := newTestBoard(t)
	eeprom.Regs[0x10] = 0x9C
	board.Faults = []sim.Fault{
		{Kind: sim.ArbitrationLost, Attempt: 1, Byte: 2}, // read address
		{Kind: sim.Nack, Attempt: 2, Byte: 1},
	}

	v, err := c.Receive(eepromAddr, 0x10)
	if err != nil {
		t.Fatalf("Receive failed: %v", err)
	}
	if v != 0x9C {
		t.Errorf("Expected 0x9C, got %s", hex8(v))
	}
	if board.Attempts() != 3 {
		t.Errorf("Expected 3 attempts, got %d", board.Attempts())
	}
}

func TestPersistentFaultsGiveUp(t *testing.T) {
	tests := []struct {
		name   string
		faults []sim.Fault
		slave  uint8
	}{
		{"arbitration lost every start", []sim.Fault{{Kind: sim.ArbitrationLost, Attempt: sim.AnyAttempt, Byte: sim.AtStart}}, pmicAddr},
		{"arbitration lost every register byte", []sim.Fault{{Kind: sim.ArbitrationLost, Attempt: sim.AnyAttempt, Byte: 1}}, pmicAddr},
		{"nack every address", []sim.Fault{{Kind: sim.Nack, Attempt: sim.AnyAttempt, Byte: 0}}, pmicAddr},
		{"absent device", nil, 0x11},
	}

	for _, tc := range tests {
		t.Run(tc.name+"/send", func(t *testing.T) {
			board, c, _, _ := newTestBoard(t)
			board.Faults = tc.faults

			if err := c.Send(tc.slave, 0x00, 0x00); err != ErrRetriesExhausted {
				t.Errorf("Expected ErrRetriesExhausted, got %v", err)
			}
			if got := board.Attempts(); got != MaxRetries+1 {
				t.Errorf("Expected exactly %d attempts, got %d", MaxRetries+1, got)
			}
		})

		t.Run(tc.name+"/receive", func(t *testing.T) {
			board, c, _, _ := newTestBoard(t)
			board.Faults = tc.faults

			out := uint8(0xEE)
			if rc := c.ReceiveCode(tc.slave, 0x00, &out); rc != -1 {
				t.Errorf("Expected -1, got %d", rc)
			}
			if out != 0xEE {
				t.Errorf("Output must be untouched on failure, got %s", hex8(out))
			}
			if got := board.Attempts(); got != MaxRetries+1 {
				t.Errorf("Expected exactly %d attempts, got %d", MaxRetries+1, got)
			}
		})
	}
}

func TestStuckBusyAborts(t *testing.T) {
	board, c, _, _ := newTestBoard(t)
	board.StuckBusy = true
	c.SetPollLimit(500)

	var reasons []string
	c.SetAbortHandler(func(reason string) {
		reasons = append(reasons, reason)
	})

	var dump []string
	SetDebugWriter(func(s string) { dump = append(dump, s) })
	defer SetDebugWriter(func(s string) {})

	f := expectFatal(t, func() {
		c.Send(pmicAddr, 0x54, 0x52)
	})

	if len(reasons) != 1 {
		t.Fatalf("Expected abort handler called once, got %d", len(reasons))
	}
	if f.State != Done {
		t.Errorf("Expected abort in DONE, got %v", f.State)
	}
	if board.BusyPolls < 500 {
		t.Errorf("Expected the busy-wait to exhaust its bound, got %d polls", board.BusyPolls)
	}
	if len(dump) == 0 {
		t.Error("Expected the event ring to be dumped on abort")
	}
	evts := Events()
	if evts[len(evts)-1].EventType != EvtAbort {
		t.Errorf("Expected last event to be an abort, got %d", evts[len(evts)-1].EventType)
	}
}

func TestStuckBusyDuringRecoveryAborts(t *testing.T) {
	board, c, _, _ := newTestBoard(t)
	board.StuckBusy = true
	board.Faults = []sim.Fault{{Kind: sim.Nack, Attempt: 1, Byte: 0}}
	c.SetPollLimit(100)

	calls := 0
	c.SetAbortHandler(func(string) { calls++ })

	f := expectFatal(t, func() {
		c.Receive(eepromAddr, 0x70)
	})
	if calls != 1 {
		t.Errorf("Expected abort handler called once, got %d", calls)
	}
	if f.State != WriteAddr {
		t.Errorf("Expected abort while recovering in WRITE_ADDR, got %v", f.State)
	}
}

func TestUndefinedStateAborts(t *testing.T) {
	_, c, _, _ := newTestBoard(t)

	tests := []transaction{
		{state: BusState(99)},
		{state: Retransmit},            // read-only state in a write
		{state: WriteData, read: true}, // write-only state in a read
	}
	for _, tx := range tests {
		tx := tx
		f := expectFatal(t, func() {
			c.dispatch(&tx)
		})
		if f.State != tx.state {
			t.Errorf("Expected abort state %v, got %v", tx.state, f.State)
		}
	}
}

func TestInvalidAddress(t *testing.T) {
	board, c, _, _ := newTestBoard(t)

	if err := c.Send(0x80, 0, 0); err != ErrInvalidAddress {
		t.Errorf("Expected ErrInvalidAddress, got %v", err)
	}
	if _, err := c.Receive(0xFF, 0); err != ErrInvalidAddress {
		t.Errorf("Expected ErrInvalidAddress, got %v", err)
	}
	if len(board.Trace) != 0 {
		t.Errorf("Expected no bus activity, got %v", sim.Strings(board.Trace))
	}
}

func TestCodeAPI(t *testing.T) {
	_, c, pmic, _ := newTestBoard(t)

	if rc := c.SendCode(pmicAddr, 0x27, 0x00); rc != 0 {
		t.Errorf("SendCode: expected 0, got %d", rc)
	}
	pmic.Regs[0x20] = 0x3C

	var out uint8
	if rc := c.ReceiveCode(pmicAddr, 0x20, &out); rc != 0 {
		t.Errorf("ReceiveCode: expected 0, got %d", rc)
	}
	if out != 0x3C {
		t.Errorf("Expected 0x3C, got %s", hex8(out))
	}
	if rc := c.SendCode(0x12, 0x00, 0x00); rc != -1 {
		t.Errorf("SendCode to absent device: expected -1, got %d", rc)
	}
}

func TestSequentialCallsAreIndependent(t *testing.T) {
	board, c, _, _ := newTestBoard(t)

	// A failed call must not leak its error count into the next one
	board.Faults = []sim.Fault{{Kind: sim.Nack, Attempt: sim.AnyAttempt, Byte: 0}}
	if err := c.Send(pmicAddr, 0, 0); err != ErrRetriesExhausted {
		t.Fatalf("Expected ErrRetriesExhausted, got %v", err)
	}

	board.ResetTrace()
	board.Faults = []sim.Fault{
		{Kind: sim.Nack, Attempt: 1, Byte: 0},
		{Kind: sim.Nack, Attempt: 2, Byte: 0},
	}
	if err := c.Send(pmicAddr, 0, 0); err != nil {
		t.Errorf("Expected fresh retry budget, got %v", err)
	}
}

func TestEventRingRecordsRecovery(t *testing.T) {
	board, c, _, _ := newTestBoard(t)
	board.Faults = []sim.Fault{{Kind: sim.ArbitrationLost, Attempt: 1, Byte: sim.AtStart}}

	if err := c.Send(pmicAddr, 0x01, 0x02); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	var sawArb, sawComplete bool
	for _, evt := range Events() {
		switch evt.EventType {
		case EvtArbLost:
			sawArb = true
			if evt.State != SetSlave {
				t.Errorf("Expected arbitration loss observed in SET_SLAVE, got %v", evt.State)
			}
		case EvtComplete:
			sawComplete = true
			if evt.Errors != 1 {
				t.Errorf("Expected 1 recovered fault at completion, got %d", evt.Errors)
			}
		}
	}
	if !sawArb || !sawComplete {
		t.Errorf("Missing events: arb=%v complete=%v", sawArb, sawComplete)
	}

	// The dummy byte releases the latch after losing arbitration in SET_SLAVE
	if got := sim.Strings(board.Trace)[4]; got != "write 0x52" {
		t.Errorf("Expected dummy byte after arbitration loss, got %q", got)
	}
}

func TestGiveUpLineFollowsDebugSwitch(t *testing.T) {
	var lines []string
	SetDebugWriter(func(s string) { lines = append(lines, s) })
	defer SetDebugWriter(func(s string) {})
	defer SetDebugEnabled(false)

	for _, enabled := range []bool{false, true} {
		lines = nil
		SetDebugEnabled(enabled)

		_, c, _, _ := newTestBoard(t)
		if err := c.Send(0x11, 0x00, 0x00); err != ErrRetriesExhausted {
			t.Fatalf("Expected ErrRetriesExhausted, got %v", err)
		}

		found := false
		for _, l := range lines {
			if strings.Contains(l, "giving up") {
				found = true
			}
		}
		if found != enabled {
			t.Errorf("debug=%v: giving-up line written = %v, lines %v", enabled, found, lines)
		}
	}
}
