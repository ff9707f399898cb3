package main

import (
	"fmt"
	"io"
	"strconv"

	"dvfsboot/board"
	"dvfsboot/config"
	"dvfsboot/iic"
	"dvfsboot/pmic"
	"dvfsboot/rcar"
	"dvfsboot/sim"
)

// session is one simulated board with a driver bound to it.
type session struct {
	profile *config.Profile
	board   *sim.Board
	ctrl    *iic.Controller
	pmic    *pmic.BD9571
	out     io.Writer
	aborts  int
}

func newSession(p *config.Profile, out io.Writer) (*session, error) {
	b, err := p.NewBoard()
	if err != nil {
		return nil, err
	}

	s := &session{profile: p, board: b, out: out}
	s.ctrl = iic.New(b)
	s.ctrl.SetPollLimit(p.PollLimit)
	s.ctrl.SetAbortHandler(func(reason string) {
		s.aborts++
	})
	s.pmic = pmic.New(s.ctrl)
	return s, nil
}

func parseByte(arg string) (uint8, error) {
	v, err := strconv.ParseUint(arg, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("bad byte %q", arg)
	}
	return uint8(v), nil
}

func parseBytes(args []string, n int) ([]uint8, error) {
	if len(args) != n {
		return nil, fmt.Errorf("expected %d arguments, got %d", n, len(args))
	}
	out := make([]uint8, n)
	for i, a := range args {
		v, err := parseByte(a)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// execute runs one command. A fatal driver abort is reported as an error
// so the interactive loop survives it.
func (s *session) execute(parts []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			f, ok := r.(*iic.Fatal)
			if !ok {
				panic(r)
			}
			err = f
		}
	}()

	cmd, args := parts[0], parts[1:]
	s.board.ResetTrace()

	switch cmd {
	case "send":
		v, err := parseBytes(args, 3)
		if err != nil {
			return err
		}
		if err := s.ctrl.Send(v[0], v[1], v[2]); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "sent 0x%02X to 0x%02X:0x%02X\n", v[2], v[0], v[1])

	case "recv":
		v, err := parseBytes(args, 2)
		if err != nil {
			return err
		}
		data, err := s.ctrl.Receive(v[0], v[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "0x%02X:0x%02X = 0x%02X\n", v[0], v[1], data)

	case "board":
		info, err := board.Detect(s.ctrl, rcar.ReadProduct(s.board))
		if err != nil {
			fmt.Fprintf(s.out, "detect failed (%v), assuming default\n", err)
		}
		fmt.Fprintf(s.out, "board: %v\n", info)

	case "avs":
		if len(args) != 1 {
			return fmt.Errorf("usage: avs <code>")
		}
		code, err := strconv.ParseUint(args[0], 0, 32)
		if err != nil {
			return fmt.Errorf("bad AVS code %q", args[0])
		}
		level := pmic.LookupAVS(uint32(code))
		if err := s.pmic.SetAVS(uint32(code)); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "VID 0x%02X (%d mV)\n", level.VID, level.Millivolts)

	case "pmic":
		if len(args) != 1 && len(args) != 2 {
			return fmt.Errorf("usage: pmic <reg> [value]")
		}
		v, err := parseBytes(args, len(args))
		if err != nil {
			return err
		}
		if len(v) == 2 {
			if err := s.pmic.WriteRegister(v[0], v[1]); err != nil {
				return err
			}
		}
		data, err := s.pmic.ReadRegister(v[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "pmic 0x%02X = 0x%02X\n", v[0], data)

	case "warmboot":
		warm, err := s.pmic.IsWarmBoot()
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "warm boot: %v\n", warm)

	case "suspend":
		if err := s.pmic.PrepareSuspend(); err != nil {
			return err
		}
		if err := s.pmic.ClearKeep10(); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "suspend prepared")

	case "events":
		for _, e := range iic.Events() {
			fmt.Fprintf(s.out, "%d %v icsr=0x%02X errors=%d\n", e.EventType, e.State, e.Status, e.Errors)
		}
		return nil

	default:
		return fmt.Errorf("unknown command: %s (type 'help' for available commands)", cmd)
	}

	s.printTrace()
	return nil
}

func (s *session) printTrace() {
	for _, line := range sim.Strings(s.board.Trace) {
		fmt.Fprintln(s.out, "  "+line)
	}
	fmt.Fprintf(s.out, "  (%d attempts)\n", s.board.Attempts())
}
