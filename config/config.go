// Package config loads host-side board profiles: which SoC and mode pins to
// model, which slaves sit on the DVFS bus, and which bus faults to inject.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"dvfsboot/rcar"
	"dvfsboot/sim"
)

// Profile describes one simulated board.
type Profile struct {
	Product   string                  `json:"product"`
	ModeMR    uint32                  `json:"modemr"`
	PollLimit uint32                  `json:"poll_limit"`
	StuckBusy bool                    `json:"stuck_busy"`
	Devices   map[string]DeviceConfig `json:"devices"`
	Faults    []FaultConfig           `json:"faults"`
	Console   ConsoleConfig           `json:"console"`
}

// DeviceConfig is one slave on the bus. Register keys are parsed with
// strconv base 0, so "0x70" and "112" name the same register.
type DeviceConfig struct {
	Address   uint8            `json:"address"`
	Registers map[string]uint8 `json:"registers"`
}

// FaultConfig schedules an injected bus condition.
type FaultConfig struct {
	Kind    string `json:"kind"`    // "arbitration-lost" or "nack"
	Attempt int    `json:"attempt"` // 0 = every attempt
	Byte    int    `json:"byte"`    // 0 = slave address
	AtStart bool   `json:"at_start"`
}

// ConsoleConfig selects the serial port debug output is mirrored to.
type ConsoleConfig struct {
	Device string `json:"device"`
	Baud   int    `json:"baud"`
}

// LoadProfile parses a JSON profile and fills in defaults.
func LoadProfile(jsonData []byte) (*Profile, error) {
	var p Profile

	if err := json.Unmarshal(jsonData, &p); err != nil {
		return nil, err
	}

	applyDefaults(&p)

	return &p, nil
}

// LoadProfileFile reads and parses a profile from disk.
func LoadProfileFile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadProfile(data)
}

func applyDefaults(p *Profile) {
	if p.Product == "" {
		p.Product = rcar.ProductH3.String()
	}
	if p.PollLimit == 0 {
		p.PollLimit = 100000 // Enough for the simulator, far below the silicon bound
	}
	if p.Console.Baud == 0 {
		p.Console.Baud = 115200 // SCIF2 debug console
	}
	if p.Devices == nil {
		p.Devices = DefaultProfile().Devices
	}
}

// DefaultProfile returns a Salvator-XS with an H3 and 16.66 MHz EXTAL.
func DefaultProfile() *Profile {
	return &Profile{
		Product:   "H3",
		ModeMR:    0,
		PollLimit: 100000,
		Devices: map[string]DeviceConfig{
			"bd9571": {
				Address: 0x30,
				Registers: map[string]uint8{
					"0x20": 0x01, // BKUP_MODE_CNT
					"0x54": 0x53, // DVFS_SETVID at AVS0
					"0x79": 0x55, // KEEP10 cold-boot magic
				},
			},
			"eeprom": {
				Address: 0x50,
				Registers: map[string]uint8{
					"0x70": 0x21, // Salvator-XS rev 1
				},
			},
		},
		Console: ConsoleConfig{Baud: 115200},
	}
}

var products = []rcar.Product{
	rcar.ProductH3, rcar.ProductM3, rcar.ProductV3M, rcar.ProductM3N,
	rcar.ProductV3H, rcar.ProductE3, rcar.ProductD3,
}

// ParseProduct maps a product name such as "H3" to its PRR value.
func ParseProduct(name string) (rcar.Product, error) {
	for _, p := range products {
		if p.String() == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown product %q", name)
}

func parseFault(f FaultConfig) (sim.Fault, error) {
	out := sim.Fault{Attempt: f.Attempt, Byte: f.Byte}
	switch f.Kind {
	case "arbitration-lost":
		out.Kind = sim.ArbitrationLost
	case "nack":
		out.Kind = sim.Nack
	default:
		return out, fmt.Errorf("unknown fault kind %q", f.Kind)
	}
	if f.AtStart {
		if out.Kind != sim.ArbitrationLost {
			return out, fmt.Errorf("only arbitration-lost can fire at START")
		}
		out.Byte = sim.AtStart
	}
	return out, nil
}

// NewBoard builds the simulated SoC the profile describes.
func (p *Profile) NewBoard() (*sim.Board, error) {
	product, err := ParseProduct(p.Product)
	if err != nil {
		return nil, err
	}

	b := sim.NewBoard(product, p.ModeMR)
	b.StuckBusy = p.StuckBusy

	for name, d := range p.Devices {
		if d.Address > 0x7F {
			return nil, fmt.Errorf("device %s: address 0x%X is not 7-bit", name, d.Address)
		}
		regs := make(map[uint8]uint8, len(d.Registers))
		for key, v := range d.Registers {
			reg, err := strconv.ParseUint(key, 0, 8)
			if err != nil {
				return nil, fmt.Errorf("device %s: register %q: %w", name, key, err)
			}
			regs[uint8(reg)] = v
		}
		b.Attach(d.Address, sim.NewRegisterFile(name, regs))
	}

	for i, f := range p.Faults {
		fault, err := parseFault(f)
		if err != nil {
			return nil, fmt.Errorf("fault %d: %w", i, err)
		}
		b.Faults = append(b.Faults, fault)
	}

	return b, nil
}
