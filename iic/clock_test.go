package iic

import (
	"testing"

	"dvfsboot/mmio"
	"dvfsboot/rcar"
)

func TestClockForTable(t *testing.T) {
	tests := []struct {
		class      rcar.ExtalClass
		iccl, icch uint8
	}{
		{rcar.Extal16M66, 0x07, 0x01},
		{rcar.Extal20M, 0x09, 0x02},
		{rcar.Extal25M, 0x0B, 0x03},
		{rcar.Extal33M33, 0x0E, 0x05},
		{rcar.ExtalE3, 0x15, 0x07},
		{rcar.ExtalClass(42), 0x0E, 0x05}, // fallback
	}

	for _, tc := range tests {
		s := ClockFor(tc.class)
		if s.ICCL != tc.iccl || s.ICCH != tc.icch {
			t.Errorf("ClockFor(%v) = %s/%s, expected %s/%s",
				tc.class, hex8(s.ICCL), hex8(s.ICCH), hex8(tc.iccl), hex8(tc.icch))
		}
	}
}

func TestConfigureClockWritesDividers(t *testing.T) {
	tests := []struct {
		name       string
		prr        uint32
		modemr     uint32
		iccl, icch uint8
	}{
		{"H3 16.66MHz", uint32(rcar.ProductH3), 0x0000, 0x07, 0x01},
		{"M3 20MHz", uint32(rcar.ProductM3), 0x2000, 0x09, 0x02},
		{"M3N 25MHz", uint32(rcar.ProductM3N), 0x4000, 0x0B, 0x03},
		{"H3 33.33MHz", uint32(rcar.ProductH3), 0x6000, 0x0E, 0x05},
		{"E3 ignores straps", uint32(rcar.ProductE3), 0x2000, 0x15, 0x07},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := mmio.NewMemory()
			m.Write32(rcar.PRR, tc.prr)
			m.Write32(rcar.MODEMR, tc.modemr)

			c := New(m)
			c.configureClock()

			if got := m.Read8(rcar.IICDVFSBase + rcar.ICCL); got != tc.iccl {
				t.Errorf("ICCL = %s, expected %s", hex8(got), hex8(tc.iccl))
			}
			if got := m.Read8(rcar.IICDVFSBase + rcar.ICCH); got != tc.icch {
				t.Errorf("ICCH = %s, expected %s", hex8(got), hex8(tc.icch))
			}
		})
	}
}

func TestStatusEnableKeepsOtherBits(t *testing.T) {
	m := mmio.NewMemory()
	c := New(m)
	m.Write8(rcar.IICDVFSBase+rcar.ICIC, 0x40)

	c.setEnable(rcar.ICICTACKE | rcar.ICICWAITE | rcar.ICICDTEE)
	if got := m.Read8(rcar.IICDVFSBase + rcar.ICIC); got != 0x47 {
		t.Errorf("ICIC after setEnable = %s, want 0x47", hex8(got))
	}

	c.clearEnable(rcar.ICICDTEE)
	if got := m.Read8(rcar.IICDVFSBase + rcar.ICIC); got != 0x46 {
		t.Errorf("ICIC after clearEnable = %s, want 0x46", hex8(got))
	}
}
