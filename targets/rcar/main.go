//go:build tinygo

package main

import (
	"dvfsboot/board"
	"dvfsboot/iic"
	"dvfsboot/mmio"
	"dvfsboot/pmic"
	"dvfsboot/rcar"
)

// Core voltage programmed until the AVS fuse value is known.
const defaultAVSCode = 0x00

func main() {
	mmio.SetBus(mmio.Raw{})
	bus := mmio.MustBus()

	con := console{bus: bus}
	iic.SetDebugWriter(con.Println)

	product := rcar.ReadProduct(bus)
	con.Println("NOTICE:  R-Car " + product.String() + ", EXTAL " + rcar.DetectExtal(bus).String())

	ctrl := iic.New(bus)
	ctrl.SetAbortHandler(func(reason string) {
		con.Println("ERROR:   IIC DVFS: " + reason)
	})

	info, err := board.Detect(ctrl, product)
	if err != nil {
		con.Println("WARNING: " + err.Error())
	}
	con.Println("NOTICE:  Board " + info.String())

	p := pmic.New(ctrl)
	warm, err := p.IsWarmBoot()
	if err != nil {
		con.Println("ERROR:   " + err.Error())
		halt()
	}
	if warm {
		con.Println("NOTICE:  Resuming from suspend-to-RAM")
	} else {
		if err := p.DisableBackupControl(); err != nil {
			con.Println("ERROR:   " + err.Error())
		}
		if err := p.SetKeep10(); err != nil {
			con.Println("ERROR:   " + err.Error())
		}
	}

	if err := p.SetAVS(defaultAVSCode); err != nil {
		con.Println("ERROR:   " + err.Error())
	}

	halt()
}

func halt() {
	for {
	}
}
