// Package rcar holds the R-Car Gen3 register map used during early boot and
// helpers to decode the product and mode-pin registers.
package rcar

// Product register and mode pins
const (
	PRR    = 0xFFF00044 // Product register
	MODEMR = 0xE6160060 // Mode monitor register (boot strap pins)

	PRRProductMask = 0x00007F00

	ModeMD13MD14Mask = 0x00006000 // MD14/MD13: EXTAL frequency select
)

// Clock pulse generator (module standby control)
const (
	CPGBase   = 0xE6150000
	CPGWPR    = CPGBase + 0x0900 // Write protect
	SMSTPCR9  = CPGBase + 0x0994 // System module stop control 9
	MSTPSR9   = CPGBase + 0x09A4 // Module stop status 9
	SCMSTPCR9 = CPGBase + 0x0B44 // Secure module stop control 9

	MSTP9IICDVFS = 0x04000000 // Bit 26: IIC for DVFS
)

// IIC for DVFS register block
const (
	IICDVFSBase = 0xE60B0000

	ICDR = 0x0000 // Data
	ICCR = 0x0004 // Control
	ICSR = 0x0008 // Status
	ICIC = 0x000C // Interrupt (status) enable
	ICCL = 0x0010 // SCL low period
	ICCH = 0x0014 // SCL high period
)

// ICSR status bits. Flags are cleared by writing the register back with the
// bit masked off; BUSY is read-only.
const (
	ICSRBusy = 0x10
	ICSRAL   = 0x08 // Arbitration lost
	ICSRTACK = 0x04 // Transmit acknowledge not received
	ICSRWait = 0x02
	ICSRDTE  = 0x01 // Data transmit enable
)

// ICIC enable bits (polled, never routed to the GIC during boot)
const (
	ICICTACKE = 0x04
	ICICWAITE = 0x02
	ICICDTEE  = 0x01
)

// ICCR values
const (
	ICCREnable         = 0x80
	ICCRStart          = 0x94
	ICCRStop           = 0x90
	ICCRRetransmission = 0x94
	ICCRChange         = 0x81 // Switch master transmit to master receive
	ICCRStopRead       = 0xC0
)
