package rcar

import "dvfsboot/mmio"

// Product is the PRR product field (PRR & PRRProductMask).
type Product uint32

// Known products
const (
	ProductH3  Product = 0x4F00
	ProductM3  Product = 0x5200
	ProductV3M Product = 0x5400
	ProductM3N Product = 0x5500
	ProductV3H Product = 0x5600
	ProductE3  Product = 0x5700
	ProductD3  Product = 0x5800
)

func (p Product) String() string {
	switch p {
	case ProductH3:
		return "H3"
	case ProductM3:
		return "M3"
	case ProductV3M:
		return "V3M"
	case ProductM3N:
		return "M3N"
	case ProductV3H:
		return "V3H"
	case ProductE3:
		return "E3"
	case ProductD3:
		return "D3"
	default:
		return "unknown"
	}
}

// ReadProduct returns the product field of PRR.
func ReadProduct(b mmio.Bus) Product {
	return Product(b.Read32(PRR) & PRRProductMask)
}

// ExtalClass is the EXTAL frequency class strapped on MD14/MD13.
type ExtalClass uint8

const (
	Extal16M66 ExtalClass = iota // MD14/MD13 = 0b00
	Extal20M                     // 0b01
	Extal25M                     // 0b10
	Extal33M33                   // 0b11
	ExtalE3                      // E3 fixed clock, not strapped
)

func (c ExtalClass) String() string {
	switch c {
	case Extal16M66:
		return "16.6666MHz"
	case Extal20M:
		return "20MHz"
	case Extal25M:
		return "25MHz"
	case Extal33M33:
		return "33.3333MHz"
	case ExtalE3:
		return "E3"
	default:
		return "unknown"
	}
}

// DecodeExtal maps a raw MODEMR value to its EXTAL class.
func DecodeExtal(modemr uint32) ExtalClass {
	switch modemr & ModeMD13MD14Mask {
	case 0x0000:
		return Extal16M66
	case 0x2000:
		return Extal20M
	case 0x4000:
		return Extal25M
	default:
		return Extal33M33
	}
}

// DetectExtal reads the strap pins. E3 bypasses detection and always reports
// ExtalE3.
func DetectExtal(b mmio.Bus) ExtalClass {
	if ReadProduct(b) == ProductE3 {
		return ExtalE3
	}
	return DecodeExtal(b.Read32(MODEMR))
}
