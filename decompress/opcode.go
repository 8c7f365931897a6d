package decompress

import "fmt"

// Family is the opcode family selected by the top three bits of a control
// byte.
type Family uint8

// Opcode families, numbered by their selector bits.
const (
	LiteralRun Family = iota
	ByteFill
	PairFill
	Ramp
	AbsCopy
	AbsCopyInverted
	RelCopy
	Extended
)

var familyNames = [...]string{
	LiteralRun:      "literal",
	ByteFill:        "fill",
	PairFill:        "pair",
	Ramp:            "ramp",
	AbsCopy:         "copy",
	AbsCopyInverted: "invert",
	RelCopy:         "back",
	Extended:        "extended",
}

func (f Family) String() string {
	if int(f) < len(familyNames) {
		return familyNames[f]
	}
	return fmt.Sprintf("family(%d)", uint8(f))
}

// Sub-opcodes of the extended family, the control byte with the count
// extension bits masked off.
const (
	SubLiteralRun byte = 0xe0
	SubByteFill   byte = 0xe4
	SubPairFill   byte = 0xe8
	SubRelCopy    byte = 0xf8
)

// Terminator ends a compressed stream when read as a control byte.
const Terminator byte = 0xff

const (
	familyShift = 5
	countMask   = 0x1f
	extMask     = 0x03
	subMask     = 0xfc
)

// Opcode is a decoded control byte.
type Opcode struct {
	Control byte
	Family  Family

	// Count is the run length for families 0 to 6. It is always between
	// 1 and 32.
	Count int

	// Ext and Sub are only meaningful for the Extended family. Ext holds
	// the two count extension bits and Sub the masked sub-opcode.
	Ext int
	Sub byte
}

// ParseControl splits a control byte into its bit fields.
func ParseControl(b byte) Opcode {
	op := Opcode{
		Control: b,
		Family:  Family(b >> familyShift),
	}
	switch op.Family {
	case LiteralRun, ByteFill, PairFill, Ramp, AbsCopy, AbsCopyInverted, RelCopy:
		op.Count = int(b&countMask) + 1
	case Extended:
		op.Ext = int(b & extMask)
		op.Sub = b & subMask
	default:
		// Three bits can't select anything else
		panic("decompress: impossible opcode family")
	}
	return op
}

// ExtendedCount returns the run length of an extended opcode given the
// additional count byte read from the stream.
func (op Opcode) ExtendedCount(lo byte) int {
	return op.Ext<<8 + int(lo) + 1
}

func (op Opcode) String() string {
	if op.Family == Extended {
		return fmt.Sprintf("%s(%#02x, sub %#02x)", op.Family, op.Control, op.Sub)
	}
	return fmt.Sprintf("%s(%#02x, %d)", op.Family, op.Control, op.Count)
}
