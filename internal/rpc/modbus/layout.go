// internal/rpc/modbus/layout.go
package modbus

// Backend mailbox layout constants.
// These values define the protocol and MUST NOT be configurable.

// ---- IDENTITY ----

// RegMagic holds MailboxMagic on every compatible board.
const RegMagic = 0

// RegVersion holds the mailbox revision.
const RegVersion = 1

// MailboxMagic is "GB" in ASCII.
const MailboxMagic uint16 = 0x4742

// MailboxVersion is the only revision this client speaks.
const MailboxVersion uint16 = 1

// ---- CONTROL ----

// RegOpcode triggers execution of the staged call when written.
const RegOpcode = 2

// RegStatus is the first of two registers holding the uint32 call status (big-endian).
const RegStatus = 3

// ---- ARGUMENTS ----

// RegArgs is the first argument register.
const RegArgs = 8

// ArgSlots is the number of argument registers.
const ArgSlots = 8

// ---- PAYLOAD ----

// RegPayload is the first register of the config payload area.
// Two payload bytes per register, high byte first.
const RegPayload = 32

// PayloadSlots is the size of the payload area in registers.
const PayloadSlots = 183

// PayloadMaxBytes is the largest blob the payload area can hold.
const PayloadMaxBytes = PayloadSlots * 2

// ---- RESULTS ----

// RegResults is the first register of the scan result area.
// Each counter is a uint32 stored as two registers, high word first.
const RegResults = 256

// MaxVFATs bounds the result area: MaxVFATs * PhasesPerVFAT counters.
const MaxVFATs = 32

// PhasesPerVFAT is the number of phase settings per VFAT.
const PhasesPerVFAT = 16

// ---- OPCODES ----

const (
	OpcodeWriteGBTConfig uint16 = 1
	OpcodeScanGBTPhases  uint16 = 2
	OpcodeWriteGBTPhase  uint16 = 3
)

// ---- FRAME LIMITS ----

// maxWriteQty is the Modbus limit for FC16 (write multiple registers).
const maxWriteQty = 123

// maxReadQty is kept even so uint32 counters never straddle two reads.
const maxReadQty = 124
