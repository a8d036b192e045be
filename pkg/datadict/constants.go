// Package datadict ships the Mnet wire constants and the controller's
// documented data-dictionary subset as process-wide immutable data: the
// packet-type codes, the real-time measurement ids, the command ids,
// the averaging-period sub-ids, and the alarm table. None of this
// reverse-engineers undocumented ids; it mirrors what spec.md §3 calls
// "an enumerated, documented subset."
package datadict

// PacketType is the big-endian message kind carried in a frame header.
type PacketType uint16

const (
	ReqSerialNumber  PacketType = 0x0C2E
	ReqLogin         PacketType = 0x13A1
	ReqData          PacketType = 0x0C28
	ReqMultipleData  PacketType = 0x0C2A
	ReqWriteData     PacketType = 0x0C2C
	ReqCommand       PacketType = 0x0C32
)

// CommandID identifies a send_command request body.
type CommandID uint16

const (
	CommandStart       CommandID = 0x0001
	CommandStop        CommandID = 0x0002
	CommandReset       CommandID = 0x0003
	CommandManualStart CommandID = 0x0004
)

// Averaging period sub-ids for real-time measurement main-ids.
const (
	AveragingInstantaneous uint16 = 0
	Averaging20ms          uint16 = 1000
	Averaging100ms         uint16 = 1500
	Averaging1s            uint16 = 2000
	Averaging30s           uint16 = 3000
	Averaging1min          uint16 = 4000
	Averaging10min         uint16 = 5000
	Averaging30min         uint16 = 6000
	Averaging1h            uint16 = 7000
	Averaging24h           uint16 = 8000
)

// Real-time measurement and status main-ids.
const (
	DataIDWindSpeed         uint16 = 0x9C43
	DataIDRotorRevs         uint16 = 0x9C46
	DataIDGenRevs           uint16 = 0x9C47
	DataIDGridVoltage       uint16 = 0x9CA4
	DataIDL1Voltage         uint16 = 0x9CA5
	DataIDL2Voltage         uint16 = 0x9CA6
	DataIDL3Voltage         uint16 = 0x9CA7
	DataIDGridCurrent       uint16 = 0x9CA8
	DataIDL1Current         uint16 = 0x9CA9
	DataIDL2Current         uint16 = 0x9CAA
	DataIDL3Current         uint16 = 0x9CAB
	DataIDGridPower         uint16 = 0x9CAC
	DataIDGridVAR           uint16 = 0x9CAD
	DataIDGridFrequency     uint16 = 0x9CAE

	DataIDSystemProduction uint16 = 0x80E9
	DataIDG1Production     uint16 = 0x80EA

	DataIDCurrentStatusCode      uint16 = 0x000C
	DataIDEventStackStatusCode   uint16 = 0x000B
	DataIDControllerTime         uint16 = 0xC353

	DataIDAlarmLastOccurred uint16 = 0xC73B
	DataIDAlarmDescription  uint16 = 0xC73C

	DataIDErrorCounterA       uint16 = 0xC739
	DataIDErrorCounterB       uint16 = 0xC79D
	DataIDErrorStopDurationA  uint16 = 0xC73A
	DataIDErrorStopDurationB  uint16 = 0xC79E
	DataIDErrorMiscC          uint16 = 0xC79C
)

// Event stack layout: 100 slots, 3 sub-ids each.
const (
	EventStackSize    = 100
	EventFieldCode      = 0
	EventFieldTimestamp = 1
	EventFieldText      = 2
)

// EventSubID computes the sub-id for a given event slot index and
// field offset (0=code, 1=timestamp, 2=text).
func EventSubID(index, field int) uint16 {
	return uint16(index*100 + field)
}

// Login wire constants.
var LoginVendorTag = [20]byte{
	0x31, 0x33, 0x31, 0x20, 0x66, 0x6B, 0x59, 0x75, 0x29, 0x29,
	0x31, 0x32, 0x32, 0x32, 0x31, 0x51, 0x51, 0x61, 0x61, 0x00,
}

const LoginPacketID uint32 = 0x0000007B
