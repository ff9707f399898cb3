package pmic

// AVSLevel maps an adaptive voltage scaling fuse code to a SetVID value.
type AVSLevel struct {
	Code       uint32
	VID        uint8
	Millivolts int
}

var avsTable = []AVSLevel{
	{Code: 0x00, VID: 0x53, Millivolts: 830}, // AVS0
	{Code: 0x01, VID: 0x52, Millivolts: 820}, // AVS1
	{Code: 0x02, VID: 0x51, Millivolts: 810}, // AVS2
	{Code: 0x04, VID: 0x50, Millivolts: 800}, // AVS3
	{Code: 0x08, VID: 0x4F, Millivolts: 790}, // AVS4
	{Code: 0x10, VID: 0x4E, Millivolts: 780}, // AVS5
	{Code: 0x20, VID: 0x4D, Millivolts: 770}, // AVS6
	{Code: 0x40, VID: 0x4C, Millivolts: 760}, // AVS7
}

// LookupAVS returns the level for a fuse code. Unknown codes use AVS0.
func LookupAVS(code uint32) AVSLevel {
	for _, l := range avsTable {
		if l.Code == code {
			return l
		}
	}
	return avsTable[0]
}

// AVSLevels returns a copy of the table, lowest index first.
func AVSLevels() []AVSLevel {
	out := make([]AVSLevel, len(avsTable))
	copy(out, avsTable)
	return out
}
