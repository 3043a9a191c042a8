package primitive

import "fmt"

// Subsystem identifies the detector that produced a primitive.
type Subsystem int

const (
	DT Subsystem = iota
	RPCBarrel
	CSC
	RPCEndcap
)

// NumSubsystems is the number of 4-bit groups in a stub mode word.
const NumSubsystems = 4

var subsystemNames = map[Subsystem]string{
	DT:        "DT",
	RPCBarrel: "RPCb",
	CSC:       "CSC",
	RPCEndcap: "RPCf",
}

func (s Subsystem) String() string {
	if n, ok := subsystemNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Subsystem(%d)", int(s))
}

// MarshalText renders the subsystem by name.
func (s Subsystem) MarshalText() ([]byte, error) {
	n, ok := subsystemNames[s]
	if !ok {
		return nil, fmt.Errorf("unknown subsystem %d", int(s))
	}
	return []byte(n), nil
}

// UnmarshalText accepts the names produced by MarshalText.
func (s *Subsystem) UnmarshalText(b []byte) error {
	for k, n := range subsystemNames {
		if n == string(b) {
			*s = k
			return nil
		}
	}
	return fmt.Errorf("unknown subsystem %q", string(b))
}

// DTData is the DT-specific payload of a primitive.
type DTData struct {
	SegmentNumber int `json:"segment_number"`
	RadialAngle   int `json:"radial_angle"`
	BendingAngle  int `json:"bending_angle"`
	QualityCode   int `json:"quality_code"`
	Ts2TagCode    int `json:"ts2_tag_code"`
	BxCntCode     int `json:"bx_cnt_code"`
	ThetaBTIGroup int `json:"theta_bti_group"`
	ThetaCode     int `json:"theta_code"`
	ThetaQuality  int `json:"theta_quality"`
}

// TriggerPrimitive is one stub. Sector is 1-based (1..12) as in the
// chamber identifiers.
type TriggerPrimitive struct {
	Subsystem Subsystem `json:"subsystem"`
	Wheel     int       `json:"wheel"`
	Sector    int       `json:"sector"`
	Station   int       `json:"station"`
	BX        int       `json:"bx"`
	DT        DTData    `json:"dt"`
}

// String gives a compact chamber-level label used in logs.
func (tp TriggerPrimitive) String() string {
	return fmt.Sprintf("%s W%d S%d MB%d bx=%d seg=%d",
		tp.Subsystem, tp.Wheel, tp.Sector, tp.Station, tp.BX, tp.DT.SegmentNumber)
}

// Collection is an ordered set of primitives for one event.
type Collection []TriggerPrimitive

// BySubsystem returns the primitives of one subsystem in collection order.
func (c Collection) BySubsystem(s Subsystem) Collection {
	var out Collection
	for _, tp := range c {
		if tp.Subsystem == s {
			out = append(out, tp)
		}
	}
	return out
}
