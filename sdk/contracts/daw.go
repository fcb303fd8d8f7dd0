package contracts

import (
	"fmt"
	"strings"
)

// DAW identifies the target application whose control-surface mapping is used for
// transport operations.
type DAW int

const (
	McuDefault DAW = iota
	FLStudio
	StudioOne
	ProTools
	Reaper
	AbletonLive
	Cubase
	AdobeAudition
	CakeWalk
	Logic
)

var dawNames = map[DAW]string{
	McuDefault:    "default",
	FLStudio:      "flstudio",
	StudioOne:     "studioone",
	ProTools:      "protools",
	Reaper:        "reaper",
	AbletonLive:   "live",
	Cubase:        "cubase",
	AdobeAudition: "audition",
	CakeWalk:      "cakewalk",
	Logic:         "logic",
}

func (d DAW) String() string {
	if name, ok := dawNames[d]; ok {
		return name
	}
	return fmt.Sprintf("DAW(%d)", int(d))
}

// ParseDAW resolves a DAW by its short name, as used in configuration files and flags.
func ParseDAW(name string) (DAW, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for d, n := range dawNames {
		if n == name {
			return d, nil
		}
	}
	return McuDefault, fmt.Errorf("unknown DAW %q", name)
}
