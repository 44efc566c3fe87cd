package layout

import (
	"slices"
	"strings"
)

// Target describes the ABI target triple and its pointer properties.
type Target struct {
	Triple   string // e.g. "x86_64-linux-gnu"
	PtrSize  int    // bytes
	PtrAlign int    // bytes
}

func X86_64LinuxGNU() Target {
	return Target{
		Triple:   "x86_64-linux-gnu",
		PtrSize:  8,
		PtrAlign: 8,
	}
}

func Wasm32() Target {
	return Target{
		Triple:   "wasm32",
		PtrSize:  4,
		PtrAlign: 4,
	}
}

var targets = []Target{X86_64LinuxGNU(), Wasm32()}

// LookupTarget resolves a target triple; "" selects x86_64-linux-gnu.
func LookupTarget(triple string) (Target, bool) {
	if triple == "" {
		return X86_64LinuxGNU(), true
	}
	for _, t := range targets {
		if t.Triple == strings.ToLower(triple) {
			return t, true
		}
	}
	return Target{}, false
}

// Triples lists the supported target triples.
func Triples() []string {
	out := make([]string, 0, len(targets))
	for _, t := range targets {
		out = append(out, t.Triple)
	}
	slices.Sort(out)
	return out
}
