// ABOUTME: Closed set of application resources
// ABOUTME: Each entry pairs a stable key with the file it is served from
package resource

// Type classifies a resource
type Type int

const (
	Audio Type = iota
)

func (t Type) String() string {
	switch t {
	case Audio:
		return "audio"
	default:
		return "unknown"
	}
}

// Resource is one entry of the resource table
type Resource struct {
	Key  string
	Path string
	Type Type
}

func (r Resource) String() string {
	return r.Key
}

// WhoopKey is the key of the demo sound
const WhoopKey = "WHOOP"

var all = []Resource{
	{Key: WhoopKey, Path: "Whoop.wav", Type: Audio},
}

// Whoop returns the demo sound entry
func Whoop() Resource {
	r, _ := ByKey(WhoopKey)
	return r
}

// All returns every resource in declaration order
func All() []Resource {
	out := make([]Resource, len(all))
	copy(out, all)
	return out
}

// ByKey looks a resource up by its key
func ByKey(key string) (Resource, bool) {
	for _, r := range all {
		if r.Key == key {
			return r, true
		}
	}
	return Resource{}, false
}
