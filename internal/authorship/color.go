package authorship

import "hash/fnv"

var palette = []string{
	"amber",
	"blue",
	"green",
	"purple",
	"red",
	"teal",
	"pink",
	"indigo",
	"orange",
	"cyan",
	"lime",
	"slate",
}

// ColorOf returns the tone for a display name. It depends only on the name,
// so the same name gets the same tone in every process.
func ColorOf(name string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return palette[h.Sum32()%uint32(len(palette))]
}
