package fetch

import "path"

// ObjectKey derives the storage key for a relative attachment name.
//
// Collection image stores shard originals by the first four characters of
// the attachment name: "abcdef.jpg" in collection "herps" lives at
// "herps/originals/ab/cd/abcdef.jpg". Without a collection the name is
// used as a key directly.
func ObjectKey(collection, name string) string {
	if collection == "" {
		return name
	}
	// Names shorter than four characters produce an empty second shard,
	// which path.Join drops rather than leaving a double separator.
	return path.Join(collection, "originals", shard(name, 0, 2), shard(name, 2, 4), name)
}

func shard(name string, from, to int) string {
	if from >= len(name) {
		return ""
	}
	if to > len(name) {
		to = len(name)
	}
	return name[from:to]
}
