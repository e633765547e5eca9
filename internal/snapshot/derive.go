package snapshot

import "chronicle/history/internal/authorship"

// Derive computes the snapshot that follows previous once its content becomes
// next. The common leading and trailing runs keep their attribution; every
// character between them is attributed to author, even when it only moved.
//
// This is prefix/suffix bracketing, not a minimal edit script. A change in the
// middle of a repeated pattern can hand more of the middle to author than a
// true diff would.
func Derive(previous Snapshot, next string, author authorship.Author) Snapshot {
	base := Normalize(previous, authorship.UnknownCollaborator)
	if next == base.Content {
		return base
	}

	prevRunes := []rune(base.Content)
	nextRunes := []rune(next)
	prefix, suffix := CommonBounds(prevRunes, nextRunes)

	middle := len(nextRunes) - prefix - suffix
	attribution := make([]authorship.Author, 0, len(nextRunes))
	attribution = append(attribution, base.Attribution[:prefix]...)
	for i := 0; i < middle; i++ {
		attribution = append(attribution, author)
	}
	attribution = append(attribution, base.Attribution[len(prevRunes)-suffix:]...)

	return Snapshot{Content: next, Attribution: attribution}
}

// CommonBounds returns the length of the shared leading run of a and b and the
// length of the shared trailing run. The trailing run never reaches into the
// leading one in either input.
func CommonBounds(a, b []rune) (prefix, suffix int) {
	limit := min(len(a), len(b))
	for prefix < limit && a[prefix] == b[prefix] {
		prefix++
	}

	limit = min(len(a)-prefix, len(b)-prefix)
	for suffix < limit && a[len(a)-1-suffix] == b[len(b)-1-suffix] {
		suffix++
	}
	return prefix, suffix
}
