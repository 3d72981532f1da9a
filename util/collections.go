package util

// RemoveDuplicatesFromList returns a copy of the given list with all duplicates removed (keeping the first encountered).
func RemoveDuplicatesFromList[S ~[]E, E comparable](list S) S {
	out := make(S, 0, len(list))
	present := make(map[E]bool)

	for _, value := range list {
		if present[value] {
			continue
		}

		out = append(out, value)
		present[value] = true
	}

	return out
}

// RemoveEmptyElements returns a copy of the given list without empty elements.
func RemoveEmptyElements[S ~[]E, E comparable](list S) S {
	var (
		out   S
		empty E
	)

	for _, item := range list {
		if item != empty {
			out = append(out, item)
		}
	}

	return out
}
