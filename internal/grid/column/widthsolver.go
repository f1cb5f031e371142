package column

// SolveWidths partitions resolved columns into fixed, flex, and auto
// groups and computes a pixel width for each, in input order (spec
// §4.13):
//
//   - Fixed columns (Width > 0, Flex == 0) are honored as-is, clamped to
//     at least MinWidth.
//   - Flex columns (Flex > 0) split whatever remains after fixed columns
//     are subtracted from containerWidth, in proportion to their Flex
//     weight, each clamped to at least MinWidth.
//   - Auto columns (Width == 0 and Flex == 0) split whatever is left
//     evenly, each clamped to at least MinWidth.
func SolveWidths(resolved []Resolved, containerWidth int) []int {
	n := len(resolved)
	widths := make([]int, n)

	var fixedTotal, flexTotalWeight int
	var autoCount int
	for _, r := range resolved {
		switch {
		case r.Flex > 0:
			flexTotalWeight += r.Flex
		case r.Width > 0:
			fixedTotal += clamp(r.Width, r.MinWidth)
		default:
			autoCount++
		}
	}

	remaining := containerWidth - fixedTotal
	if remaining < 0 {
		remaining = 0
	}

	flexRemaining := remaining

	for i, r := range resolved {
		switch {
		case r.Flex > 0:
			var share int
			if flexTotalWeight > 0 {
				share = remaining * r.Flex / flexTotalWeight
			}
			widths[i] = clamp(share, r.MinWidth)
			flexRemaining -= widths[i]
		case r.Width > 0:
			widths[i] = clamp(r.Width, r.MinWidth)
		}
	}

	if autoCount > 0 {
		if flexRemaining < 0 {
			flexRemaining = 0
		}
		autoShare := flexRemaining / autoCount
		for i, r := range resolved {
			if r.Flex == 0 && r.Width == 0 {
				widths[i] = clamp(autoShare, r.MinWidth)
			}
		}
	}

	return widths
}

func clamp(width, minWidth int) int {
	if width < minWidth {
		return minWidth
	}
	return width
}
