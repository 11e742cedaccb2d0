package timeseries

// Window is a fixed-width slice of a playback timeline, in milliseconds.
type Window struct {
	Index int
	Start int64
	End   int64
}

// Windows partitions [0, domain) into width-sized windows. The last window is
// truncated at domain.
func Windows(domain, width int64) []Window {
	if domain <= 0 || width <= 0 {
		return []Window{}
	}

	n := int((domain + width - 1) / width)
	windows := make([]Window, n)
	for i := range windows {
		start := int64(i) * width
		windows[i] = Window{
			Index: i,
			Start: start,
			End:   min(start+width, domain),
		}
	}
	return windows
}

// WindowIndex returns the index of the window containing offset.
func WindowIndex(offset, width int64) int {
	if width <= 0 || offset < 0 {
		return 0
	}
	return int(offset / width)
}

// CountFixed counts offsets per window of Windows(domain, width). Offsets
// outside [0, domain) are dropped.
func CountFixed(offsets []int64, width, domain int64) []int {
	windows := Windows(domain, width)
	counts := make([]int, len(windows))
	for _, off := range offsets {
		if off < 0 || off >= domain {
			continue
		}
		counts[WindowIndex(off, width)]++
	}
	return counts
}
