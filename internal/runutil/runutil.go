// internal/runutil/runutil.go
package runutil

// WindowOverlap is the overlap between consecutive windows that keeps every
// placement of a motif of length longest inside at least one window.
func WindowOverlap(longest int) int {
	if longest < 1 {
		return 0
	}
	return longest - 1
}

// ValidateWindow decides whether windowing is allowed, returns (window, overlap, warnings).
// Rules:
//   - window <= 0 → no windowing
//   - window < longest motif → disable windowing (no motif would fit)
func ValidateWindow(window, longest int) (int, int, []string) {
	if window <= 0 {
		return 0, 0, nil
	}
	ov := WindowOverlap(longest)
	if window < longest {
		return 0, 0, []string{"--window is shorter than the motif length; scanning whole records"}
	}
	return window, ov, nil
}
