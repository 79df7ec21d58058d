package tips

import "strings"

// SplitTips turns raw model output into tips: one per line, trimmed, with
// blank lines dropped and order preserved. The result is never nil.
func SplitTips(text string) []string {
	tips := []string{}
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			tips = append(tips, line)
		}
	}
	return tips
}
