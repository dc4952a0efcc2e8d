// Package phrase builds the spoken announcements used by the repetition timer.
package phrase

import (
	"fmt"
	"strings"
)

// AllCompleted is announced once the last repetition ends.
const AllCompleted = "All problems completed"

// Problem returns the announcement for the start of repetition n.
func Problem(n int) string {
	return fmt.Sprintf("Problem %d", n)
}

// AheadBy reports the time left on the current repetition when it is finished early.
// The seconds clause is always present, including "0 seconds".
func AheadBy(remainingSeconds int) string {
	if remainingSeconds < 0 {
		remainingSeconds = 0
	}
	minutes := remainingSeconds / 60
	seconds := remainingSeconds % 60

	var builder strings.Builder
	builder.WriteString("Good, you are ahead by ")
	if minutes > 0 {
		fmt.Fprintf(&builder, "%d %s ", minutes, plural(minutes, "minute"))
	}
	fmt.Fprintf(&builder, "%d %s", seconds, plural(seconds, "second"))
	return builder.String()
}

func plural(count int, unit string) string {
	if count == 1 {
		return unit
	}
	return unit + "s"
}
