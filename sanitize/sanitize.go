// Package sanitize scrubs raw serial console lines before they are added to
// a transcript. The device multiplexes a spinner/progress animation into its
// console stream, so besides plain control characters there is a looser
// category of bracketed artifacts to remove.
package sanitize

import (
	"fmt"
	"regexp"
	"time"

	"github.com/acarl005/stripansi"
)

// Transcript entries carry the capture time down to microseconds, with a
// comma separating the fraction. Usable with time.Parse; the sanitizers
// format the fraction themselves because Format wants a period separator.
const TimestampLayout = "2006-01-02 15:04:05,000000"

var (
	controlChars = regexp.MustCompile(`[\x00-\x1f\x7f-\x9f]`)

	// Spinner artifacts and cursor-movement sequences the device CLI
	// interleaves with test output.
	spinnerGroups = regexp.MustCompile(`(\[-]|\[\\]|\[\|]|\[/-]|\[[^\]]*\]|\x1b\[\d+D)`)

	// A cursor-left sequence split across two reads loses its ESC byte and
	// leaves a bare "[3D..." fragment behind.
	splitCursorLeft = regexp.MustCompile(`\[3D[^\]]*`)
)

// Device scrubs one line of primary console output and prepends the capture
// timestamp. It never fails; input without artifacts passes through unchanged
// apart from the timestamp.
func Device(line string) string {
	return stamp(deviceBody(line))
}

// Monitor scrubs one line captured from the auxiliary channel. The auxiliary
// firmware does not draw spinners, so only escape sequences and control
// characters are removed.
func Monitor(line string) string {
	return stamp(monitorBody(line))
}

func deviceBody(line string) string {
	line = stripansi.Strip(line)
	line = spinnerGroups.ReplaceAllString(line, "")
	line = splitCursorLeft.ReplaceAllString(line, "")
	return controlChars.ReplaceAllString(line, "")
}

func monitorBody(line string) string {
	line = stripansi.Strip(line)
	return controlChars.ReplaceAllString(line, "")
}

func stamp(line string) string {
	now := time.Now()
	return fmt.Sprintf("%s,%06d %s", now.Format("2006-01-02 15:04:05"), now.Nanosecond()/1000, line)
}
