package parser

import (
	"fmt"
	"regexp"
	"strconv"
)

// Patterns for the result fields the on-device test runner prints. Compiled
// once; read-only after init.
var (
	failedPattern  = regexp.MustCompile(`Failed tests: \d+`)
	elapsedPattern = regexp.MustCompile(`Consumed: \d+`)
	leakPattern    = regexp.MustCompile(`Leaked: \d+`)
	statusPattern  = regexp.MustCompile(`Status: \w+`)

	digitRun = regexp.MustCompile(`\d+`)
	wordRun  = regexp.MustCompile(`\w+`)
)

// Fields holds the raw substring matched for each result field on one or
// more lines. An empty string means the field has not been seen yet.
type Fields struct {
	Failed  string
	Elapsed string
	Leak    string
	Status  string
}

// Extract runs the four field patterns against one raw (pre-sanitization)
// line. The searches are independent; each field is the first match on the
// line or absent.
func Extract(line string) Fields {
	return Fields{
		Failed:  failedPattern.FindString(line),
		Elapsed: elapsedPattern.FindString(line),
		Leak:    leakPattern.FindString(line),
		Status:  statusPattern.FindString(line),
	}
}

// Merge folds newly extracted fields into f. The first observed value for a
// field wins; later occurrences are ignored.
func (f *Fields) Merge(other Fields) {
	if f.Failed == "" {
		f.Failed = other.Failed
	}
	if f.Elapsed == "" {
		f.Elapsed = other.Elapsed
	}
	if f.Leak == "" {
		f.Leak = other.Leak
	}
	if f.Status == "" {
		f.Status = other.Status
	}
}

// Complete reports whether all four fields have been seen.
func (f Fields) Complete() bool {
	return f.Failed != "" && f.Elapsed != "" && f.Leak != "" && f.Status != ""
}

// firstInt parses the first run of digits in a matched substring.
func firstInt(s string) (int, error) {
	digits := digitRun.FindString(s)
	if digits == "" {
		return 0, fmt.Errorf("no digits in %q", s)
	}
	return strconv.Atoi(digits)
}

// statusWord pulls the status token out of a "Status: <word>" match.
func statusWord(s string) (string, error) {
	words := wordRun.FindAllString(s, 2)
	if len(words) < 2 {
		return "", fmt.Errorf("no status token in %q", s)
	}
	return words[1], nil
}
