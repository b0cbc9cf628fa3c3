package service

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ── week reference resolution ──────────────────────────────
//
// A week reference is a label like "Week 5": a 1-indexed offset in 7-day
// increments from the course start date. Week 1 is the start date's own
// week, so Week N resolves to start + (N-1)*7 days.
//
// Resolution never fails a whole document: an unresolvable reference is
// reported to the caller, which leaves the original text untouched.
// ─────────────────────────────────────────────────────────────

var (
	ErrInvalidWeekReference = errors.New("invalid week reference")
	ErrMalformedStartDate   = errors.New("malformed start date")
)

const dateLayout = "2006-01-02"

// weekAnnotationPattern matches a "Week N" token together with an
// annotation a previous run already appended. Used to keep annotation
// idempotent.
var weekAnnotationPattern = regexp.MustCompile(
	`(?i)(week\s*\d+)(\s*\(\d{4}-\d{2}-\d{2} to \d{4}-\d{2}-\d{2}\))?`)

// ResolveWeek resolves a week reference against a course start date.
//
// The week number is read by dropping every non-digit character from ref,
// so "Week 3-4" parses as week 34. That concatenation mirrors the behavior
// the product has always had; whether a range was intended is an open
// product question, so it is deliberately not "fixed" here.
func ResolveWeek(ref string, start time.Time) (time.Time, error) {
	var digits strings.Builder
	for _, r := range ref {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return time.Time{}, fmt.Errorf("%w: %q has no week number", ErrInvalidWeekReference, ref)
	}

	week, err := strconv.Atoi(digits.String())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidWeekReference, ref)
	}
	if week <= 0 {
		return time.Time{}, fmt.Errorf("%w: week %d is not positive", ErrInvalidWeekReference, week)
	}

	return start.AddDate(0, 0, (week-1)*7), nil
}

// ResolveWeekRange resolves a week reference to the week's first and last
// day (start and start+6d).
func ResolveWeekRange(ref string, start time.Time) (time.Time, time.Time, error) {
	weekStart, err := ResolveWeek(ref, start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return weekStart, weekStart.AddDate(0, 0, 6), nil
}

// ParseStartDate parses an ISO 8601 course start date. Callers skip
// normalization entirely on error rather than failing the request.
func ParseStartDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedStartDate, s)
	}
	return t, nil
}

// AnnotateWeekReferences rewrites syllabus text so every "Week N" token is
// followed by the absolute date range it refers to, e.g.
//
//	"Assignment due Week 3" -> "Assignment due Week 3 (2024-01-22 to 2024-01-28)"
//
// A nil start date returns the text unchanged. The original token is always
// preserved; a reference that fails to resolve is left untouched. Tokens
// that already carry an annotation are skipped, so re-running the pipeline
// over its own output is a no-op.
func AnnotateWeekReferences(text string, start *time.Time) string {
	if start == nil {
		return text
	}

	return weekAnnotationPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := weekAnnotationPattern.FindStringSubmatch(match)
		if groups[2] != "" {
			// already annotated
			return match
		}

		weekStart, weekEnd, err := ResolveWeekRange(groups[1], *start)
		if err != nil {
			return match
		}

		return fmt.Sprintf("%s (%s to %s)",
			match, weekStart.Format(dateLayout), weekEnd.Format(dateLayout))
	})
}
