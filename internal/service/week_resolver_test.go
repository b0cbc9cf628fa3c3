package service

import (
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// ── ResolveWeek ──

func TestResolveWeek_WeekOneIsStartDate(t *testing.T) {
	start := date("2024-01-08")

	got, err := ResolveWeek("Week 1", start)
	if err != nil {
		t.Fatalf("ResolveWeek failed: %v", err)
	}
	if !got.Equal(start) {
		t.Errorf("expected Week 1 == start date %v, got %v", start, got)
	}
}

func TestResolveWeek_SevenDayIncrements(t *testing.T) {
	start := date("2024-01-08")

	for week := 1; week <= 16; week++ {
		ref := "Week " + strconv.Itoa(week)
		got, err := ResolveWeek(ref, start)
		if err != nil {
			t.Fatalf("ResolveWeek(%q) failed: %v", ref, err)
		}
		want := start.AddDate(0, 0, (week-1)*7)
		if !got.Equal(want) {
			t.Errorf("ResolveWeek(%q): expected %v, got %v", ref, want, got)
		}
	}
}

func TestResolveWeek_CaseAndSpacingVariants(t *testing.T) {
	start := date("2024-01-08")
	want := date("2024-02-05") // week 5

	for _, ref := range []string{"Week 5", "week5", "WEEK  5", " Week 5 "} {
		got, err := ResolveWeek(ref, start)
		if err != nil {
			t.Fatalf("ResolveWeek(%q) failed: %v", ref, err)
		}
		if !got.Equal(want) {
			t.Errorf("ResolveWeek(%q): expected %v, got %v", ref, want, got)
		}
	}
}

func TestResolveWeek_DigitConcatenation(t *testing.T) {
	// "Week 3-4" reads as week 34: every non-digit is dropped before
	// parsing. Documented legacy behavior, asserted here so a silent "fix"
	// shows up in review.
	start := date("2024-01-08")

	got, err := ResolveWeek("Week 3-4", start)
	if err != nil {
		t.Fatalf("ResolveWeek failed: %v", err)
	}
	want := start.AddDate(0, 0, 33*7)
	if !got.Equal(want) {
		t.Errorf("expected week 34 resolution %v, got %v", want, got)
	}
}

func TestResolveWeek_Invalid(t *testing.T) {
	start := date("2024-01-08")

	for _, ref := range []string{"", "Week", "next week", "Week 0"} {
		if _, err := ResolveWeek(ref, start); !errors.Is(err, ErrInvalidWeekReference) {
			t.Errorf("ResolveWeek(%q): expected ErrInvalidWeekReference, got %v", ref, err)
		}
	}
}

// ── ResolveWeekRange ──

func TestResolveWeekRange(t *testing.T) {
	start := date("2024-01-08")

	weekStart, weekEnd, err := ResolveWeekRange("Week 3", start)
	if err != nil {
		t.Fatalf("ResolveWeekRange failed: %v", err)
	}
	if !weekStart.Equal(date("2024-01-22")) {
		t.Errorf("expected week start 2024-01-22, got %v", weekStart)
	}
	if !weekEnd.Equal(date("2024-01-28")) {
		t.Errorf("expected week end 2024-01-28, got %v", weekEnd)
	}
}

// ── ParseStartDate ──

func TestParseStartDate(t *testing.T) {
	got, err := ParseStartDate("2024-01-08")
	if err != nil {
		t.Fatalf("ParseStartDate failed: %v", err)
	}
	if !got.Equal(date("2024-01-08")) {
		t.Errorf("expected 2024-01-08, got %v", got)
	}

	if _, err := ParseStartDate("01/08/2024"); !errors.Is(err, ErrMalformedStartDate) {
		t.Errorf("expected ErrMalformedStartDate, got %v", err)
	}
	if _, err := ParseStartDate(""); !errors.Is(err, ErrMalformedStartDate) {
		t.Errorf("expected ErrMalformedStartDate, got %v", err)
	}
}

// ── AnnotateWeekReferences ──

func TestAnnotate_NilStartDateIsIdentity(t *testing.T) {
	text := "Assignment due Week 3"
	if got := AnnotateWeekReferences(text, nil); got != text {
		t.Errorf("expected identity without start date, got %q", got)
	}
}

func TestAnnotate_NoWeekTokensIsIdentity(t *testing.T) {
	start := date("2024-01-08")
	text := "Midterm on March 3, 2024. No relative references here."
	if got := AnnotateWeekReferences(text, &start); got != text {
		t.Errorf("expected identity, got %q", got)
	}
}

func TestAnnotate_AppendsDateRange(t *testing.T) {
	start := date("2024-01-08")

	got := AnnotateWeekReferences("Assignment due Week 3", &start)
	want := "Assignment due Week 3 (2024-01-22 to 2024-01-28)"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestAnnotate_PreservesOriginalTokenForm(t *testing.T) {
	start := date("2024-01-08")

	got := AnnotateWeekReferences("quiz in week5", &start)
	if !strings.Contains(got, "week5 (2024-02-05 to 2024-02-11)") {
		t.Errorf("expected original token preserved with annotation, got %q", got)
	}
}

func TestAnnotate_MultipleReferences(t *testing.T) {
	start := date("2024-01-08")

	got := AnnotateWeekReferences("HW1 Week 1, HW2 Week 2", &start)
	want := "HW1 Week 1 (2024-01-08 to 2024-01-14), HW2 Week 2 (2024-01-15 to 2024-01-21)"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestAnnotate_Idempotent(t *testing.T) {
	start := date("2024-01-08")

	once := AnnotateWeekReferences("Assignment due Week 3", &start)
	twice := AnnotateWeekReferences(once, &start)
	if once != twice {
		t.Errorf("second pass must not re-annotate: first %q, second %q", once, twice)
	}
}
