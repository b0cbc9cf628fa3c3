package service

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/anhpls/uniflo/internal/dto"
)

// ── field extraction ───────────────────────────────────────
//
// Four independent pattern matchers over raw syllabus text. All of them
// are pure and total: a pattern that never occurs yields an empty result,
// never an error. Order of appearance is preserved and duplicates are
// kept; deciding whether a partial extraction is acceptable belongs to
// the caller.
// ─────────────────────────────────────────────────────────────

// OfficeHoursUnspecified is reported when the instructor block has no
// "Office Hours:" line.
const OfficeHoursUnspecified = "Not provided"

var (
	instructorPattern = regexp.MustCompile(
		`(?i)Instructor:[ \t]*([^\r\n]+?)[ \t]*\r?\n\s*Email:[ \t]*(\S+)(?:[ \t]*\r?\n\s*Office Hours:[ \t]*([^\r\n]*))?`)

	textbookPattern = regexp.MustCompile(
		`(?i)(Required|Optional) Textbook:\s*(.*?),\s*by\s*([\w .]+)`)

	gradingPattern = regexp.MustCompile(
		`([\w ]+):\s*(\d+)%`)

	// "Month DD, YYYY" or slash/hyphen numeric dates with 2- or 4-digit years
	datePattern = regexp.MustCompile(
		`\b([A-Za-z]+\s\d{1,2},\s\d{4}|\d{1,2}[/-]\d{1,2}[/-]\d{2,4})\b`)
)

// ExtractInstructor pulls the instructor contact block out of syllabus
// text. Returns nil when the anchor labels are not present; that is a
// no-match, not an error.
func ExtractInstructor(text string) *dto.InstructorInfo {
	m := instructorPattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}

	officeHours := strings.TrimSpace(m[3])
	if officeHours == "" {
		officeHours = OfficeHoursUnspecified
	}

	return &dto.InstructorInfo{
		Name:        strings.TrimSpace(m[1]),
		Email:       m[2],
		OfficeHours: officeHours,
	}
}

// ExtractTextbooks pulls every "Required Textbook: T, by A" /
// "Optional Textbook: T, by A" citation, in order of appearance.
func ExtractTextbooks(text string) []dto.TextbookMatch {
	matches := textbookPattern.FindAllStringSubmatch(text, -1)

	books := make([]dto.TextbookMatch, 0, len(matches))
	for _, m := range matches {
		books = append(books, dto.TextbookMatch{
			Kind:   strings.ToLower(m[1]),
			Title:  strings.TrimSpace(m[2]),
			Author: strings.TrimSpace(m[3]),
		})
	}
	return books
}

// ExtractGrading pulls every "<category>: N%" entry, in order of
// appearance. No deduplication, and no check that the weights sum to 100;
// the syllabus is reported as written.
func ExtractGrading(text string) []dto.GradingItem {
	matches := gradingPattern.FindAllStringSubmatch(text, -1)

	items := make([]dto.GradingItem, 0, len(matches))
	for _, m := range matches {
		weight, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		items = append(items, dto.GradingItem{
			Category:      strings.TrimSpace(m[1]),
			WeightPercent: weight,
		})
	}
	return items
}

// ExtractDates pulls every literal date expression ("March 3, 2024",
// "12/15/2024", "3-4-24") as the raw matched substring, in order of
// appearance. Canonicalizing them into calendar dates is deferred to
// whoever consumes the record.
func ExtractDates(text string) []string {
	return datePattern.FindAllString(text, -1)
}
