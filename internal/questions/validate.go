package questions

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// validateBank performs the structural checks the JSON Schema cannot
// express. Returns a combined error describing all problems found.
func validateBank(f bankFile) error {
	var errs []string

	if !semver.IsValid(f.Version) {
		errs = append(errs, fmt.Sprintf("version %q is not a valid semantic version", f.Version))
	}

	if len(f.Questions) == 0 {
		errs = append(errs, "bank has no questions")
	}

	// Ids must be dense and in order so that id doubles as position.
	counts := make(map[Category]int)
	for i, q := range f.Questions {
		if q.ID != i {
			errs = append(errs, fmt.Sprintf("question at index %d has id %d (ids must be 0..N-1 in order)", i, q.ID))
		}
		if !q.Category.Valid() {
			errs = append(errs, fmt.Sprintf("question %d: unknown category %q", q.ID, q.Category))
		}
		counts[q.Category]++

		if strings.TrimSpace(q.Text) == "" {
			errs = append(errs, fmt.Sprintf("question %d: empty text", q.ID))
		}
		if len(q.Options) != OptionsPerQuestion {
			errs = append(errs, fmt.Sprintf("question %d: has %d options, want %d", q.ID, len(q.Options), OptionsPerQuestion))
		}
		for j, o := range q.Options {
			if o.Weight < MinWeight || o.Weight > MaxWeight {
				errs = append(errs, fmt.Sprintf("question %d option %d: weight %d outside [%d, %d]", q.ID, j, o.Weight, MinWeight, MaxWeight))
			}
		}
	}

	// Every category is populated with the same number of questions so
	// that the overall mean weighs each dimension equally.
	want := -1
	for _, c := range AllCategories() {
		n := counts[c]
		if n == 0 {
			errs = append(errs, fmt.Sprintf("category %q has no questions", c))
			continue
		}
		if want < 0 {
			want = n
		} else if n != want {
			errs = append(errs, fmt.Sprintf("category %q has %d questions, want %d", c, n, want))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("question bank validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// Compatible reports whether data recorded against a bank with version
// other can be interpreted with b. Banks sharing a major version keep
// question ids and option order stable.
func (b *Bank) Compatible(other string) bool {
	if !semver.IsValid(other) {
		return false
	}
	return semver.Major(b.version) == semver.Major(other)
}
