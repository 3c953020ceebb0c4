package ward

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// legacyRange matches a whole bed-number value written as a range,
// e.g. "1 To 15" or "61to70". Used by normalization of already-stored
// rows; fresh uploads go through ExpandBedSpec instead.
var legacyRange = regexp.MustCompile(`(?i)^\d+\s*to\s*\d+$`)

// ExpandBedSpec expands a comma-separated bed specification into bed
// numbers. Tokens containing the word "to" are treated as ranges and
// split naively on spaces, taking the first and third fields as bounds;
// anything else is parsed as a single integer. Malformed tokens are
// dropped silently, matching the historical upload behavior. The result
// preserves input order and is not deduplicated.
func ExpandBedSpec(spec string) []int {
	var numbers []int

	for _, part := range strings.Split(spec, ",") {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}

		if strings.Contains(strings.ToLower(p), "to") {
			fields := strings.Split(p, " ")
			if len(fields) < 3 {
				continue
			}
			start, err1 := strconv.Atoi(fields[0])
			end, err2 := strconv.Atoi(fields[2])
			if err1 != nil || err2 != nil {
				continue
			}
			for i := start; i <= end; i++ {
				numbers = append(numbers, i)
			}
			continue
		}

		if n, err := strconv.Atoi(p); err == nil {
			numbers = append(numbers, n)
		}
	}

	return numbers
}

// BedsFromSpec builds available beds from a bed specification.
// Returns ErrNoValidBeds when the spec yields nothing, which callers
// treat as a row-level validation failure.
func BedsFromSpec(spec string) ([]Bed, error) {
	numbers := ExpandBedSpec(spec)
	if len(numbers) == 0 {
		return nil, ErrNoValidBeds
	}

	beds := make([]Bed, 0, len(numbers))
	for _, n := range numbers {
		beds = append(beds, Bed{
			Number: strconv.Itoa(n),
			Status: BedAvailable,
		})
	}
	return beds, nil
}

// NormalizeBeds repairs a legacy bed list in place: values stored as
// un-expanded ranges are expanded, duplicates collapse onto a single
// bed (last write wins, as the original migration did), and the result
// is sorted numerically. A bed whose value parses as neither a range
// nor an integer is dropped.
func NormalizeBeds(beds []Bed) []Bed {
	var expanded []Bed

	for _, b := range beds {
		raw := strings.TrimSpace(b.Number)

		if legacyRange.MatchString(raw) {
			bounds := strings.SplitN(strings.ToLower(raw), "to", 2)
			start, err1 := strconv.Atoi(strings.TrimSpace(bounds[0]))
			end, err2 := strconv.Atoi(strings.TrimSpace(bounds[1]))
			if err1 == nil && err2 == nil {
				status := b.Status
				if status == "" {
					status = BedAvailable
				}
				for i := start; i <= end; i++ {
					expanded = append(expanded, Bed{WardID: b.WardID, Number: strconv.Itoa(i), Status: status})
				}
			}
			continue
		}

		if n, err := strconv.Atoi(raw); err == nil {
			status := b.Status
			if status == "" {
				status = BedAvailable
			}
			expanded = append(expanded, Bed{WardID: b.WardID, Number: strconv.Itoa(n), Status: status})
		}
	}

	unique := make(map[string]Bed, len(expanded))
	for _, b := range expanded {
		unique[b.Number] = b
	}

	result := make([]Bed, 0, len(unique))
	for _, b := range unique {
		result = append(result, b)
	}
	sort.Slice(result, func(i, j int) bool {
		a, _ := strconv.Atoi(result[i].Number)
		b, _ := strconv.Atoi(result[j].Number)
		return a < b
	})

	return result
}
