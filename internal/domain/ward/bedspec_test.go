package ward

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandBedSpec(t *testing.T) {
	tests := []struct {
		name string
		spec string
		want []int
	}{
		{"single numbers", "1, 2, 5", []int{1, 2, 5}},
		{"range", "1 To 4", []int{1, 2, 3, 4}},
		{"range lowercase", "7 to 9", []int{7, 8, 9}},
		{"mixed", "1 To 3, 10", []int{1, 2, 3, 10}},
		{"garbage token dropped", "abc, 4", []int{4}},
		{"range without spaces dropped", "1To4, 8", []int{8}},
		{"malformed range dropped", "x To 4", nil},
		{"empty", "", nil},
		{"only commas", ", ,", nil},
		{"duplicates kept", "2, 2", []int{2, 2}},
		{"inverted range yields nothing", "5 To 3", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandBedSpec(tt.spec))
		})
	}
}

func TestBedsFromSpec(t *testing.T) {
	beds, err := BedsFromSpec("1 To 3")
	require.NoError(t, err)
	require.Len(t, beds, 3)
	for _, b := range beds {
		assert.Equal(t, BedAvailable, b.Status)
	}

	_, err = BedsFromSpec("abc")
	assert.ErrorIs(t, err, ErrNoValidBeds)
}

func TestNormalizeBeds(t *testing.T) {
	got := NormalizeBeds([]Bed{
		{Number: "1 To 3", Status: BedAvailable},
		{Number: "61to63"},
		{Number: " 2 ", Status: BedOccupied},
		{Number: "not-a-bed"},
		{Number: "10", Status: BedAvailable},
	})

	numbers := make([]string, 0, len(got))
	for _, b := range got {
		numbers = append(numbers, b.Number)
	}
	assert.Equal(t, []string{"1", "2", "3", "10", "61", "62", "63"}, numbers)

	// Bed 2 appears both in the range and standalone; the later row wins.
	for _, b := range got {
		if b.Number == "2" {
			assert.Equal(t, BedOccupied, b.Status)
		}
	}
}

func TestFindBed(t *testing.T) {
	w := &Ward{Beds: []Bed{
		{Number: "12"},
		{Number: "A3"},
	}}

	require.NotNil(t, w.FindBed("12"))
	assert.Equal(t, "12", w.FindBed(" 12 ").Number)
	assert.Equal(t, "A3", w.FindBed("a3").Number)
	assert.Nil(t, w.FindBed("99"))
}
