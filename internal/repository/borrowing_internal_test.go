package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDedupeSorted(t *testing.T) {
	t.Parallel()
	var tests = []struct {
		name string
		ids  []int
		want []int
	}{
		{name: "already sorted", ids: []int{1, 2, 3}, want: []int{1, 2, 3}},
		{name: "unsorted", ids: []int{3, 1, 2}, want: []int{1, 2, 3}},
		{name: "duplicates collapse", ids: []int{2, 1, 2, 1}, want: []int{1, 2}},
		{name: "single", ids: []int{5}, want: []int{5}},
		{name: "empty", ids: nil, want: []int{}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, dedupeSorted(tt.ids))
		})
	}
}
