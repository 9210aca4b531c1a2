package logscan

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPartition_Invariants(t *testing.T) {
	for n := 0; n <= 40; n++ {
		for w := 1; w <= 12; w++ {
			ranges, err := Partition(n, w)
			require.NoError(t, err)
			require.Len(t, ranges, w)

			next := 0
			larger := 0
			for rank, r := range ranges {
				require.Equal(t, next, r.Start, "n=%d w=%d rank=%d", n, w, rank)
				require.Contains(t, []int{n / w, n/w + 1}, r.Count, "n=%d w=%d rank=%d", n, w, rank)
				if r.Count == n/w+1 {
					larger++
					require.Less(t, rank, n%w, "larger ranges must come first")
				}
				next = r.End()
			}
			require.Equal(t, n, next, "ranges must cover [0, n)")
			require.Equal(t, n%w, larger)
		}
	}
}

func TestPartition_Examples(t *testing.T) {
	tests := []struct {
		name string
		n, w int
		want []Range
	}{
		{
			name: "even split",
			n:    4, w: 2,
			want: []Range{{0, 2}, {2, 2}},
		},
		{
			name: "remainder goes to first ranks",
			n:    10, w: 3,
			want: []Range{{0, 4}, {4, 3}, {7, 3}},
		},
		{
			name: "fewer items than partitions",
			n:    2, w: 4,
			want: []Range{{0, 1}, {1, 1}, {2, 0}, {2, 0}},
		},
		{
			name: "empty input",
			n:    0, w: 3,
			want: []Range{{0, 0}, {0, 0}, {0, 0}},
		},
		{
			name: "single partition",
			n:    7, w: 1,
			want: []Range{{0, 7}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Partition(tt.n, tt.w)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestPartition_Deterministic(t *testing.T) {
	first, err := Partition(1001, 7)
	require.NoError(t, err)
	second, err := Partition(1001, 7)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestPartition_InvalidArguments(t *testing.T) {
	_, err := Partition(-1, 2)
	require.ErrorIs(t, err, ErrArgument)

	_, err = Partition(10, 0)
	require.ErrorIs(t, err, ErrArgument)
}

func TestRange_Slice(t *testing.T) {
	lines := LineSet{Line("a\n"), Line("b\n"), Line("c\n")}

	require.Equal(t, LineSet{Line("b\n"), Line("c\n")}, Range{Start: 1, Count: 2}.Slice(lines))
	require.Empty(t, Range{Start: 3, Count: 0}.Slice(lines))
	require.True(t, Range{Start: 3}.Empty())
}
