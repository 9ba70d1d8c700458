package args

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNatural(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		tokens []string
		want   *Request
		errIs  error
	}{
		{
			name:   "two states",
			tokens: []string{"state1", "state2", "from", "original.dmi", "to", "target.dmi"},
			want: &Request{
				From:   "original.dmi",
				To:     "target.dmi",
				States: []string{"state1", "state2"},
			},
		},
		{
			name:   "single state",
			tokens: []string{"idle", "from", "a.dmi", "to", "b.dmi"},
			want: &Request{
				From:   "a.dmi",
				To:     "b.dmi",
				States: []string{"idle"},
			},
		},
		{
			name:   "duplicate state names are preserved",
			tokens: []string{"idle", "idle", "from", "a.dmi", "to", "b.dmi"},
			want: &Request{
				From:   "a.dmi",
				To:     "b.dmi",
				States: []string{"idle", "idle"},
			},
		},
		{
			name:   "from before any state",
			tokens: []string{"from", "a.dmi", "to", "b.dmi"},
			errIs:  ErrNoStatesBeforeFrom,
		},
		{
			name:   "to before a source is set",
			tokens: []string{"state1", "a.dmi", "to", "b.dmi"},
			errIs:  ErrToBeforeSource,
		},
		{
			name:   "missing to keyword",
			tokens: []string{"state1", "from", "a.dmi", "b.dmi"},
			errIs:  ErrExpectedTo,
		},
		{
			name:   "trailing arguments",
			tokens: []string{"state1", "from", "a.dmi", "to", "b.dmi", "extra"},
			errIs:  ErrTrailingArgs,
		},
		{
			name:   "missing destination",
			tokens: []string{"state1", "from", "a.dmi"},
			errIs:  ErrMissingDestination,
		},
		{
			name:   "missing both paths",
			tokens: []string{"state1", "from"},
			errIs:  ErrMissingBoth,
		},
		{
			name:   "states only",
			tokens: []string{"state1", "state2"},
			errIs:  ErrMissingBoth,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseNatural(tt.tokens)
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{name: "plain list", value: "state1,state2", want: []string{"state1", "state2"}},
		{name: "empty pieces dropped", value: "state1,,state2", want: []string{"state1", "state2"}},
		{name: "whitespace trimmed", value: " a , b ", want: []string{"a", "b"}},
		{name: "only separators", value: ",,", want: nil},
		{name: "single value", value: "idle", want: []string{"idle"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, SplitList(tt.value))
		})
	}
}

func TestFlatten(t *testing.T) {
	t.Parallel()

	got := Flatten([]string{"state1", "state2,state3", " state4 ,"})
	assert.Equal(t, []string{"state1", "state2", "state3", "state4"}, got)
}
