package instance

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mihai-snyk/knapsack-ga/pkg/knapsack/benchmarks"
	"github.com/mihai-snyk/knapsack-ga/pkg/knapsack/framework"
)

const referenceText = `10 20
3 2
4 3
5 4
8 5
10 9
6 7
9 6
2 1
7 8
5 2
`

const referenceYAML = `capacity: 20
items:
- {profit: 3, weight: 2}
- {profit: 4, weight: 3}
- {profit: 5, weight: 4}
- {profit: 8, weight: 5}
- {profit: 10, weight: 9}
- {profit: 6, weight: 7}
- {profit: 9, weight: 6}
- {profit: 2, weight: 1}
- {profit: 7, weight: 8}
- {profit: 5, weight: 2}
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFormatFor(t *testing.T) {
	tests := map[string]Format{
		"in/sack0.txt":    FormatText,
		"sack0":           FormatText,
		"sack.yaml":       FormatYAML,
		"sack.YML":        FormatYAML,
		"dir.d/sack.json": FormatYAML,
	}
	for path, want := range tests {
		assert.Equal(t, want, FormatFor(path), path)
	}
}

func TestLoad(t *testing.T) {
	want := benchmarks.NewReference().Catalog()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{name: "text", file: "reference.txt", content: referenceText},
		{name: "text on one line", file: "reference", content: strings.Join(strings.Fields(referenceText), " ")},
		{name: "yaml", file: "reference.yaml", content: referenceYAML},
		{
			name:    "json",
			file:    "reference.json",
			content: `{"capacity":20,"items":[{"profit":3,"weight":2},{"profit":4,"weight":3},{"profit":5,"weight":4},{"profit":8,"weight":5},{"profit":10,"weight":9},{"profit":6,"weight":7},{"profit":9,"weight":6},{"profit":2,"weight":1},{"profit":7,"weight":8},{"profit":5,"weight":2}]}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f, err := Load(writeFile(t, tc.file, tc.content))
			require.NoError(t, err)
			assert.Equal(t, tc.file, f.Name())
			if diff := cmp.Diff(want, f.Catalog()); diff != "" {
				t.Errorf("unexpected catalog (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name    string
		format  Format
		content string
		wantErr error
		wantMsg string
	}{
		{
			name:    "empty",
			format:  FormatText,
			content: "",
			wantErr: framework.ErrInvalidConfiguration,
			wantMsg: "item count",
		},
		{
			name:    "missing capacity",
			format:  FormatText,
			content: "10",
			wantErr: framework.ErrInvalidConfiguration,
			wantMsg: "capacity",
		},
		{
			name:    "count not a multiple of ten",
			format:  FormatText,
			content: "3 10\n1 1\n2 2\n3 3\n",
			wantErr: framework.ErrInvalidConfiguration,
			wantMsg: "multiple of 10",
		},
		{
			name:    "zero items",
			format:  FormatText,
			content: "0 10\n",
			wantErr: framework.ErrInvalidConfiguration,
			wantMsg: "Required value",
		},
		{
			name:    "truncated item list",
			format:  FormatText,
			content: "10 20\n3 2\n4 3\n",
			wantErr: framework.ErrInvalidConfiguration,
			wantMsg: "profit of item 2",
		},
		{
			name:    "malformed integer",
			format:  FormatText,
			content: "10 2O\n",
			wantErr: framework.ErrInvalidConfiguration,
			wantMsg: `"2O" is not an integer`,
		},
		{
			name:    "negative count",
			format:  FormatText,
			content: "-10 20\n",
			wantErr: framework.ErrInvalidConfiguration,
			wantMsg: "negative item count",
		},
		{
			name:    "too many items",
			format:  FormatText,
			content: "70000 20\n",
			wantErr: framework.ErrResourceExhausted,
		},
		{
			name:    "unknown yaml field",
			format:  FormatYAML,
			content: "capacity: 20\nvalue: 3\n",
			wantErr: framework.ErrInvalidConfiguration,
		},
		{
			name:    "negative weight",
			format:  FormatYAML,
			content: strings.Replace(referenceYAML, "weight: 9", "weight: -9", 1),
			wantErr: framework.ErrInvalidConfiguration,
			wantMsg: "instance.items[4].weight",
		},
		{
			name:    "unknown format",
			format:  Format("csv"),
			content: referenceText,
			wantErr: framework.ErrInvalidConfiguration,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f, err := Parse(strings.NewReader(tc.content), "test", tc.format)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantErr)
			if tc.wantMsg != "" {
				assert.Contains(t, err.Error(), tc.wantMsg)
			}
			assert.Nil(t, f)
		})
	}
}

func TestWriteTextRoundTrip(t *testing.T) {
	want := benchmarks.NewSynthetic(30, 4).Catalog()

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, want))

	got, err := ParseText(&buf)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip changed the catalog (-want +got):\n%s", diff)
	}
}
