package orbit

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestExtractPageSignature(t *testing.T) {
	testCases := []struct {
		name     string
		html     string
		expected PageSignature
	}{
		{
			name: "grid widget class",
			html: `<table class="xxGridViewyy">
				<tr><th>a</th><th>b</th></tr>
				<tr><td> foo </td><td>bar</td></tr>
			</table>`,
			expected: PageSignature{{"foo", "bar"}},
		},
		{
			name: "id fragment fallback",
			html: `<table><tr><td>decoy</td></tr></table>
			<div id="ContentPlaceHolder1_gvData"><table>
				<tr><th>a</th></tr>
				<tr><td>data</td></tr>
			</table></div>`,
			expected: PageSignature{{"data"}},
		},
		{
			name: "first table fallback",
			html: `<table>
				<tr><th>h</th></tr>
				<tr><td>only</td></tr>
			</table>`,
			expected: PageSignature{{"only"}},
		},
		{
			name:     "no table at all",
			html:     `<p>nothing</p>`,
			expected: nil,
		},
		{
			name: "rows nested in pager row are skipped",
			html: `<table class="GridView">
				<tr><th>h</th></tr>
				<tr><td>data</td></tr>
				<tr class="GridPager"><td><table>
					<tr><td>1</td><td><a href="#">2</a></td></tr>
				</table></td></tr>
			</table>`,
			expected: PageSignature{{"data"}},
		},
		{
			name: "mostly numeric row classified as chrome",
			html: `<table class="GridView">
				<tr><th>h1</th><th>h2</th><th>h3</th></tr>
				<tr><td>1</td><td>2</td><td>x</td></tr>
			</table>`,
			expected: nil,
		},
		{
			name: "exactly half numeric is kept",
			html: `<table class="GridView">
				<tr><th>h1</th><th>h2</th></tr>
				<tr><td>1</td><td>x</td></tr>
			</table>`,
			expected: PageSignature{{"1", "x"}},
		},
		{
			name: "dotted page range and glyphs are chrome",
			html: `<table class="GridView">
				<tr><th>h1</th><th>h2</th><th>h3</th></tr>
				<tr><td>11...20</td><td>»</td><td>x</td></tr>
			</table>`,
			expected: nil,
		},
		{
			name: "entirely empty row dropped",
			html: `<table class="GridView">
				<tr><th>h</th></tr>
				<tr><td>  </td><td></td></tr>
				<tr><td>kept</td><td></td></tr>
			</table>`,
			expected: PageSignature{{"kept", ""}},
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			doc := parseTestDocument(t, test.html)
			got := ExtractPageSignature(doc)
			diff := cmp.Diff(test.expected, got)
			if diff != "" {
				t.Fatal(diff)
			}

			// extraction must be idempotent
			again := ExtractPageSignature(doc)
			require.True(t, got.Equal(again))
		})
	}
}

func TestPageSignatureEqual(t *testing.T) {
	a := PageSignature{{"x", "y"}, {"z"}}
	require.True(t, a.Equal(PageSignature{{"x", "y"}, {"z"}}))
	require.False(t, a.Equal(PageSignature{{"x", "y"}}))
	require.False(t, a.Equal(PageSignature{{"x", "y"}, {"w"}}))
	require.False(t, a.Equal(PageSignature{{"x"}, {"z", "y"}}))
}
