package sheets

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockLister struct {
	Tabs  []string
	Err   error
	Calls []string
}

func (m *mockLister) ListTabs(_ context.Context, sheetID string) ([]string, error) {
	m.Calls = append(m.Calls, sheetID)
	return m.Tabs, m.Err
}

func TestNormalizeRange(t *testing.T) {
	tabs := []string{"Orders", "Sales 2024", "Archive"}
	tests := []struct {
		name      string
		requested string
		want      string
		fellBack  bool
	}{
		{"absent", "", "Orders!A:Z", false},
		{"explicit tab", "Archive!A1:H200", "Archive!A1:H200", false},
		{"quoted tab with space", "'Sales 2024'!B:F", "'Sales 2024'!B:F", false},
		{"unquoted tab with space", "Sales 2024!A:Z", "'Sales 2024'!A:Z", false},
		{"tab without cells", "Archive!", "Archive!A:Z", false},
		{"unknown tab keeps cells", "Feuille1!A:Z", "Orders!A:Z", true},
		{"unknown tab without cells", "Nope!", "Orders!A:Z", true},
		{"bare cells", "A1:D20", "Orders!A1:D20", false},
		{"whitespace", "   ", "Orders!A:Z", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lister := &mockLister{Tabs: tabs}
			res, err := NormalizeRange(context.Background(), lister, "sheet-1", tt.requested)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.FinalRange)
			assert.Equal(t, tt.fellBack, res.FellBack)
			assert.Equal(t, tabs, res.Tabs)
			assert.Equal(t, []string{"sheet-1"}, lister.Calls)
		})
	}
}

func TestNormalizeRangeAlwaysLandsOnALiveTab(t *testing.T) {
	tabs := []string{"First Tab", "Second"}
	requests := []string{"", "!", "!!", "'", "''!A1", "Second!C:C", "second!A:Z", "x!y!z", "A:Z", "'First Tab'!", "🙂!A1"}
	for _, req := range requests {
		res, err := NormalizeRange(context.Background(), &mockLister{Tabs: tabs}, "s", req)
		require.NoError(t, err, req)
		tab, _, hasTab := SplitRange(res.FinalRange)
		assert.True(t, hasTab, req)
		assert.True(t, slices.Contains(tabs, tab), "range %q from %q", res.FinalRange, req)
	}
}

func TestNormalizeRangeNoTabs(t *testing.T) {
	_, err := NormalizeRange(context.Background(), &mockLister{Tabs: []string{}}, "s", "A:Z")
	assert.ErrorIs(t, err, ErrNoTabs)

	_, err = NormalizeRange(context.Background(), &mockLister{Tabs: []string{""}}, "s", "")
	assert.ErrorIs(t, err, ErrNoTabs)
}

func TestNormalizeRangeListError(t *testing.T) {
	boom := errors.New("boom")
	_, err := NormalizeRange(context.Background(), &mockLister{Err: boom}, "s", "")
	assert.ErrorIs(t, err, boom)
}

func TestRowSpan(t *testing.T) {
	got, err := rowSpan("Orders", 5, 7)
	require.NoError(t, err)
	assert.Equal(t, "Orders!A5:G5", got)

	got, err = rowSpan("Sales 2024", 12, 28)
	require.NoError(t, err)
	assert.Equal(t, "'Sales 2024'!A12:AB12", got)

	got, err = rowSpan("Orders", 2, 0)
	require.NoError(t, err)
	assert.Equal(t, "Orders!A2:A2", got)
}
