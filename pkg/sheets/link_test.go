package sheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLink(t *testing.T) {
	tests := []struct {
		url    string
		want   Link
		wantOK bool
	}{
		{
			url:    "https://docs.google.com/spreadsheets/d/1AbC-_x/edit#gid=0",
			want:   Link{SheetID: "1AbC-_x", GID: "0", Method: MethodServiceAccount},
			wantOK: true,
		},
		{
			url: "https://docs.google.com/spreadsheets/d/1AbC/pub?gid=7&single=true&output=csv",
			want: Link{
				SheetID: "1AbC",
				GID:     "7",
				CSVURL:  "https://docs.google.com/spreadsheets/d/1AbC/pub?gid=7&output=csv&single=true",
				Method:  MethodPublicCSV,
			},
			wantOK: true,
		},
		{
			url: "https://docs.google.com/spreadsheets/d/e/2PACX-1vQx_Y9/pub?output=csv",
			want: Link{
				SheetID: "2PACX-1vQx_Y9",
				CSVURL:  "https://docs.google.com/spreadsheets/d/e/2PACX-1vQx_Y9/pub?output=csv",
				Method:  MethodPublicCSV,
			},
			wantOK: true,
		},
		{
			url: "https://docs.google.com/spreadsheets/d/e/2PACX-1vQx_Y9/pubhtml?gid=12",
			want: Link{
				SheetID: "2PACX-1vQx_Y9",
				GID:     "12",
				CSVURL:  "https://docs.google.com/spreadsheets/d/e/2PACX-1vQx_Y9/pub?gid=12&output=csv",
				Method:  MethodPublicCSV,
			},
			wantOK: true,
		},
		{
			url: "https://docs.google.com/spreadsheets/d/1AbC/edit?output=csv#gid=2",
			want: Link{
				SheetID: "1AbC",
				GID:     "2",
				CSVURL:  "https://docs.google.com/spreadsheets/d/1AbC/export?format=csv&gid=2",
				Method:  MethodPublicCSV,
			},
			wantOK: true,
		},
		{
			url: "https://docs.google.com/spreadsheets/d/1AbC/export?format=csv&gid=3",
			want: Link{
				SheetID: "1AbC",
				GID:     "3",
				CSVURL:  "https://docs.google.com/spreadsheets/d/1AbC/export?format=csv&gid=3",
				Method:  MethodPublicCSV,
			},
			wantOK: true,
		},
		{url: "https://example.com/not-a-sheet", wantOK: false},
	}
	for _, tt := range tests {
		got, ok := ParseLink(tt.url)
		assert.Equal(t, tt.wantOK, ok, tt.url)
		assert.Equal(t, tt.want, got, tt.url)
	}
}

func TestParseMethod(t *testing.T) {
	m, ok := ParseMethod("")
	assert.True(t, ok)
	assert.Equal(t, MethodServiceAccount, m)

	m, ok = ParseMethod("public-csv")
	assert.True(t, ok)
	assert.Equal(t, MethodPublicCSV, m)

	_, ok = ParseMethod("ftp")
	assert.False(t, ok)
}
