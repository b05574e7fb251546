package sheets

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	// Published copies live under /d/e/<id>, which is not the spreadsheet ID.
	sheetIDPattern = regexp.MustCompile(`spreadsheets/d/(e/)?([a-zA-Z0-9-_]+)`)
	gidPattern     = regexp.MustCompile(`gid=([0-9]+)`)
	publishPattern = regexp.MustCompile(`/pub(html)?(\?|$|#)`)
	exportPattern  = regexp.MustCompile(`output=csv|export\?format=csv`)
)

// Link is what a pasted Google Sheets URL tells us.
type Link struct {
	SheetID string `json:"sheetId"`
	GID     string `json:"gid,omitempty"`
	CSVURL  string `json:"csvUrl,omitempty"`
	Method  Method `json:"method"`
}

// ParseLink extracts the sheet ID and tab gid from a Google Sheets URL.
// Published and export links are read as public CSV, anything else needs the
// service account.
func ParseLink(rawURL string) (Link, bool) {
	m := sheetIDPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return Link{}, false
	}
	link := Link{SheetID: m[2], Method: MethodServiceAccount}
	if g := gidPattern.FindStringSubmatch(rawURL); g != nil {
		link.GID = g[1]
	}
	switch {
	case publishPattern.MatchString(rawURL):
		link.Method = MethodPublicCSV
		link.CSVURL = publishedCSVURL(rawURL)
	case m[1] != "":
		// A published ID cannot be exported or opened with a service account.
		link.Method = MethodPublicCSV
		link.CSVURL = publishedCSVURL(rawURL)
	case exportPattern.MatchString(rawURL):
		link.Method = MethodPublicCSV
		if strings.Contains(rawURL, "export?format=csv") {
			link.CSVURL = rawURL
		} else {
			link.CSVURL = ExportURL(link.SheetID, link.GID)
		}
	}
	return link, true
}

// publishedCSVURL turns a "publish to web" link into its CSV form: the /pub
// endpoint with output=csv, keeping gid and the other query values.
func publishedCSVURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	path := strings.TrimSuffix(u.Path, "/")
	if i := strings.LastIndex(path, "/"); i >= 0 {
		switch path[i+1:] {
		case "pub", "pubhtml", "edit", "htmlview":
			path = path[:i]
		}
	}
	u.Path = path + "/pub"
	q := u.Query()
	q.Set("output", "csv")
	u.RawQuery = q.Encode()
	u.Fragment = ""
	return u.String()
}
