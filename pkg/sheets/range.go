package sheets

import (
	"context"
	"slices"
	"strings"

	log "github.com/sirupsen/logrus"
)

// DefaultCells is the cell span used when a range names no cells.
const DefaultCells = "A:Z"

// ResolvedRange is the outcome of NormalizeRange.
type ResolvedRange struct {
	FinalRange string
	Tab        string
	Cells      string
	Tabs       []string
	// FellBack is set when the requested tab did not exist.
	FellBack bool
}

// SplitRange splits "Tab!A:Z" into an unquoted tab and its cells. hasTab is
// false for a bare cell range such as "A1:D20".
func SplitRange(r string) (tab, cells string, hasTab bool) {
	tab, cells, hasTab = strings.Cut(r, "!")
	if !hasTab {
		return "", r, false
	}
	tab = strings.TrimPrefix(tab, "'")
	tab = strings.TrimSuffix(tab, "'")
	return tab, cells, true
}

// QuoteTab quotes tab titles that contain a space.
func QuoteTab(tab string) string {
	if strings.Contains(tab, " ") {
		return "'" + tab + "'"
	}
	return tab
}

// JoinRange builds an A1 range string from a tab and a cell span.
func JoinRange(tab, cells string) string {
	if cells == "" {
		cells = DefaultCells
	}
	return QuoteTab(tab) + "!" + cells
}

// NormalizeRange validates requested against the live tab list. An absent or
// unknown tab falls back to the first tab; only a spreadsheet without tabs is
// an error.
func NormalizeRange(ctx context.Context, lister TabLister, sheetID, requested string) (ResolvedRange, error) {
	tabs, err := lister.ListTabs(ctx, sheetID)
	if err != nil {
		return ResolvedRange{}, err
	}
	tabs = slices.DeleteFunc(tabs, func(t string) bool { return t == "" })
	if len(tabs) == 0 {
		return ResolvedRange{}, ErrNoTabs
	}

	res := ResolvedRange{Tab: tabs[0], Cells: DefaultCells, Tabs: tabs}
	requested = strings.TrimSpace(requested)

	switch tab, cells, hasTab := SplitRange(requested); {
	case requested == "":
	case hasTab:
		if cells != "" {
			res.Cells = cells
		}
		if slices.Contains(tabs, tab) {
			res.Tab = tab
		} else {
			res.FellBack = true
			log.WithFields(log.Fields{
				"sheet":     sheetID,
				"requested": tab,
				"fallback":  tabs[0],
			}).Warn("Tab not found, falling back to first tab")
		}
	default:
		res.Cells = cells
	}

	res.FinalRange = JoinRange(res.Tab, res.Cells)
	return res, nil
}
