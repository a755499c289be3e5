package reports

import (
	"strings"

	recruitmentDatamodel "github.com/talentbridge/portal/internal/core/datamodel/recruitment"
)

// ViewKind selects which report the viewer shows.
type ViewKind string

const (
	// ViewDemo is the top-compensation subset.
	ViewDemo ViewKind = "demo"
	// ViewService is the full alphabetical listing.
	ViewService ViewKind = "service"
)

func ParseViewKind(s string) (ViewKind, bool) {
	switch ViewKind(s) {
	case ViewDemo, ViewService:
		return ViewKind(s), true
	}
	return "", false
}

// Indicator is the rendered state of one date column.
type Indicator string

const (
	IndicatorNone        Indicator = ""
	IndicatorAffirmative Indicator = "affirmative"
	IndicatorAlert       Indicator = "alert"
)

const checkSentinel = "✓"

// IndicatorFor renders a mark only when the raw value carries the check
// sentinel; "red" anywhere in the value (any case) switches it to the alert
// color. Everything else renders empty. The HR alert report depends on this
// exact rule.
func IndicatorFor(raw string) Indicator {
	if !strings.Contains(raw, checkSentinel) {
		return IndicatorNone
	}
	if strings.Contains(strings.ToLower(raw), "red") {
		return IndicatorAlert
	}
	return IndicatorAffirmative
}

// Row is the fixed column projection every profile is normalized to.
type Row struct {
	Name        string    `json:"name"`
	Designation string    `json:"designation"`
	Location    string    `json:"location"`
	Company     string    `json:"company"`
	Date1       Indicator `json:"date1"`
	Date2       Indicator `json:"date2"`
	Date3       Indicator `json:"date3"`
	Date4       Indicator `json:"date4"`
}

// NewRow projects a profile, preferring the current_ prefixed fields that
// newer upstream deployments emit.
func NewRow(p recruitmentDatamodel.Profile) Row {
	designation := p.CurrentDesignation
	if designation == "" {
		designation = p.Designation
	}
	company := p.CurrentCompany
	if company == "" {
		company = p.Company
	}
	return Row{
		Name:        p.Name,
		Designation: designation,
		Location:    p.Location,
		Company:     company,
		Date1:       IndicatorFor(p.Date1),
		Date2:       IndicatorFor(p.Date2),
		Date3:       IndicatorFor(p.Date3),
		Date4:       IndicatorFor(p.Date4),
	}
}
