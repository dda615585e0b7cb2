package lti

import "strings"

// PlacementOption is a UI location in the consumer where the tool can be launched.
// The zero value is not a valid placement.
type PlacementOption uint8

const (
	Editor PlacementOption = iota + 1
	LinkSelection
	HomeworkSubmission
	CourseNavigation
	AccountNavigation
	UserNavigation
)

var placementOptions = [...]struct {
	name string
	code string
}{
	Editor:             {"EDITOR", "editor"},
	LinkSelection:      {"LINK_SELECTION", "link_selection"},
	HomeworkSubmission: {"HOMEWORK_SUBMISSION", "homework_submission"},
	CourseNavigation:   {"COURSE_NAVIGATION", "course_navigation"},
	AccountNavigation:  {"ACCOUNT_NAVIGATION", "account_navigation"},
	UserNavigation:     {"USER_NAVIGATION", "user_navigation"},
}

// PlacementOptions returns every placement in declaration order.
func PlacementOptions() []PlacementOption {
	return []PlacementOption{
		Editor, LinkSelection, HomeworkSubmission,
		CourseNavigation, AccountNavigation, UserNavigation,
	}
}

// IsValid reports whether o is a member of the closed set.
func (o PlacementOption) IsValid() bool {
	return o >= Editor && o <= UserNavigation
}

// String returns the external code used as the lticm:options name.
func (o PlacementOption) String() string {
	if !o.IsValid() {
		return ""
	}
	return placementOptions[o].code
}

// Name returns the symbolic member name, e.g. COURSE_NAVIGATION.
func (o PlacementOption) Name() string {
	if !o.IsValid() {
		return ""
	}
	return placementOptions[o].name
}

// ParsePlacementOption accepts an external code ("course_navigation") or a
// member name ("COURSE_NAVIGATION").
func ParsePlacementOption(s string) (PlacementOption, error) {
	s = strings.TrimSpace(s)
	for _, o := range PlacementOptions() {
		if s == o.String() || strings.EqualFold(s, o.Name()) {
			return o, nil
		}
	}
	return 0, toolProviderError("invalid placement option %q", s)
}
