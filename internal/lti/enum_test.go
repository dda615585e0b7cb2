package lti

import (
	"errors"
	"testing"
)

func TestLaunchPrivacyCodes(t *testing.T) {
	tests := []struct {
		privacy LaunchPrivacy
		name    string
		code    string
	}{
		{UserProfile, "USER_PROFILE", "public"},
		{NameOnly, "NAME_ONLY", "name_only"},
		{EmailOnly, "EMAIL_ONLY", "email_only"},
		{Anonymous, "ANONYMOUS", "anonymous"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.privacy.IsValid() {
				t.Fatalf("IsValid() = false for %s", tt.name)
			}
			if got := tt.privacy.String(); got != tt.code {
				t.Errorf("String() = %q, want %q", got, tt.code)
			}
			if got := tt.privacy.Name(); got != tt.name {
				t.Errorf("Name() = %q, want %q", got, tt.name)
			}
		})
	}

	if len(LaunchPrivacies()) != len(tests) {
		t.Errorf("LaunchPrivacies() has %d members, want %d", len(LaunchPrivacies()), len(tests))
	}
}

func TestLaunchPrivacyInvalid(t *testing.T) {
	for _, p := range []LaunchPrivacy{0, 5, 255} {
		if p.IsValid() {
			t.Errorf("LaunchPrivacy(%d).IsValid() = true, want false", p)
		}
		if p.String() != "" {
			t.Errorf("LaunchPrivacy(%d).String() = %q, want empty", p, p.String())
		}
	}
}

func TestParseLaunchPrivacy(t *testing.T) {
	tests := []struct {
		input   string
		want    LaunchPrivacy
		wantErr bool
	}{
		{"public", UserProfile, false},
		{"USER_PROFILE", UserProfile, false},
		{"name_only", NameOnly, false},
		{"EMAIL_ONLY", EmailOnly, false},
		{"EmailOnly", EmailOnly, false},
		{"userprofile", UserProfile, false},
		{"Email Only", 0, true},
		{"anonymous", Anonymous, false},
		{"", Anonymous, false},
		{"  ", Anonymous, false},
		{"bogus", 0, true},
		{"Public ", UserProfile, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLaunchPrivacy(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrToolProvider) {
					t.Fatalf("ParseLaunchPrivacy(%q) error = %v, want ToolProvider error", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseLaunchPrivacy(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseLaunchPrivacy(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestPlacementOptionCodes(t *testing.T) {
	want := map[PlacementOption]string{
		Editor:             "editor",
		LinkSelection:      "link_selection",
		HomeworkSubmission: "homework_submission",
		CourseNavigation:   "course_navigation",
		AccountNavigation:  "account_navigation",
		UserNavigation:     "user_navigation",
	}

	all := PlacementOptions()
	if len(all) != len(want) {
		t.Fatalf("PlacementOptions() has %d members, want %d", len(all), len(want))
	}
	for _, o := range all {
		if got := o.String(); got != want[o] {
			t.Errorf("%s.String() = %q, want %q", o.Name(), got, want[o])
		}
		parsed, err := ParsePlacementOption(o.String())
		if err != nil || parsed != o {
			t.Errorf("ParsePlacementOption(%q) = %v, %v", o.String(), parsed, err)
		}
		parsed, err = ParsePlacementOption(o.Name())
		if err != nil || parsed != o {
			t.Errorf("ParsePlacementOption(%q) = %v, %v", o.Name(), parsed, err)
		}
	}
}

func TestParsePlacementOptionInvalid(t *testing.T) {
	for _, input := range []string{"", "sidebar", "course-navigation"} {
		if _, err := ParsePlacementOption(input); !errors.Is(err, ErrToolProvider) {
			t.Errorf("ParsePlacementOption(%q) error = %v, want ToolProvider error", input, err)
		}
	}
	if PlacementOption(0).IsValid() || PlacementOption(7).IsValid() {
		t.Error("out-of-range placement options should be invalid")
	}
}
