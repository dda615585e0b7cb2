package lti

import "strings"

// LaunchPrivacy controls how much user profile data the consumer sends at launch.
// The zero value means unset and renders as Anonymous.
type LaunchPrivacy uint8

const (
	UserProfile LaunchPrivacy = iota + 1
	NameOnly
	EmailOnly
	Anonymous
)

var launchPrivacies = [...]struct {
	name string
	code string
}{
	UserProfile: {"USER_PROFILE", "public"},
	NameOnly:    {"NAME_ONLY", "name_only"},
	EmailOnly:   {"EMAIL_ONLY", "email_only"},
	Anonymous:   {"ANONYMOUS", "anonymous"},
}

// LaunchPrivacies returns every privacy level in declaration order.
func LaunchPrivacies() []LaunchPrivacy {
	return []LaunchPrivacy{UserProfile, NameOnly, EmailOnly, Anonymous}
}

// IsValid reports whether p is a member of the closed set.
func (p LaunchPrivacy) IsValid() bool {
	return p >= UserProfile && p <= Anonymous
}

// String returns the external code written to privacy_level.
func (p LaunchPrivacy) String() string {
	if !p.IsValid() {
		return ""
	}
	return launchPrivacies[p].code
}

// Name returns the symbolic member name, e.g. USER_PROFILE.
func (p LaunchPrivacy) Name() string {
	if !p.IsValid() {
		return ""
	}
	return launchPrivacies[p].name
}

// ParseLaunchPrivacy accepts an external code ("public") or a member name in
// any case, with or without underscores ("USER_PROFILE", "UserProfile").
// The empty string yields Anonymous.
func ParseLaunchPrivacy(s string) (LaunchPrivacy, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Anonymous, nil
	}
	for _, p := range LaunchPrivacies() {
		if s == p.String() || strings.EqualFold(s, p.Name()) || strings.EqualFold(s, compactName(p.Name())) {
			return p, nil
		}
	}
	return 0, toolProviderError("invalid launch privacy %q", s)
}

// compactName drops underscores from a member name: EMAIL_ONLY becomes EMAILONLY.
func compactName(name string) string {
	return strings.ReplaceAll(name, "_", "")
}
