// Package lti builds the LTI tool provider configuration document (a
// cartridge_basiclti_link) that an LMS reads to register a tool and its placements.
//
// A ConfigurationBuilder validates every value as it is set, so Render never fails.
// A builder is owned by one goroutine while it is mutated; once built it may be
// rendered concurrently.
package lti

// placement is one configured lticm:options block.
type placement struct {
	option     PlacementOption
	properties Properties
}

// ConfigurationBuilder holds the settings of a single tool provider document.
type ConfigurationBuilder struct {
	name        string
	id          string
	launchURL   string
	description string
	iconURL     string
	privacy     LaunchPrivacy
	domain      string
	placements  []placement // insertion order
}

// Option configures optional fields during New.
type Option func(*ConfigurationBuilder) error

// WithDescription sets the blti:description text.
func WithDescription(description string) Option {
	return func(b *ConfigurationBuilder) error {
		b.SetDescription(description)
		return nil
	}
}

// WithIconURL sets the blti:icon URL.
func WithIconURL(iconURL string) Option {
	return func(b *ConfigurationBuilder) error {
		b.SetIconURL(iconURL)
		return nil
	}
}

// WithLaunchPrivacy sets the privacy level.
func WithLaunchPrivacy(p LaunchPrivacy) Option {
	return func(b *ConfigurationBuilder) error {
		return b.SetLaunchPrivacy(p)
	}
}

// WithDomain sets the domain extension property.
func WithDomain(domain string) Option {
	return func(b *ConfigurationBuilder) error {
		b.SetDomain(domain)
		return nil
	}
}

// WithOption configures a placement and its properties.
func WithOption(option PlacementOption, properties Properties) Option {
	return func(b *ConfigurationBuilder) error {
		return b.SetOption(option, properties)
	}
}

// New creates a builder from the three required fields.
// Returns a ToolProvider ConfigurationError if any of them is empty or an option is rejected.
func New(name, id, launchURL string, opts ...Option) (*ConfigurationBuilder, error) {
	b := &ConfigurationBuilder{privacy: Anonymous}

	if err := b.SetName(name); err != nil {
		return nil, err
	}
	if err := b.SetID(id); err != nil {
		return nil, err
	}
	if err := b.SetLaunchURL(launchURL); err != nil {
		return nil, err
	}

	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}

	return b, nil
}

// SetName sets the blti:title. The name is also the default placement text.
func (b *ConfigurationBuilder) SetName(name string) error {
	if name == "" {
		return toolProviderError("name must not be empty")
	}
	b.name = name
	return nil
}

// SetID sets the tool_id extension property.
// Uniqueness is the caller's concern.
func (b *ConfigurationBuilder) SetID(id string) error {
	if id == "" {
		return toolProviderError("id must not be empty")
	}
	b.id = id
	return nil
}

// SetLaunchURL sets blti:launch_url. The URL is also the default placement url.
// The value is not parsed.
func (b *ConfigurationBuilder) SetLaunchURL(launchURL string) error {
	if launchURL == "" {
		return toolProviderError("launch URL must not be empty")
	}
	b.launchURL = launchURL
	return nil
}

// SetDescription sets blti:description. Empty clears it.
func (b *ConfigurationBuilder) SetDescription(description string) {
	b.description = description
}

// SetIconURL sets blti:icon. Empty clears it.
func (b *ConfigurationBuilder) SetIconURL(iconURL string) {
	b.iconURL = iconURL
}

// SetLaunchPrivacy sets the privacy level. The zero value resets it to Anonymous.
func (b *ConfigurationBuilder) SetLaunchPrivacy(p LaunchPrivacy) error {
	if p == 0 {
		b.privacy = Anonymous
		return nil
	}
	if !p.IsValid() {
		return toolProviderError("invalid launch privacy %d", p)
	}
	b.privacy = p
	return nil
}

// SetDomain sets the domain extension property. Empty clears it.
func (b *ConfigurationBuilder) SetDomain(domain string) {
	b.domain = domain
}

// SetOption replaces the properties of a placement. A placement that is already
// configured keeps its position in the document.
func (b *ConfigurationBuilder) SetOption(option PlacementOption, properties Properties) error {
	if !option.IsValid() {
		return toolProviderError("invalid placement option %d", option)
	}

	props := properties.Clone()
	if i := b.indexOf(option); i >= 0 {
		b.placements[i].properties = props
		return nil
	}
	b.placements = append(b.placements, placement{option: option, properties: props})
	return nil
}

// SetOptionProperty merges one property into a placement, configuring the
// placement first if needed.
func (b *ConfigurationBuilder) SetOptionProperty(option PlacementOption, name, value string) error {
	if !option.IsValid() {
		return toolProviderError("invalid placement option %d", option)
	}

	i := b.indexOf(option)
	if i < 0 {
		b.placements = append(b.placements, placement{option: option})
		i = len(b.placements) - 1
	}
	b.placements[i].properties = b.placements[i].properties.Set(name, value)
	return nil
}

func (b *ConfigurationBuilder) indexOf(option PlacementOption) int {
	for i, p := range b.placements {
		if p.option == option {
			return i
		}
	}
	return -1
}

func (b *ConfigurationBuilder) Name() string                 { return b.name }
func (b *ConfigurationBuilder) ID() string                   { return b.id }
func (b *ConfigurationBuilder) LaunchURL() string            { return b.launchURL }
func (b *ConfigurationBuilder) Description() string          { return b.description }
func (b *ConfigurationBuilder) IconURL() string              { return b.iconURL }
func (b *ConfigurationBuilder) LaunchPrivacy() LaunchPrivacy { return b.privacy }
func (b *ConfigurationBuilder) Domain() string               { return b.domain }

// Options returns a copy of the explicitly configured properties of each
// placement, without the text/url defaults that Render injects.
// ConfiguredOptions gives the document order.
func (b *ConfigurationBuilder) Options() map[PlacementOption]Properties {
	out := make(map[PlacementOption]Properties, len(b.placements))
	for _, p := range b.placements {
		out[p.option] = p.properties.Clone()
	}
	return out
}

// ConfiguredOptions returns the configured placements in insertion order.
func (b *ConfigurationBuilder) ConfiguredOptions() []PlacementOption {
	out := make([]PlacementOption, len(b.placements))
	for i, p := range b.placements {
		out[i] = p.option
	}
	return out
}
