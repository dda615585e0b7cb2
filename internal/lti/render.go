package lti

import (
	"encoding/xml"
	"io"
	"strings"
)

// Namespace URIs of the cartridge link document.
const (
	NamespaceCartridgeLink = "http://www.imsglobal.org/xsd/imslticc_v1p0"
	NamespaceBasicLTI      = "http://www.imsglobal.org/xsd/imsbasiclti_v1p0"
	NamespaceMessaging     = "http://www.imsglobal.org/xsd/imslticm_v1p0"
	NamespaceProfile       = "http://www.imsglobal.org/xsd/imslticp_v1p0"
	NamespaceXSI           = "http://www.w3.org/2001/XMLSchema-instance"
)

// Platform is the fixed blti:extensions platform.
const Platform = "canvas.instructure.com"

// Fixed cartridge references emitted after the extensions block.
const (
	BundleRef = "BLT001_Bundle"
	IconRef   = "BLT001_Icon"
)

const (
	propertyText = "text"
	propertyURL  = "url"
)

type cartridgeLink struct {
	XMLName        xml.Name         `xml:"cartridge_basiclti_link"`
	Xmlns          string           `xml:"xmlns,attr"`
	XmlnsBLTI      string           `xml:"xmlns:blti,attr"`
	XmlnsLTICM     string           `xml:"xmlns:lticm,attr"`
	XmlnsLTICP     string           `xml:"xmlns:lticp,attr"`
	XmlnsXSI       string           `xml:"xmlns:xsi,attr"`
	SchemaLocation string           `xml:"xsi:schemaLocation,attr"`
	Title          string           `xml:"blti:title"`
	Description    string           `xml:"blti:description,omitempty"`
	Icon           string           `xml:"blti:icon,omitempty"`
	LaunchURL      string           `xml:"blti:launch_url"`
	Extensions     extensions       `xml:"blti:extensions"`
	Bundle         cartridgeBundle  `xml:"cartridge_bundle"`
	CartridgeIcon  cartridgeIconRef `xml:"cartridge_icon"`
}

type extensions struct {
	Platform   string         `xml:"platform,attr"`
	Properties []propertyElem `xml:"lticm:property"`
	Options    []optionsElem  `xml:"lticm:options"`
}

type optionsElem struct {
	Name       string         `xml:"name,attr"`
	Properties []propertyElem `xml:"lticm:property"`
}

type propertyElem struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

// The attribute spelling on cartridge_bundle is part of the fixed output.
type cartridgeBundle struct {
	Ref string `xml:"identiferref,attr"`
}

type cartridgeIconRef struct {
	Ref string `xml:"identifierref,attr"`
}

// schemaLocation pairs each namespace with its schema file, the URI plus ".xsd".
func schemaLocation() string {
	namespaces := []string{
		NamespaceCartridgeLink,
		NamespaceBasicLTI,
		NamespaceMessaging,
		NamespaceProfile,
	}
	pairs := make([]string, 0, len(namespaces))
	for _, ns := range namespaces {
		pairs = append(pairs, ns+" "+ns+".xsd")
	}
	return strings.Join(pairs, " ")
}

// Render returns the pretty-printed XML document, including the XML declaration.
// The output is a pure function of the builder state.
func (b *ConfigurationBuilder) Render() string {
	out, err := xml.MarshalIndent(b.document(), "", "  ")
	if err != nil {
		// Only string fields are marshalled; encoding/xml cannot fail on them.
		panic("lti: marshal configuration: " + err.Error())
	}
	return xml.Header + string(out) + "\n"
}

// WriteTo writes the rendered document to w.
func (b *ConfigurationBuilder) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, b.Render())
	return int64(n), err
}

func (b *ConfigurationBuilder) document() *cartridgeLink {
	ext := extensions{
		Platform: Platform,
		Properties: []propertyElem{
			{Name: "tool_id", Value: b.id},
			{Name: "privacy_level", Value: b.privacy.String()},
		},
	}
	if b.domain != "" {
		ext.Properties = append(ext.Properties, propertyElem{Name: "domain", Value: b.domain})
	}

	placements := b.placements
	if len(placements) == 0 {
		placements = []placement{{option: CourseNavigation}}
	}
	for _, p := range placements {
		ext.Options = append(ext.Options, optionsElem{
			Name:       p.option.String(),
			Properties: propertyElems(b.withDefaults(p.properties)),
		})
	}

	return &cartridgeLink{
		Xmlns:          NamespaceCartridgeLink,
		XmlnsBLTI:      NamespaceBasicLTI,
		XmlnsLTICM:     NamespaceMessaging,
		XmlnsLTICP:     NamespaceProfile,
		XmlnsXSI:       NamespaceXSI,
		SchemaLocation: schemaLocation(),
		Title:          b.name,
		Description:    b.description,
		Icon:           b.iconURL,
		LaunchURL:      b.launchURL,
		Extensions:     ext,
		Bundle:         cartridgeBundle{Ref: BundleRef},
		CartridgeIcon:  cartridgeIconRef{Ref: IconRef},
	}
}

// withDefaults appends text and url when missing, leaving explicit keys in place.
func (b *ConfigurationBuilder) withDefaults(props Properties) Properties {
	out := props.Clone()
	if !out.Has(propertyText) {
		out = append(out, Property{Name: propertyText, Value: b.name})
	}
	if !out.Has(propertyURL) {
		out = append(out, Property{Name: propertyURL, Value: b.launchURL})
	}
	return out
}

func propertyElems(props Properties) []propertyElem {
	out := make([]propertyElem, len(props))
	for i, p := range props {
		out[i] = propertyElem{Name: p.Name, Value: p.Value}
	}
	return out
}
