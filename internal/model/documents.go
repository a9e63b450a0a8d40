// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ContactInfo is the contact block shown on the public site.
type ContactInfo struct {
	AddressEN string `json:"addrEn" yaml:"addrEn" form:"addr_en"`
	AddressBN string `json:"addrBn" yaml:"addrBn" form:"addr_bn"`
	Phone     string `json:"phone" yaml:"phone" form:"phone"`
	Email     string `json:"email" yaml:"email" form:"email" validate:"omitempty,email"`
	Facebook  string `json:"facebook" yaml:"facebook" form:"facebook" validate:"omitempty,url"`
	Twitter   string `json:"twitter" yaml:"twitter" form:"twitter" validate:"omitempty,url"`
	LinkedIn  string `json:"linkedin" yaml:"linkedin" form:"linkedin" validate:"omitempty,url"`
	Instagram string `json:"instagram" yaml:"instagram" form:"instagram" validate:"omitempty,url"`
}

// AboutStat is one of the three counters on the About page.
type AboutStat struct {
	Value   string
	LabelEN string
	LabelBN string
}

// AboutContent is the About page text.
type AboutContent struct {
	DescriptionEN string `json:"descEn" yaml:"descEn" form:"desc_en"`
	DescriptionBN string `json:"descBn" yaml:"descBn" form:"desc_bn"`
	Stat1Value    string `json:"stat1Val" yaml:"stat1Val" form:"stat1_val"`
	Stat1LabelEN  string `json:"stat1LblEn" yaml:"stat1LblEn" form:"stat1_lbl_en"`
	Stat1LabelBN  string `json:"stat1LblBn" yaml:"stat1LblBn" form:"stat1_lbl_bn"`
	Stat2Value    string `json:"stat2Val" yaml:"stat2Val" form:"stat2_val"`
	Stat2LabelEN  string `json:"stat2LblEn" yaml:"stat2LblEn" form:"stat2_lbl_en"`
	Stat2LabelBN  string `json:"stat2LblBn" yaml:"stat2LblBn" form:"stat2_lbl_bn"`
	Stat3Value    string `json:"stat3Val" yaml:"stat3Val" form:"stat3_val"`
	Stat3LabelEN  string `json:"stat3LblEn" yaml:"stat3LblEn" form:"stat3_lbl_en"`
	Stat3LabelBN  string `json:"stat3LblBn" yaml:"stat3LblBn" form:"stat3_lbl_bn"`
	MissionEN     string `json:"missionEn" yaml:"missionEn" form:"mission_en"`
	MissionBN     string `json:"missionBn" yaml:"missionBn" form:"mission_bn"`
	VisionEN      string `json:"visionEn" yaml:"visionEn" form:"vision_en"`
	VisionBN      string `json:"visionBn" yaml:"visionBn" form:"vision_bn"`
}

// Stats returns the three About counters in display order.
func (a AboutContent) Stats() []AboutStat {
	return []AboutStat{
		{a.Stat1Value, a.Stat1LabelEN, a.Stat1LabelBN},
		{a.Stat2Value, a.Stat2LabelEN, a.Stat2LabelBN},
		{a.Stat3Value, a.Stat3LabelEN, a.Stat3LabelBN},
	}
}

// SiteSettings are the organization-wide settings.
type SiteSettings struct {
	OrgNameEN    string `json:"orgEn" yaml:"orgEn" form:"org_en"`
	OrgNameBN    string `json:"orgBn" yaml:"orgBn" form:"org_bn"`
	AddressEN    string `json:"addressEn" yaml:"addressEn" form:"address_en"`
	AddressBN    string `json:"addressBn" yaml:"addressBn" form:"address_bn"`
	Phone        string `json:"phone" yaml:"phone" form:"phone"`
	Email        string `json:"email" yaml:"email" form:"email" validate:"omitempty,email"`
	Facebook     string `json:"facebook" yaml:"facebook" form:"facebook" validate:"omitempty,url"`
	HeroSubtitle string `json:"heroSub" yaml:"heroSub" form:"hero_sub"`
}

type documentDefaults struct {
	Contact  ContactInfo  `yaml:"contact"`
	About    AboutContent `yaml:"about"`
	Settings SiteSettings `yaml:"settings"`
}

var defaults = mustLoadDefaults(defaultsYAML)

func mustLoadDefaults(data []byte) documentDefaults {
	var d documentDefaults
	if err := yaml.Unmarshal(data, &d); err != nil {
		panic(fmt.Sprintf("model: parsing defaults.yaml: %v", err))
	}
	return d
}

// DefaultContactInfo returns the contact block used before one is saved.
func DefaultContactInfo() ContactInfo { return defaults.Contact }

// DefaultAboutContent returns the About text used before one is saved.
func DefaultAboutContent() AboutContent { return defaults.About }

// DefaultSiteSettings returns the settings used before they are saved.
func DefaultSiteSettings() SiteSettings { return defaults.Settings }

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// WithDefaults fills empty fields from the built-in contact block.
func (c ContactInfo) WithDefaults() ContactInfo {
	d := defaults.Contact
	c.AddressEN = firstNonEmpty(c.AddressEN, d.AddressEN)
	c.AddressBN = firstNonEmpty(c.AddressBN, d.AddressBN)
	c.Phone = firstNonEmpty(c.Phone, d.Phone)
	c.Email = firstNonEmpty(c.Email, d.Email)
	return c
}

// WithDefaults fills empty fields from the built-in About text.
func (a AboutContent) WithDefaults() AboutContent {
	d := defaults.About
	a.DescriptionEN = firstNonEmpty(a.DescriptionEN, d.DescriptionEN)
	a.DescriptionBN = firstNonEmpty(a.DescriptionBN, d.DescriptionBN)
	a.Stat1Value = firstNonEmpty(a.Stat1Value, d.Stat1Value)
	a.Stat1LabelEN = firstNonEmpty(a.Stat1LabelEN, d.Stat1LabelEN)
	a.Stat1LabelBN = firstNonEmpty(a.Stat1LabelBN, d.Stat1LabelBN)
	a.Stat2Value = firstNonEmpty(a.Stat2Value, d.Stat2Value)
	a.Stat2LabelEN = firstNonEmpty(a.Stat2LabelEN, d.Stat2LabelEN)
	a.Stat2LabelBN = firstNonEmpty(a.Stat2LabelBN, d.Stat2LabelBN)
	a.Stat3Value = firstNonEmpty(a.Stat3Value, d.Stat3Value)
	a.Stat3LabelEN = firstNonEmpty(a.Stat3LabelEN, d.Stat3LabelEN)
	a.Stat3LabelBN = firstNonEmpty(a.Stat3LabelBN, d.Stat3LabelBN)
	a.MissionEN = firstNonEmpty(a.MissionEN, d.MissionEN)
	a.MissionBN = firstNonEmpty(a.MissionBN, d.MissionBN)
	a.VisionEN = firstNonEmpty(a.VisionEN, d.VisionEN)
	a.VisionBN = firstNonEmpty(a.VisionBN, d.VisionBN)
	return a
}

// WithDefaults fills empty fields from the built-in settings.
func (s SiteSettings) WithDefaults() SiteSettings {
	d := defaults.Settings
	s.OrgNameEN = firstNonEmpty(s.OrgNameEN, d.OrgNameEN)
	s.OrgNameBN = firstNonEmpty(s.OrgNameBN, d.OrgNameBN)
	s.AddressEN = firstNonEmpty(s.AddressEN, d.AddressEN)
	s.AddressBN = firstNonEmpty(s.AddressBN, d.AddressBN)
	s.Phone = firstNonEmpty(s.Phone, d.Phone)
	s.Email = firstNonEmpty(s.Email, d.Email)
	s.Facebook = firstNonEmpty(s.Facebook, d.Facebook)
	s.HeroSubtitle = firstNonEmpty(s.HeroSubtitle, d.HeroSubtitle)
	return s
}

var contactInfoMessages = messages{
	"email":     "Please enter a valid email address.",
	"facebook":  "Please enter a valid Facebook URL.",
	"twitter":   "Please enter a valid Twitter URL.",
	"linkedin":  "Please enter a valid LinkedIn URL.",
	"instagram": "Please enter a valid Instagram URL.",
}

// NewContactInfo normalizes and validates a contact block. Social links
// without a scheme get https://.
func NewContactInfo(in ContactInfo) (ContactInfo, error) {
	in.AddressEN = strings.TrimSpace(in.AddressEN)
	in.AddressBN = strings.TrimSpace(in.AddressBN)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = strings.TrimSpace(in.Email)
	in.Facebook = NormalizeURL(in.Facebook)
	in.Twitter = NormalizeURL(in.Twitter)
	in.LinkedIn = NormalizeURL(in.LinkedIn)
	in.Instagram = NormalizeURL(in.Instagram)
	if errs := check(in, contactInfoMessages); len(errs) > 0 {
		return ContactInfo{}, errs
	}
	return in, nil
}

// NewAboutContent normalizes an About form. One description is required.
func NewAboutContent(in AboutContent) (AboutContent, error) {
	for _, p := range []*string{
		&in.DescriptionEN, &in.DescriptionBN,
		&in.Stat1Value, &in.Stat1LabelEN, &in.Stat1LabelBN,
		&in.Stat2Value, &in.Stat2LabelEN, &in.Stat2LabelBN,
		&in.Stat3Value, &in.Stat3LabelEN, &in.Stat3LabelBN,
		&in.MissionEN, &in.MissionBN, &in.VisionEN, &in.VisionBN,
	} {
		*p = strings.TrimSpace(*p)
	}
	if in.DescriptionEN == "" && in.DescriptionBN == "" {
		var errs ValidationErrors
		errs.Add("desc_en", "Please fill in the description.")
		return AboutContent{}, errs
	}
	return in, nil
}

var settingsMessages = messages{
	"email":    "Please enter a valid email address.",
	"facebook": "Please enter a valid Facebook URL.",
}

// NewSiteSettings normalizes and validates the settings form.
func NewSiteSettings(in SiteSettings) (SiteSettings, error) {
	in.OrgNameEN = strings.TrimSpace(in.OrgNameEN)
	in.OrgNameBN = strings.TrimSpace(in.OrgNameBN)
	in.AddressEN = strings.TrimSpace(in.AddressEN)
	in.AddressBN = strings.TrimSpace(in.AddressBN)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = strings.TrimSpace(in.Email)
	in.Facebook = NormalizeURL(in.Facebook)
	in.HeroSubtitle = strings.TrimSpace(in.HeroSubtitle)
	if errs := check(in, settingsMessages); len(errs) > 0 {
		return SiteSettings{}, errs
	}
	return in, nil
}
