package scrub

import (
	"regexp"

	"github.com/nyaruka/phonenumbers"
)

// Built-in detector names.
const (
	Credential = "credential"
	Email      = "email"
	URL        = "url"
	Twitter    = "twitter"
	Phone      = "phone"
	Name       = "name"
)

// Detector finds one kind of sensitive token.
type Detector struct {
	// Name identifies the detector, see Without.
	Name string

	// Pattern matches the sensitive token.
	Pattern *regexp.Regexp

	// Replacement is expanded like regexp.Regexp.ReplaceAllString.
	Replacement string

	// Accept, when set, vets each match; rejected matches are kept.
	Accept func(match string) bool
}

// Replace returns s with all matches of the detector replaced.
func (d Detector) Replace(s string) string {
	if d.Accept == nil {
		return d.Pattern.ReplaceAllString(s, d.Replacement)
	}
	return d.Pattern.ReplaceAllStringFunc(s, func(m string) string {
		if !d.Accept(m) {
			return m
		}
		return d.Pattern.ReplaceAllString(m, d.Replacement)
	})
}

// Marker returns the placeholder a detector kind is replaced with.
func Marker(kind string) string {
	return "{{" + kind + "}}"
}

var (
	credentialUserRe = regexp.MustCompile(`(?i)\b(username|user|login)(\s*[:=]\s*)[^\s&;,]+`)
	credentialPassRe = regexp.MustCompile(`(?i)\b(password|passwd|pwd|pw)(\s*[:=]\s*)[^\s&;,]+`)

	emailRe = regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9\-]+(?:\.[a-z0-9\-]+)*\.[a-z]{2,}\b`)

	urlRe = regexp.MustCompile(`(?i)\b(?:https?://|www\.)[^\s<>"']+`)

	twitterRe = regexp.MustCompile(`(^|[^\w@/{}])@[A-Za-z0-9_]{1,15}\b`)

	// Candidate digit groups, optionally with a country code and an area
	// code in brackets. Candidates are only replaced when validPhone
	// accepts them.
	phoneRe = regexp.MustCompile(`(?:\+\d{1,3}[\s.\-]?)?(?:\(\d{1,4}\)[\s.\-]?|\b)\d{2,4}(?:[\s.\-]?\d{2,4}){1,4}\b`)

	nameRe = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)+\b`)
)

// Builtin returns a fresh copy of the built-in detectors in the order they
// run. Credentials and emails run before urls so that `user:pw@host` style
// tokens are labelled precisely.
func Builtin() []Detector {
	return []Detector{
		{Name: Credential, Pattern: credentialUserRe, Replacement: "${1}${2}" + Marker("USERNAME")},
		{Name: Credential, Pattern: credentialPassRe, Replacement: "${1}${2}" + Marker("PASSWORD")},
		{Name: Email, Pattern: emailRe, Replacement: Marker("EMAIL")},
		{Name: URL, Pattern: urlRe, Replacement: Marker("URL")},
		{Name: Twitter, Pattern: twitterRe, Replacement: "${1}" + Marker("TWITTER")},
		{Name: Phone, Pattern: phoneRe, Replacement: Marker("PHONE"), Accept: validPhone},
		{Name: Name, Pattern: nameRe, Replacement: Marker("NAME")},
	}
}

// PhoneRegion is the region numbers without a country code are parsed in.
var PhoneRegion = "US"

// validPhone accepts candidates that libphonenumber considers a valid
// number, so ids, timestamps and addresses made of digits are kept.
func validPhone(m string) bool {
	num, err := phonenumbers.Parse(m, PhoneRegion)
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(num)
}
