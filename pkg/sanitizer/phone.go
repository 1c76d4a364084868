package sanitizer

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

var fallbackRegions = []string{
	"PH",
	"US",
}

// NormalizePhone returns phone in E.164 form, or "" when no region yields a
// valid number. defaultRegion is tried first for numbers without a country
// code.
func NormalizePhone(phone, defaultRegion string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}

	regions := fallbackRegions
	if defaultRegion != "" {
		regions = append([]string{strings.ToUpper(defaultRegion)}, fallbackRegions...)
	}

	for _, region := range regions {
		parsed, err := phonenumbers.Parse(phone, region)
		if err != nil || !phonenumbers.IsValidNumber(parsed) {
			continue
		}
		return phonenumbers.Format(parsed, phonenumbers.E164)
	}
	return ""
}
