package utils

import (
	"errors"
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultPhoneRegion is used for numbers written without a country prefix.
const DefaultPhoneRegion = "VE"

var (
	ErrInvalidPhoneNumber = errors.New("invalid phone number")
	e164Pattern           = regexp.MustCompile(`^\+[1-9]\d{6,14}$`)
)

// FormatE164 parses a local or international number and renders it as E.164.
func FormatE164(input, region string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", ErrInvalidPhoneNumber
	}
	if region == "" {
		region = DefaultPhoneRegion
	}
	num, err := phonenumbers.Parse(input, region)
	if err != nil {
		return "", ErrInvalidPhoneNumber
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", ErrInvalidPhoneNumber
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

func IsE164Format(s string) bool {
	return e164Pattern.MatchString(s)
}
