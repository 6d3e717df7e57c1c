package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// websiteRe is a permissive host-plus-optional-path pattern. The scheme is
// optional so bare hosts like "acme.com" are accepted.
var websiteRe = regexp.MustCompile(`^(https?://)?([a-zA-Z0-9-]+\.)+[a-zA-Z]{2,}(:\d{1,5})?(/\S*)?$`)

// ValidateHandle returns an error if the given user handle is invalid.
func ValidateHandle(handle string) error {
	if handle == "" {
		return fmt.Errorf("handle cannot be empty")
	}

	if !unicode.IsLetter(rune(handle[0])) {
		return fmt.Errorf("handle must start with a letter")
	}

	for _, r := range handle {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' {
			return fmt.Errorf("handle can only contain letters, numbers, and hyphens")
		}
	}

	return nil
}

// ValidateCompanyName returns an error if the given company name is invalid.
// A company name must be non-empty after trimming and at least 2 characters.
func ValidateCompanyName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("company name is required")
	}

	if utf8.RuneCountInString(name) < 2 {
		return fmt.Errorf("company name must be at least 2 characters")
	}

	return nil
}

// ValidateTitle returns an error if the given role title is invalid. A title
// must be non-empty after trimming and at least 2 characters.
func ValidateTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("title is required")
	}

	if utf8.RuneCountInString(title) < 2 {
		return fmt.Errorf("title must be at least 2 characters")
	}

	return nil
}

// ValidateWebsiteURL returns an error if the given website is invalid. The
// website is optional, an empty value is always valid.
func ValidateWebsiteURL(website string) error {
	website = strings.TrimSpace(website)
	if website == "" {
		return nil
	}

	if !websiteRe.MatchString(website) {
		return fmt.Errorf("website must be a valid URL")
	}

	return nil
}

// currentKeywords marks role titles treated as active. There is no stored
// flag; an affiliation is "current" when its title contains one of these.
var currentKeywords = []string{"ceo", "founder", "managing", "partner"}

// IsCurrentTitle reports whether the given role title reads as an active
// role. Matching is case-insensitive.
func IsCurrentTitle(title string) bool {
	title = strings.ToLower(title)
	for _, kw := range currentKeywords {
		if strings.Contains(title, kw) {
			return true
		}
	}

	return false
}
