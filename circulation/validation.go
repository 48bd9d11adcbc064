package circulation

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxTitleLength    = 255
	maxCategoryLength = 50
	maxGenreLength    = 50
	maxAuthorLength   = 255
	maxCountryLength  = 50
	maxUserNameLength = 255
)

// ValidateNewBook checks the field constraints of the add-book operation.
// The publication year must not lie in the future relative to now.
func ValidateNewBook(b NewBook, now time.Time) error {
	if err := validateText("title", b.Title, maxTitleLength); err != nil {
		return err
	}

	if err := validateText("category", b.Category, maxCategoryLength); err != nil {
		return err
	}

	if err := validateText("genre", b.Genre, maxGenreLength); err != nil {
		return err
	}

	if err := validateYear(b.YearPublished, now); err != nil {
		return err
	}

	if err := validateText("author_name", b.AuthorName, maxAuthorLength); err != nil {
		return err
	}

	return validateText("author_country", b.AuthorCountry, maxCountryLength)
}

// ValidateBookUpdate checks the field constraints of the update-book operation.
// A book keeps at least one copy through an update.
func ValidateBookUpdate(u BookUpdate, now time.Time) error {
	if err := validateText("title", u.Title, maxTitleLength); err != nil {
		return err
	}

	if err := validateText("category", u.Category, maxCategoryLength); err != nil {
		return err
	}

	if err := validateText("genre", u.Genre, maxGenreLength); err != nil {
		return err
	}

	if err := validateYear(u.YearPublished, now); err != nil {
		return err
	}

	if u.NumberOfCopies < 1 {
		return ValidationError{Field: "number_of_copies", Reason: "must be at least 1"}
	}

	return nil
}

// ValidateUserName checks the name of a user to register.
func ValidateUserName(name string) error {
	return validateText("name", name, maxUserNameLength)
}

func validateText(field, value string, maxLength int) error {
	if strings.TrimSpace(value) == "" {
		return ValidationError{Field: field, Reason: "must not be empty"}
	}

	// Postgres TEXT holds neither NUL nor invalid UTF-8.
	if !utf8.ValidString(value) || strings.ContainsRune(value, 0) {
		return ValidationError{Field: field, Reason: "contains invalid characters"}
	}

	if utf8.RuneCountInString(value) > maxLength {
		return ValidationError{Field: field, Reason: "is too long"}
	}

	return nil
}

func validateYear(year int, now time.Time) error {
	if year < 1 {
		return ValidationError{Field: "year_published", Reason: "must be a positive year"}
	}

	if year > now.Year() {
		return ValidationError{Field: "year_published", Reason: "must not be in the future"}
	}

	return nil
}
