package service

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"chirp/apperr"
	"chirp/models"
)

var (
	handlePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

	// validate applies the same email rule as request binding.
	validate = validator.New()
)

// ValidHandle reports whether s is a well-formed username.
func ValidHandle(s string) bool {
	n := utf8.RuneCountInString(s)
	return n >= models.MinUsernameLength && n <= models.MaxUsernameLength && handlePattern.MatchString(s)
}

type fieldErrors []apperr.FieldError

func (f *fieldErrors) add(field, format string, args ...any) {
	*f = append(*f, apperr.FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return apperr.Validation(f...)
}

func checkDisplayName(errs *fieldErrors, name string) {
	if n := utf8.RuneCountInString(name); n < 1 || n > models.MaxDisplayNameLength {
		errs.add("displayName", "must be between 1 and %d characters", models.MaxDisplayNameLength)
	}
}

func checkBio(errs *fieldErrors, bio string) {
	if utf8.RuneCountInString(bio) > models.MaxBioLength {
		errs.add("bio", "cannot exceed %d characters", models.MaxBioLength)
	}
}

func (r *Registration) normalize() error {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)
	r.DisplayName = strings.TrimSpace(r.DisplayName)

	var errs fieldErrors
	if !ValidHandle(r.Username) {
		errs.add("username", "must be %d to %d letters, numbers, or underscores",
			models.MinUsernameLength, models.MaxUsernameLength)
	}
	if validate.Var(r.Email, "email") != nil {
		errs.add("email", "must be a valid email")
	}
	if utf8.RuneCountInString(r.Password) < models.MinPasswordLength {
		errs.add("password", "must be at least %d characters", models.MinPasswordLength)
	}
	checkDisplayName(&errs, r.DisplayName)
	return errs.err()
}

// NormalizeProfileUpdate trims the provided text fields and checks their
// lengths.
func NormalizeProfileUpdate(upd *models.ProfileUpdate) error {
	var errs fieldErrors
	if upd.DisplayName != nil {
		name := strings.TrimSpace(*upd.DisplayName)
		upd.DisplayName = &name
		checkDisplayName(&errs, name)
	}
	if upd.Bio != nil {
		bio := strings.TrimSpace(*upd.Bio)
		upd.Bio = &bio
		checkBio(&errs, bio)
	}
	return errs.err()
}

// ValidateContent trims content and checks it fits a post.
func ValidateContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if err := models.CheckContent(content); err != nil {
		if content == "" {
			return "", apperr.Invalid("content", "Post content is required")
		}
		return "", apperr.Invalid("content", fmt.Sprintf("Post cannot exceed %d characters", models.MaxContentLength))
	}
	return content, nil
}
