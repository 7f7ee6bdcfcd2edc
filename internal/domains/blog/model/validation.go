package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Storage-backed limits
const (
	MaxEmailLength   = 180
	MaxNameLength    = 255
	MaxPhoneLength   = 10
	MaxAddressLength = 255
	MaxLicenseLength = 35
)

const MsgEmailTaken = "There is already an account with this email."

// ValidateUser runs every rule on u and on each article of its collection.
// Returns *ValidationError listing all violations, or nil.
func ValidateUser(u *User) error {
	return toValidationError(newValidator().user(u))
}

// ValidateArticle runs every rule on a and on its author.
func ValidateArticle(a *Article) error {
	return toValidationError(newValidator().article(a))
}

// validator nhớ các object đã validate để cắt vòng user -> article -> author
type validator struct {
	users    map[*User]bool
	articles map[*Article]bool
}

func newValidator() *validator {
	return &validator{
		users:    make(map[*User]bool),
		articles: make(map[*Article]bool),
	}
}

func (v *validator) user(u *User) error {
	if u == nil || v.users[u] {
		return nil
	}
	v.users[u] = true

	errs := validation.Errors{
		"email": validation.Validate(u.Email,
			validation.Required.Error("An email is required."),
			is.EmailFormat.Error("This value is not a valid email address."),
			validation.RuneLength(0, MaxEmailLength).Error(maxMessage("email", MaxEmailLength)),
		),
		"password": validation.Validate(u.Password,
			validation.Required.Error("A password is required."),
		),
		"username": validation.Validate(u.Username,
			validation.Required.Error("A first name is required."),
			validation.RuneLength(0, MaxNameLength).Error(maxMessage("first name", MaxNameLength)),
		),
		"lastname": validation.Validate(u.Lastname,
			validation.Required.Error("A last name is required."),
			validation.RuneLength(0, MaxNameLength).Error(maxMessage("last name", MaxNameLength)),
		),
		"birthday": validation.Validate(u.Birthday,
			validation.Required.Error("A date of birth is required."),
		),
		"phone": validation.Validate(u.Phone,
			validation.RuneLength(0, MaxPhoneLength).Error(maxMessage("phone number", MaxPhoneLength)),
		),
		"address": validation.Validate(u.Address,
			validation.RuneLength(0, MaxAddressLength).Error(maxMessage("address", MaxAddressLength)),
		),
		"license": validation.Validate(u.License,
			validation.RuneLength(0, MaxLicenseLength).Error(maxMessage("license", MaxLicenseLength)),
		),
	}

	nested := validation.Errors{}
	for i, a := range u.Articles {
		nested[strconv.Itoa(i)] = v.article(a)
	}
	errs["article"] = nested.Filter()

	return errs.Filter()
}

func (v *validator) article(a *Article) error {
	if a == nil || v.articles[a] {
		return nil
	}
	v.articles[a] = true

	errs := validation.Errors{
		"title": validation.Validate(a.Title,
			validation.Required.Error("The title is required."),
			validation.RuneLength(MinTitleLength, 0).Error(minMessage("title", MinTitleLength)),
			validation.RuneLength(0, MaxTitleLength).Error(maxMessage("title", MaxTitleLength)),
		),
		"content": validation.Validate(a.Content,
			validation.Required.Error("The content is required."),
			validation.RuneLength(MinContentLength, 0).Error(minMessage("content", MinContentLength)),
		),
		"author": validation.Validate(a.Author,
			validation.NotNil.Error("The author is required."),
		),
	}
	if a.Author != nil {
		errs["author"] = v.user(a.Author)
	}

	return errs.Filter()
}

func minMessage(field string, n int) string {
	return fmt.Sprintf("The %s must be at least %d characters long.", field, n)
}

func maxMessage(field string, n int) string {
	return fmt.Sprintf("The %s cannot be longer than %d characters.", field, n)
}

// toValidationError flattens ozzo's nested Errors into field paths like "article[0].title".
func toValidationError(err error) error {
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return err
	}
	ve := &ValidationError{}
	flatten(ve, "", errs)
	return ve.OrNil()
}

func flatten(ve *ValidationError, prefix string, errs validation.Errors) {
	for key, err := range errs {
		if err == nil {
			continue
		}
		path := joinPath(prefix, key)

		var nested validation.Errors
		if errors.As(err, &nested) {
			flatten(ve, path, nested)
			continue
		}

		code := CodeFormat
		var verr validation.Error
		if errors.As(err, &verr) {
			code = violationCode(verr.Code())
		}
		ve.Add(path, code, err.Error())
	}
}

func joinPath(prefix, key string) string {
	if _, err := strconv.Atoi(key); err == nil {
		return fmt.Sprintf("%s[%s]", prefix, key)
	}
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func violationCode(ozzoCode string) string {
	switch {
	case strings.Contains(ozzoCode, "required"):
		return CodeRequired
	case strings.Contains(ozzoCode, "length"):
		return CodeLength
	default:
		return CodeFormat
	}
}
