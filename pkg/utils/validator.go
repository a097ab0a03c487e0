package utils

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	LocationBody   = "body"
	LocationQuery  = "query"
	LocationParams = "params"
)

var validate = newValidator()

// FieldError is one entry of a batch validation failure.
type FieldError struct {
	Field    string `json:"field"`
	Message  string `json:"message"`
	Location string `json:"location"`
	Value    any    `json:"value,omitempty"`
}

// messages for the custom rules registered below
var ruleMessages = map[string]string{
	"username":  "Username can only contain letters, numbers, and underscores",
	"password":  "Password must contain at least one uppercase letter, one lowercase letter, and one number",
	"isbn":      "Please enter a valid ISBN",
	"notfuture": "Published year must be between 1000 and {year}",
}

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

	isbnPrefix     = regexp.MustCompile(`^ISBN(?:-1[03])?:? `)
	isbn10Plain    = regexp.MustCompile(`^[0-9X]{10}$`)
	isbn10Grouped  = regexp.MustCompile(`^(?:[0-9]+[- ]){3}`)
	isbn10Chars    = regexp.MustCompile(`^[- 0-9X]{13}$`)
	isbn13Plain    = regexp.MustCompile(`^97[89][0-9]{10}$`)
	isbn13Grouped  = regexp.MustCompile(`^(?:[0-9]+[- ]){4}`)
	isbn13Chars    = regexp.MustCompile(`^[- 0-9]{17}$`)
	isbnBodyFormat = regexp.MustCompile(`^(?:97[89][- ]?)?[0-9]{1,5}[- ]?[0-9]+[- ]?[0-9]+[- ]?[0-9X]$`)
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report json names instead of Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return IsStrongPassword(fl.Field().String())
	})
	v.RegisterValidation("isbn", func(fl validator.FieldLevel) bool {
		return IsValidISBN(fl.Field().String())
	})
	v.RegisterValidation("notfuture", func(fl validator.FieldLevel) bool {
		field := fl.Field()
		switch field.Kind() {
		case reflect.String:
			n, err := strconv.Atoi(field.String())
			return err == nil && n <= time.Now().Year()
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return field.Int() <= int64(time.Now().Year())
		}
		return false
	})
	// intrange=1-50 or intrange=1- checks a decimal string, used for query parameters and
	// tolerant numeric body fields
	v.RegisterValidation("intrange", func(fl validator.FieldLevel) bool {
		return inIntRange(fl.Field().String(), fl.Param())
	})

	return v
}

// ValidateStruct runs every rule on data and returns all failing fields.
func ValidateStruct(data any, location string) []FieldError {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "", Message: err.Error(), Location: location}}
	}

	structType := reflect.Indirect(reflect.ValueOf(data)).Type()

	fields := make([]FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		item := FieldError{
			Field:    fe.Field(),
			Message:  fieldMessage(structType, fe),
			Location: location,
		}
		if !strings.Contains(strings.ToLower(fe.Field()), "password") {
			item.Value = fe.Value()
		}
		fields = append(fields, item)
	}

	return fields
}

// ValidateID checks that a path parameter is a UUID.
func ValidateID(field, value string) *FieldError {
	if err := validate.Var(value, "required,uuid"); err != nil {
		return &FieldError{
			Field:    field,
			Message:  "Invalid ID format",
			Location: LocationParams,
			Value:    value,
		}
	}
	return nil
}

// IsStrongPassword requires at least one upper-case letter, one lower-case letter and one digit.
func IsStrongPassword(s string) bool {
	var upper, lower, digit bool
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		}
	}
	return upper && lower && digit
}

// IsValidISBN checks the ISBN-10/ISBN-13 grammar, with or without an "ISBN", "ISBN-10:" or
// "ISBN-13:" prefix and with hyphen or space separated groups.
func IsValidISBN(s string) bool {
	body := s
	if loc := isbnPrefix.FindStringIndex(body); loc != nil {
		body = body[loc[1]:]
	}

	shapeOK := isbn10Plain.MatchString(body) ||
		(isbn10Grouped.MatchString(body) && isbn10Chars.MatchString(body)) ||
		isbn13Plain.MatchString(body) ||
		(isbn13Grouped.MatchString(body) && isbn13Chars.MatchString(body))
	if !shapeOK {
		return false
	}

	return isbnBodyFormat.MatchString(body)
}

func inIntRange(value, param string) bool {
	n, err := strconv.Atoi(value)
	if err != nil {
		return false
	}

	lo, hi, _ := strings.Cut(param, "-")
	if lo != "" {
		if floor, err := strconv.Atoi(lo); err != nil || n < floor {
			return false
		}
	}
	if hi != "" {
		if ceil, err := strconv.Atoi(hi); err != nil || n > ceil {
			return false
		}
	}
	return true
}

func fieldMessage(structType reflect.Type, fe validator.FieldError) string {
	if msg, ok := ruleMessages[fe.Tag()]; ok {
		return withYear(msg)
	}

	if structType.Kind() == reflect.Struct {
		if sf, ok := structType.FieldByName(fe.StructField()); ok {
			if msg := sf.Tag.Get("message"); msg != "" {
				return withYear(msg)
			}
		}
	}

	return getErrorMessage(fe)
}

func withYear(msg string) string {
	return strings.ReplaceAll(msg, "{year}", strconv.Itoa(time.Now().Year()))
}

// converts validator errors to human-readable messages
func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		return fmt.Sprintf("Minimum length is %s", err.Param())
	case "max":
		return fmt.Sprintf("Maximum length is %s", err.Param())
	case "len":
		return fmt.Sprintf("Must be exactly %s characters", err.Param())
	case "oneof":
		options := strings.ReplaceAll(err.Param(), " ", ", ")
		return fmt.Sprintf("Must be one of: %s", options)
	case "uuid":
		return "Must be a valid UUID"
	default:
		return fmt.Sprintf("Invalid %s field", err.Field())
	}
}
