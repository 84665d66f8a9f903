package validator

import (
	"regexp"
	"sort"
	"strings"
)

type ValidationErrors map[string]string

func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

func (v ValidationErrors) Add(field, message string) {
	v[field] = message
}

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for field, msg := range v {
		parts = append(parts, field+": "+msg)
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}

const (
	maxPasswordLen = 128
	maxNameLen     = 200
	maxCityLen     = 100
	maxAge         = 150
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

func ValidateRegister(username, password string) ValidationErrors {
	errs := make(ValidationErrors)

	username = strings.TrimSpace(username)
	if username == "" {
		errs.Add("username", "Username is required")
	} else if len(username) < 3 {
		errs.Add("username", "Username must be at least 3 characters")
	} else if len(username) > 50 {
		errs.Add("username", "Username is too long")
	} else if !usernameRegex.MatchString(username) {
		errs.Add("username", "Username can only contain letters, numbers, _, . and -")
	}

	validatePassword(password, errs)

	return errs
}

func ValidateLogin(username, password string) ValidationErrors {
	errs := make(ValidationErrors)

	if strings.TrimSpace(username) == "" {
		errs.Add("username", "Username is required")
	}

	if password == "" {
		errs.Add("password", "Password is required")
	}

	return errs
}

// ValidateItem checks the fields of a new item.
func ValidateItem(name string, age *int, city string) ValidationErrors {
	errs := make(ValidationErrors)

	name = strings.TrimSpace(name)
	if name == "" {
		errs.Add("name", "Name is required")
	} else if len(name) > maxNameLen {
		errs.Add("name", "Name is too long")
	}

	if age == nil {
		errs.Add("age", "Age is required")
	} else {
		validateAge(*age, errs)
	}

	if len(strings.TrimSpace(city)) > maxCityLen {
		errs.Add("city", "City is too long")
	}

	return errs
}

// ValidateItemUpdate checks only the fields that were supplied. Blank
// strings are allowed here; they mean "leave unchanged".
func ValidateItemUpdate(name *string, age *int, city *string) ValidationErrors {
	errs := make(ValidationErrors)

	if name != nil && len(strings.TrimSpace(*name)) > maxNameLen {
		errs.Add("name", "Name is too long")
	}
	if age != nil {
		validateAge(*age, errs)
	}
	if city != nil && len(strings.TrimSpace(*city)) > maxCityLen {
		errs.Add("city", "City is too long")
	}

	return errs
}

func validateAge(age int, errs ValidationErrors) {
	if age < 0 || age > maxAge {
		errs.Add("age", "Age must be between 0 and 150")
	}
}

func validatePassword(password string, errs ValidationErrors) {
	if password == "" {
		errs.Add("password", "Password is required")
		return
	}
	if len(password) > maxPasswordLen {
		errs.Add("password", "Password is too long")
	}
}
