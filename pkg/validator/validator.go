package validator

import (
	"net/mail"
	"strings"
)

type ValidationErrors map[string]string

func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

func (v ValidationErrors) Add(field, message string) {
	v[field] = message
}

func ValidateRegister(email, name, gender, country, bio, password string, age int, interests []string, photoCount int) ValidationErrors {
	errs := make(ValidationErrors)

	if photoCount == 0 {
		errs.Add("photos", "Upload at least one photo")
	}

	email = strings.TrimSpace(email)
	if email == "" {
		errs.Add("email", "Email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs.Add("email", "Invalid email address")
	}

	if strings.TrimSpace(name) == "" {
		errs.Add("name", "Name is required")
	} else if len(name) > 100 {
		errs.Add("name", "Name is too long")
	}

	if age < 18 || age > 99 {
		errs.Add("age", "You must be 18-99 years old")
	}

	if strings.TrimSpace(gender) == "" {
		errs.Add("gender", "Gender is required")
	}
	if strings.TrimSpace(country) == "" {
		errs.Add("country", "Country is required")
	}
	if strings.TrimSpace(bio) == "" {
		errs.Add("bio", "Bio is required")
	}
	if len(interests) == 0 {
		errs.Add("interests", "Add at least one interest")
	}

	if len(password) < 6 {
		errs.Add("password", "Password must be at least 6 characters")
	}

	return errs
}

func ValidateLogin(email, password string) ValidationErrors {
	errs := make(ValidationErrors)

	email = strings.TrimSpace(email)
	if email == "" {
		errs.Add("email", "Email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs.Add("email", "Invalid email address")
	}

	if password == "" {
		errs.Add("password", "Password is required")
	}

	return errs
}
