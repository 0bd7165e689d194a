package main

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

var (
	bdPhoneIntl   = regexp.MustCompile(`^(\+?8801)[0-9]{9}$`)
	bdPhoneLocal  = regexp.MustCompile(`^01[0-9]{9}$`)
	bdPhoneBare   = regexp.MustCompile(`^[0-9]{8,15}$`)
	phoneStripper = regexp.MustCompile(`[^0-9+]`)
)

// normalizePhone drops everything except digits and plus signs before the
// format check, so punctuation like "(017) 1234.5678" does not fail a number
// that is otherwise fine.
func normalizePhone(phone string) string {
	return phoneStripper.ReplaceAllString(phone, "")
}

func init() {
	Validate = validator.New(validator.WithRequiredStructEnabled())

	// Register custom validation for Bangladeshi phone numbers.
	// Accepts +8801XXXXXXXXX / 8801XXXXXXXXX, the local 01XXXXXXXXX form,
	// or any 8-15 digit number for landlines.
	Validate.RegisterValidation("bdphone", func(fl validator.FieldLevel) bool {
		phone := normalizePhone(fl.Field().String())
		if phone == "" {
			return false
		}
		stripped := strings.TrimPrefix(phone, "+")
		return bdPhoneIntl.MatchString(phone) ||
			bdPhoneLocal.MatchString(phone) ||
			bdPhoneBare.MatchString(stripped)
	})

	// Slugs are lowercase alphanumerics and hyphens only.
	Validate.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		matched, _ := regexp.MatchString(`^[a-z0-9-]+$`, fl.Field().String())
		return matched
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// it parses body into Go struct.
func readJSON(w http.ResponseWriter, r *http.Request, data any) error {
	maxBytes := 1_048_578 //1mb
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(data)
}

func writeJSONError(w http.ResponseWriter, status int, message string) error {
	type envelope struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Status  int    `json:"status"`
	}

	return writeJSON(w, status, &envelope{
		Success: false,
		Message: message,
		Status:  status,
	})
}

func (app *application) jsonResponse(w http.ResponseWriter, status int, data any) error {
	type envelope struct {
		Data any `json:"data"`
	}
	return writeJSON(w, status, &envelope{Data: data})
}
