package validator

import (
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/mattn/go-runewidth"
)

var validate *validator.Validate

func init() {
	// Initialize validation
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report yaml/json names instead of Go field names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"yaml", "json"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})

	// narrow: every rune takes exactly one terminal cell.
	_ = validate.RegisterValidation("narrow", func(fl validator.FieldLevel) bool {
		return isNarrow(fl.Field().String())
	})

	// symbol: exactly one visible single-cell character, so it can't be
	// confused with an empty cell or push the grid out of line.
	_ = validate.RegisterValidation("symbol", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if utf8.RuneCountInString(s) != 1 || !isNarrow(s) {
			return false
		}
		r, _ := utf8.DecodeRuneInString(s)
		return unicode.IsPrint(r) && !unicode.IsSpace(r)
	})
}

func isNarrow(s string) bool {
	for _, r := range s {
		if runewidth.RuneWidth(r) != 1 {
			return false
		}
	}
	return true
}

func GetValidator() *validator.Validate {
	return validate
}
