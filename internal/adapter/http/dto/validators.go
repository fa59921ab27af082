package dto

import (
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Bare CIDs and ipfs:// or ar:// style URIs.
var contentAddressRe = regexp.MustCompile(`^([a-z0-9]+://)?[A-Za-z0-9][A-Za-z0-9._/\-]{0,510}$`)

const maxAccountLen = 256

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("account", validateAccount)
		_ = v.RegisterValidation("content_address", validateContentAddress)
	}
}

// validateAccount rejects blank or oversized names and control characters.
// Surrounding whitespace is trimmed later by SanitizeStruct.
func validateAccount(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	if s == "" || len(s) > maxAccountLen {
		return false
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}

func validateContentAddress(fl validator.FieldLevel) bool {
	return contentAddressRe.MatchString(fl.Field().String())
}

// SanitizeStruct trims whitespace from every exported string field, *string
// field and []string element of a struct pointer. Nested structs are left
// untouched so metadata is committed exactly as submitted.
func SanitizeStruct(v interface{}) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return
	}
	sanitizeFields(rv.Elem())
}

func sanitizeFields(rv reflect.Value) {
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if !f.CanSet() {
			continue
		}
		switch f.Kind() {
		case reflect.String:
			f.SetString(strings.TrimSpace(f.String()))
		case reflect.Ptr:
			if f.IsNil() {
				continue
			}
			elem := f.Elem()
			if elem.Kind() == reflect.String {
				elem.SetString(strings.TrimSpace(elem.String()))
			}
		case reflect.Slice:
			if f.Type().Elem().Kind() != reflect.String {
				continue
			}
			for j := 0; j < f.Len(); j++ {
				e := f.Index(j)
				e.SetString(strings.TrimSpace(e.String()))
			}
		}
	}
}
