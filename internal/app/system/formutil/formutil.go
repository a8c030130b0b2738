// Package formutil decodes and validates posted forms and carries the
// common fields a form page needs when it is re-rendered with an error.
//
// Example usage:
//
//	var in addMemberForm
//	if err := formutil.Decode(r, &in); err != nil {
//		errorsfeature.HTMXBadRequest(w, r, formutil.Message(err), "members.add")
//		return
//	}
package formutil

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/dalemusser/syncadmin/internal/app/system/auth"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/go-playground/form"
	"github.com/go-playground/validator/v10"
)

var (
	initOnce sync.Once
	decoder  *form.Decoder
	validate *validator.Validate
)

func setup() {
	initOnce.Do(func() {
		decoder = form.NewDecoder()
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// Decode parses r's form into dst (using `form` tags) and validates it
// (using `validate` tags).
func Decode(r *http.Request, dst any) error {
	setup()
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("parse form: %w", err)
	}
	if err := decoder.Decode(dst, r.Form); err != nil {
		return fmt.Errorf("decode form: %w", err)
	}
	return validate.Struct(dst)
}

// Message turns a Decode error into one readable sentence.
func Message(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "The form could not be read."
	}
	fe := verrs[0]
	field := strings.ReplaceAll(fe.Field(), "_", " ")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "oneof":
		return fmt.Sprintf("The %s must be one of: %s.", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gt", "min":
		return fmt.Sprintf("The %s value is out of range.", field)
	case "max":
		return fmt.Sprintf("The %s is too long.", field)
	}
	return fmt.Sprintf("The %s value is invalid.", field)
}

// Base contains common fields for form pages that can be embedded in form data structs.
type Base struct {
	Title       string
	IsLoggedIn  bool
	Role        string
	UserName    string
	BackURL     string
	CurrentPath string
	Error       string
}

// SetBase populates the common Base fields from the request context.
func SetBase(b *Base, r *http.Request, title, backDefault string) {
	b.Title = title
	if u, ok := auth.CurrentUser(r); ok {
		b.IsLoggedIn = true
		b.Role = u.Role
		b.UserName = u.Name
	}
	b.BackURL = httpnav.ResolveBackURL(r, backDefault)
	b.CurrentPath = httpnav.CurrentPath(r)
}

// SetError sets the error message shown above the form.
func (b *Base) SetError(msg string) {
	b.Error = msg
}
