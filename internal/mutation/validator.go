package mutation

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/workflow-admin/workflow-admin/internal/failure"
)

// mailPattern is the address check of the create-user form.
var mailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var fieldLabels = map[string]string{
	"name":           "Name",
	"email":          "Email",
	"password":       "Password",
	"role":           "Role",
	"title":          "Title",
	"description":    "Description",
	"assignedTo":     "Assignee",
	"assignedToRole": "Assignee role",
	"dueDate":        "Due date",
	"status":         "Status",
	"confirmation":   "Confirmation",
}

func label(field string) string {
	if l, ok := fieldLabels[field]; ok {
		return l
	}

	return field
}

// XValidator validates form input and reports field errors keyed by form field name.
type XValidator struct {
	validate *validator.Validate
}

// NewValidator creates a validator with the console's custom tags.
func NewValidator() XValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	_ = v.RegisterValidation("mailaddr", func(fl validator.FieldLevel) bool {
		return mailPattern.MatchString(fl.Field().String())
	})

	return XValidator{validate: v}
}

// Validate checks data and appends field errors to verr.
func (x XValidator) Validate(data any, verr *failure.ValidationError) {
	err := x.validate.Struct(data)
	if err == nil {
		return
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		verr.Add("", failure.MsgUnknown)
		return
	}

	for _, fe := range errs {
		field := fe.Field()

		switch fe.Tag() {
		case "required":
			verr.Add(field, failure.MsgFieldRequired, label(field))
		case "min":
			n, _ := strconv.Atoi(fe.Param())
			verr.Add(field, failure.MsgFieldMinLength, label(field), n)
		case "mailaddr", "email":
			verr.Add(field, failure.MsgFieldEmail)
		case "datetime":
			verr.Add(field, failure.MsgFieldDate, label(field))
		default:
			verr.Add(field, failure.MsgFieldRequired, label(field))
		}
	}
}
