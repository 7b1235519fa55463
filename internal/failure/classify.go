package failure

import (
	"errors"

	"golang.org/x/text/message"

	"github.com/workflow-admin/workflow-admin/internal/apiclient"
)

// Category is the user-facing class of a failure.
type Category int

const (
	// CategoryUnknown is any error not covered by another category.
	CategoryUnknown Category = iota
	// CategoryAuthExpired requires logging out and returning to the login page.
	CategoryAuthExpired
	// CategoryForbidden leaves the session intact; the action stays retryable.
	CategoryForbidden
	// CategoryValidation means the request was never sent.
	CategoryValidation
	// CategoryNetwork means no response was received.
	CategoryNetwork
	// CategoryServerMessage carries a message of the API, shown verbatim.
	CategoryServerMessage
	// CategoryPartialSuccess means the first step of a two step mutation is kept.
	CategoryPartialSuccess
	// CategoryNotFound means the record is gone.
	CategoryNotFound
	// CategoryConflict covers busy records and failed confirmations.
	CategoryConflict
)

var categoryNames = map[Category]string{
	CategoryUnknown:        "unknown",
	CategoryAuthExpired:    "auth_expired",
	CategoryForbidden:      "forbidden",
	CategoryValidation:     "validation",
	CategoryNetwork:        "network",
	CategoryServerMessage:  "server_message",
	CategoryPartialSuccess: "partial_success",
	CategoryNotFound:       "not_found",
	CategoryConflict:       "conflict",
}

// String implements fmt.Stringer.
func (c Category) String() string {
	return categoryNames[c]
}

// Failure is a classified, localized error ready for rendering.
type Failure struct {
	Category Category
	Message  string
	// Fields maps form field names to messages for CategoryValidation.
	Fields map[string]string
	Err    error
}

// Teardown reports whether the session has to be ended.
func (f *Failure) Teardown() bool {
	return f != nil && f.Category == CategoryAuthExpired
}

// Classify maps err to its category and a message in the printer's language.
// A nil err yields nil.
func Classify(err error, p *message.Printer) *Failure {
	if err == nil {
		return nil
	}

	if p == nil {
		p = Printer("")
	}

	f := &Failure{Err: err}

	var (
		validation *ValidationError
		partial    *PartialSuccessError
	)

	switch {
	case errors.As(err, &validation):
		f.Category = CategoryValidation
		f.Message = p.Sprintf(MsgValidation)
		f.Fields = make(map[string]string, len(validation.Fields))

		for _, fe := range validation.Fields {
			if _, ok := f.Fields[fe.Field]; !ok {
				f.Fields[fe.Field] = p.Sprintf(fe.Key, fe.Args...)
			}
		}
	case errors.As(err, &partial):
		f.Category = CategoryPartialSuccess
		f.Message = p.Sprintf(MsgPartialSuccess, partial.Done, Classify(partial.Err, p).Message)
	case errors.Is(err, apiclient.ErrAuthExpired):
		f.Category = CategoryAuthExpired
		f.Message = p.Sprintf(MsgSessionExpired)
	case errors.Is(err, apiclient.ErrForbidden), errors.Is(err, ErrNotPermitted):
		f.Category = CategoryForbidden
		f.Message = p.Sprintf(MsgForbidden)
	case errors.Is(err, apiclient.ErrNetwork):
		f.Category = CategoryNetwork
		f.Message = p.Sprintf(MsgNetwork)
	case errors.Is(err, ErrBusy):
		f.Category = CategoryConflict
		f.Message = p.Sprintf(MsgBusy)
	case errors.Is(err, apiclient.ErrNotFound):
		f.Category = CategoryNotFound
		f.Message = serverMessageOr(err, p.Sprintf(MsgNotFound))
	default:
		if msg, ok := apiclient.ServerMessage(err); ok {
			f.Category = CategoryServerMessage
			f.Message = msg

			return f
		}

		f.Category = CategoryUnknown
		f.Message = p.Sprintf(MsgUnknown)
	}

	return f
}

func serverMessageOr(err error, fallback string) string {
	if msg, ok := apiclient.ServerMessage(err); ok {
		return msg
	}

	return fallback
}
