package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"warehouse/internal/imei"
)

// FieldError is a single failed rule.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   any    `json:"value,omitempty"`
	Message string `json:"message"`
}

// Errors collects every failed rule of one Struct call.
type Errors struct {
	Fields []FieldError `json:"errors"`
}

func (e *Errors) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return ""
	}
	msgs := make([]string, len(e.Fields))
	for i, fe := range e.Fields {
		msgs[i] = fe.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Messages returns the per-field messages in order.
func (e *Errors) Messages() []string {
	if e == nil {
		return nil
	}
	out := make([]string, len(e.Fields))
	for i, fe := range e.Fields {
		out[i] = fe.Message
	}
	return out
}

var (
	engine *validator.Validate
	once   sync.Once
)

// Engine returns the shared validator with the warehouse rules registered.
func Engine() *validator.Validate {
	once.Do(func() {
		engine = newEngine()
	})
	return engine
}

func newEngine() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON names, which is what operators see in API errors too.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("imei", func(fl validator.FieldLevel) bool {
		return imei.Valid(fl.Field().String())
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// Struct validates s. It returns nil or an *Errors.
func Struct(s any) error {
	err := Engine().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &Errors{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Value:   fe.Value(),
			Message: message(fe),
		})
	}
	return out
}

// IMEI validates a single value with the same rule used for struct fields.
func IMEI(s string) error {
	if err := Engine().Var(s, "imei"); err != nil {
		return fmt.Errorf("invalid IMEI %q: check the 15 digits", s)
	}
	return nil
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "imei":
		return fmt.Sprintf("%s: invalid IMEI %q, check the 15 digits", fe.Field(), fe.Value())
	case "notblank", "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s needs at least %s item(s)", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag())
	}
}
