package events

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"my-calendar/internal/utils"
)

const (
	msgInvalidDate   = "Invalid date input. Please follow the format: DD-MM-YYYY."
	msgInvalidTime   = "Invalid time input. Please follow the format: HH:MM or HH:MM:SS."
	msgInvalidInput  = "Invalid Input"
	msgInvalidFilter = "Invalid filter input, it may contain spaces or symbols. Please use comma separated field names with no spaces."
	msgInvalidOrder  = "Invalid order input. Please use comma separated field names, each prefixed with + or -."
)

// Input layouts accept one- or two-digit day, month, minute and second.
const (
	inputDateLayout        = "2-1-2006"
	inputTimeLayout        = "15:4"
	inputTimeSecondsLayout = "15:4:5"
)

// NormalizeDate parses DD-MM-YYYY and returns its canonical form.
func NormalizeDate(raw string) (string, error) {
	d, err := time.Parse(inputDateLayout, strings.TrimSpace(raw))
	if err != nil {
		return "", newValidationError(msgInvalidDate)
	}
	return d.Format(utils.DateLayout), nil
}

// NormalizeTime parses HH:MM:SS, falling back to HH:MM, and returns HH:MM.
func NormalizeTime(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	t, err := time.Parse(inputTimeSecondsLayout, raw)
	if err != nil {
		t, err = time.Parse(inputTimeLayout, raw)
		if err != nil {
			return "", newValidationError(msgInvalidTime)
		}
	}
	return t.Format(utils.TimeLayout), nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationMessage turns the first validator failure into a client message.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return msgInvalidInput
	}
	field := verrs[0].Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	return fmt.Sprintf("Missing required field: %s", field)
}
