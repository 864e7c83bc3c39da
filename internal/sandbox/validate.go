package sandbox

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/five82/bookshelf/internal/books"
)

// RequiredFieldsMessage is returned when a field of the book body is missing.
const RequiredFieldsMessage = "Send all required fields: title, author, publishYear"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("year", validateYear)
	return v
}

func validateYear(fl validator.FieldLevel) bool {
	_, ok := books.Year(fl.Field().String()).Int()
	return ok
}

// bookInput is the body of create and update requests.
type bookInput struct {
	Title       string     `json:"title" validate:"required"`
	Author      string     `json:"author" validate:"required"`
	PublishYear books.Year `json:"publishYear" validate:"required,year"`
}

func (in bookInput) draft() books.Draft {
	return normalize(books.Draft{Title: in.Title, Author: in.Author, PublishYear: in.PublishYear})
}

// FieldError describes one rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// validateInput returns the top level message and per-field details, or
// ("", nil) when the input is acceptable. Blank text counts as missing.
func validateInput(in bookInput) (string, []FieldError) {
	in = bookInput(normalize(books.Draft(in)))
	err := validate.Struct(in)
	if err == nil {
		return "", nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error(), nil
	}

	missing := false
	details := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		name := jsonName(fe.Field())
		var msg string
		switch fe.Tag() {
		case "required":
			missing = true
			msg = fmt.Sprintf("%s is required", name)
		case "year":
			msg = fmt.Sprintf("%s must be a whole number", name)
		default:
			msg = fmt.Sprintf("%s is invalid", name)
		}
		details = append(details, FieldError{Field: name, Message: msg})
	}
	if missing {
		return RequiredFieldsMessage, details
	}
	return details[0].Message, details
}

func jsonName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}
