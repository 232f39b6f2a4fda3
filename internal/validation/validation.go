package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/devconnector/backend/internal/models"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON name so error params match the wire format.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Check runs the declared rules on a request struct and returns one
// FieldError per violation, or nil if the request is valid.
func Check(req interface{}) []models.FieldError {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []models.FieldError{{Msg: "Invalid request body", Location: "body"}}
	}

	out := make([]models.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, models.FieldError{
			Msg:      messageFor(fe),
			Param:    fe.Field(),
			Location: "body",
		})
	}
	return out
}

// labels maps wire field names to the human labels used in error messages.
var labels = map[string]string{
	"status":       "Status",
	"skills":       "Skills",
	"title":        "Title",
	"company":      "Company",
	"from":         "From date",
	"school":       "School",
	"degree":       "Degree",
	"fieldofstudy": "Field of study",
	"name":         "Name",
	"email":        "Email",
	"password":     "Password",
}

func messageFor(fe validator.FieldError) string {
	label, ok := labels[fe.Field()]
	if !ok {
		label = strings.ToUpper(fe.Field()[:1]) + fe.Field()[1:]
	}

	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "email":
		return label + " must be a valid email"
	case "min":
		return label + " must be at least " + fe.Param() + " characters"
	default:
		return label + " is invalid"
	}
}
