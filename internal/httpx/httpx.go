// backend/internal/httpx/httpx.go
package httpx

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"reflect"
	"regexp"

	"github.com/go-playground/validator/v10"

	"quiz-portal/internal/apperror"
)

var accountNamePattern = regexp.MustCompile(`^[A-Za-z0-9_.\-]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Account names end up in a cookie, so keep them to cookie-safe characters.
	_ = v.RegisterValidation("accountname", func(fl validator.FieldLevel) bool {
		return accountNamePattern.MatchString(fl.Field().String())
	})
	return v
}

// WriteJSON writes payload with the given status.
func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteMessage writes the {message, ...data} envelope.
func WriteMessage(w http.ResponseWriter, status int, message string, data map[string]interface{}) {
	body := map[string]interface{}{"message": message}
	for k, v := range data {
		body[k] = v
	}
	WriteJSON(w, status, body)
}

// WriteError turns err into a response. HTTP-shaped errors keep their status and
// message; anything else is logged and answered with a generic 500.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		WriteMessage(w, appErr.Status, appErr.Message, nil)
		return
	}
	log.Printf("Internal error on %s %s: %v", r.Method, r.URL.Path, err)
	WriteMessage(w, http.StatusInternalServerError, "Internal server error", nil)
}

// Decode reads a JSON body into dst and runs its validate tags.
func Decode(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return apperror.BadRequest("Request body is required")
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperror.BadRequest("Invalid request body")
	}
	return Validate(dst)
}

// Validate runs the validate tags on v and reports the first failing field.
func Validate(v interface{}) error {
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return apperror.BadRequest(fieldMessage(verrs[0]))
		}
		return apperror.BadRequest("Invalid request body")
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min":
		return fe.Field() + " must be at least " + fe.Param() + unit(fe)
	case "max":
		return fe.Field() + " must be at most " + fe.Param() + unit(fe)
	case "accountname":
		return fe.Field() + " may only contain letters, digits, '.', '_' and '-'"
	default:
		return fe.Field() + " is invalid"
	}
}

func unit(fe validator.FieldError) string {
	switch fe.Kind() {
	case reflect.String:
		return " characters"
	case reflect.Slice, reflect.Array, reflect.Map:
		return " items"
	default:
		return ""
	}
}
