package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"storefront/internal/models"
)

var (
	phonePattern   = regexp.MustCompile(`^\+?[1-9]\d{0,15}$`)
	pincodePattern = regexp.MustCompile(`^[1-9][0-9]{5}$`)
	registerOnce   sync.Once
)

// RegisterValidators agrega las reglas phone y pincode al validador de gin
// y hace que los errores usen los nombres JSON de los campos.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return phonePattern.MatchString(models.CleanPhone(fl.Field().String()))
		})
		_ = v.RegisterValidation("pincode", func(fl validator.FieldLevel) bool {
			return pincodePattern.MatchString(strings.TrimSpace(fl.Field().String()))
		})
	})
}

// readBody decodifica el cuerpo JSON, lo normaliza y lo valida.
// Devuelve false si ya respondió (JSON mal formado).
func readBody(c *gin.Context, dst any) ([]string, bool) {
	if c.Request.Body != nil {
		err := json.NewDecoder(c.Request.Body).Decode(dst)
		if err != nil && !errors.Is(err, io.EOF) {
			abort(c, http.StatusBadRequest, "Invalid JSON body")
			return nil, false
		}
	}
	if n, ok := dst.(models.Normalizer); ok {
		n.Normalize()
	}
	return validationMessages(binding.Validator.ValidateStruct(dst)), true
}

// bind es readBody para el caso común: responde 400 ante cualquier problema.
func bind(c *gin.Context, dst any) bool {
	problems, ok := readBody(c, dst)
	if !ok {
		return false
	}
	if len(problems) > 0 {
		validationFailed(c, problems)
		return false
	}
	return true
}

func validationMessages(err error) []string {
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(errs))
	for _, fe := range errs {
		out = append(out, fieldMessage(fe))
	}
	return out
}

// fieldPath quita el nombre del struct raíz y de los structs embebidos,
// p. ej. "Order.items[0].price" -> "items[0].price".
func fieldPath(fe validator.FieldError) string {
	parts := strings.Split(fe.Namespace(), ".")
	kept := parts[:0]
	for i, p := range parts {
		if i == 0 || p == "" || (p[0] >= 'A' && p[0] <= 'Z') {
			continue
		}
		kept = append(kept, p)
	}
	if len(kept) == 0 {
		return fe.Field()
	}
	return strings.Join(kept, ".")
}

func fieldMessage(fe validator.FieldError) string {
	field := fieldPath(fe)
	switch fe.Tag() {
	case "required", "required_without":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "phone":
		return "Invalid phone number format"
	case "pincode":
		return "Invalid pincode format"
	case "alphanum":
		return field + " must contain only letters and numbers"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min":
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		case reflect.Slice, reflect.Map, reflect.Array:
			return fmt.Sprintf("%s must contain at least %s item(s)", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	}
	return field + " is invalid"
}
