package v1

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/adanyl0v/go-todo-ai/internal/models"
)

var registerOnce sync.Once

// RegisterValidators installs the custom binding rules on gin's validator
// engine and makes error fields use their JSON names. It is safe to call
// more than once.
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}

		v.RegisterTagNameFunc(jsonFieldName)
		err = v.RegisterValidation("localdatetime", validateLocalDateTime)
	})
	return err
}

// validateLocalDateTime accepts models.LocalDateTimeLayout values.
func validateLocalDateTime(fl validator.FieldLevel) bool {
	_, err := time.Parse(models.LocalDateTimeLayout, fl.Field().String())
	return err == nil
}

func jsonFieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}
