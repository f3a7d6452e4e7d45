package handler

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"
)

var (
	slugPattern      = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	registerOnce     sync.Once
	errValidatorType = errors.New("binding validator is not go-playground/validator")
)

// RegisterValidators 向 gin 的校验引擎注册自定义规则，并使错误字段使用 JSON 名称。
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errValidatorType
			return
		}

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				return d.String()
			}
			return nil
		}, decimal.Decimal{})

		if err = v.RegisterValidation("slug", validateSlug); err != nil {
			return
		}
		if err = v.RegisterValidation("yearmonth", validateYearMonth); err != nil {
			return
		}
		err = v.RegisterValidation("decimal_nonneg", validateNonNegativeDecimal)
	})
	return err
}

func validateSlug(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || slugPattern.MatchString(value)
}

func validateYearMonth(fl validator.FieldLevel) bool {
	_, err := time.Parse(monthLayout, fl.Field().String())
	return err == nil
}

func validateNonNegativeDecimal(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return !d.IsNegative()
}

// fieldErrors flattens validator errors into a field → rule map.
func fieldErrors(err error) map[string]string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil
	}

	fields := make(map[string]string, len(validationErrs))
	for _, fieldErr := range validationErrs {
		fields[fieldErr.Field()] = fieldErr.Tag()
	}
	return fields
}

func parseDate(value string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, strings.TrimSpace(value), time.UTC)
}

func parseOptionalDate(value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	parsed, err := parseDate(value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func parseMonth(value string) (time.Time, error) {
	return time.ParseInLocation(monthLayout, strings.TrimSpace(value), time.UTC)
}
