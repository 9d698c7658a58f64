package envstruct

import (
	"log/slog"
	"reflect"
	"strconv"
	"time"

	"github.com/myrjola/learnpref/internal/errors"
)

var (
	ErrEnvNotSet    = errors.NewSentinel("environment variable not set")
	ErrInvalidValue = errors.NewSentinel("invalid value")
)

var durationType = reflect.TypeOf(time.Duration(0))

// Populate fills the fields of the struct pointed to by v from the environment.
//
// lookupEnv has the same signature as [os.LookupEnv]. Fields tagged `env:"NAME"` are read from NAME, falling back
// to the `envDefault:"value"` tag. A field with neither a value nor a default yields ErrEnvNotSet.
// Supported field types are string, bool and [time.Duration].
func Populate(v any, lookupEnv func(string) (string, bool)) error {
	ptrRef := reflect.ValueOf(v)
	if ptrRef.Kind() != reflect.Ptr || ptrRef.IsNil() {
		return errors.Wrap(ErrInvalidValue, "v must be a non-nil pointer to a struct")
	}
	ref := ptrRef.Elem()
	if ref.Kind() != reflect.Struct {
		return errors.Wrap(ErrInvalidValue, "v must point to a struct", slog.String("kind", ref.Kind().String()))
	}

	var errorList []error
	refType := ref.Type()
	for i := range refType.NumField() {
		field := refType.Field(i)
		envVarName, ok := field.Tag.Lookup("env")
		if !ok {
			continue
		}
		raw, err := lookup(envVarName, field.Tag, lookupEnv)
		if err != nil {
			errorList = append(errorList, err)
			continue
		}
		if err = set(ref.Field(i), raw); err != nil {
			errorList = append(errorList, errors.Wrap(err, "set field",
				slog.String("envVarName", envVarName), slog.String("fieldName", field.Name)))
		}
	}

	return errors.Join(errorList...)
}

func lookup(envVarName string, tag reflect.StructTag, lookupEnv func(string) (string, bool)) (string, error) {
	if val, ok := lookupEnv(envVarName); ok {
		return val, nil
	}
	if val, ok := tag.Lookup("envDefault"); ok {
		return val, nil
	}
	return "", errors.Wrap(ErrEnvNotSet, "lookup", slog.String("envVarName", envVarName))
}

func set(field reflect.Value, raw string) error {
	if !field.CanSet() {
		return errors.Wrap(ErrInvalidValue, "cannot set unexported field")
	}
	switch {
	case field.Type() == durationType:
		d, err := time.ParseDuration(raw)
		if err != nil {
			return errors.Wrap(ErrInvalidValue, "parse duration", slog.String("value", raw))
		}
		field.SetInt(int64(d))
	case field.Kind() == reflect.String:
		field.SetString(raw)
	case field.Kind() == reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return errors.Wrap(ErrInvalidValue, "parse bool", slog.String("value", raw))
		}
		field.SetBool(b)
	default:
		return errors.Wrap(ErrInvalidValue, "unsupported field type", slog.String("fieldType", field.Type().String()))
	}
	return nil
}
