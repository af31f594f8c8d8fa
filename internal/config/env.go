package config

import (
	"fmt"
	"reflect"

	"github.com/golobby/cast"
)

// lookupFunc matches os.LookupEnv.
type lookupFunc func(string) (string, bool)

// applyEnv walks fields tagged `env:"NAME"` (recursing into nested structs)
// and sets each from TASKBOARD_NAME when that variable is set and non-empty.
func applyEnv(cfg *Config, lookup lookupFunc) error {
	return applyEnvStruct(reflect.ValueOf(cfg).Elem(), lookup)
}

func applyEnvStruct(v reflect.Value, lookup lookupFunc) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := v.Field(i)
		sf := t.Field(i)

		if sf.Type.Kind() == reflect.Struct {
			if err := applyEnvStruct(field, lookup); err != nil {
				return err
			}
			continue
		}

		tag := sf.Tag.Get("env")
		if tag == "" {
			continue
		}
		name := EnvPrefix + "_" + tag
		raw, ok := lookup(name)
		if !ok || raw == "" {
			continue
		}

		converted, err := cast.FromType(raw, field.Type())
		if err != nil {
			return fmt.Errorf("%w: %s: cannot convert %q to %v: %v", ErrInvalidConfig, name, raw, field.Type(), err)
		}
		field.Set(reflect.ValueOf(converted))
	}
	return nil
}
