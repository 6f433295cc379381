package cfgloader

import (
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rise-and-shine/mediasniff/logger"
)

func printConfig(path string, config any) {
	log := logger.Named("cfgloader").With("path", path)

	out, err := yaml.Marshal(maskStruct(config))
	if err != nil {
		log.Warnf("failed to marshal config: %v", err)
		return
	}
	log.Debugf("loaded config:\n%s", out)
}

func maskStruct(cfg any) any {
	val := reflect.ValueOf(cfg)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	return maskValue(val).Interface()
}

func maskValue(val reflect.Value) reflect.Value {
	if !val.IsValid() {
		return val
	}

	switch val.Kind() { //nolint:exhaustive // only handled kinds relevant to masking
	case reflect.Ptr:
		if val.IsNil() {
			return val
		}
		ptr := reflect.New(val.Elem().Type())
		ptr.Elem().Set(maskValue(val.Elem()))
		return ptr

	case reflect.Struct:
		masked := reflect.New(val.Type()).Elem()
		numFields := val.NumField()
		for i := range numFields {
			field := val.Type().Field(i)
			origVal := val.Field(i)

			if !masked.Field(i).CanSet() || !origVal.CanInterface() {
				continue
			}

			if field.Tag.Get("mask") == "true" {
				masked.Field(i).Set(maskSecret(origVal))
			} else {
				masked.Field(i).Set(maskValue(origVal))
			}
		}
		return masked

	case reflect.Interface:
		if val.IsNil() {
			return val
		}
		return maskValue(val.Elem())

	default:
		return val
	}
}

// maskSecret hides credentials: strings keep their length as stars, anything
// else is zeroed.
func maskSecret(val reflect.Value) reflect.Value {
	if val.Kind() == reflect.String {
		return reflect.ValueOf(strings.Repeat("*", val.Len())).Convert(val.Type())
	}
	return reflect.Zero(val.Type())
}
