package config

import (
	"errors"
	"reflect"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/go-playground/validator/v10"
)

// ErrConfig marks setup failures. They abort the run before any fetch.
var ErrConfig = errors.New("config error")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("pubkey", func(fl validator.FieldLevel) bool {
		_, err := solana.PublicKeyFromBase58(fl.Field().String())
		return err == nil
	})
	return v
}
