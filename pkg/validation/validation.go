package validation

import (
	"errors"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

const passwordSpecials = "@$!%*?&"

var (
	once     sync.Once
	instance *validator.Validate
)

// Default returns the shared validator with the marketplace tags registered.
func Default() *validator.Validate {
	once.Do(func() {
		instance = New()
	})
	return instance
}

func New() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("senha", validatePassword)
	v.RegisterValidation("console", validateConsole)
	return v
}

// StrongPassword: at least 8 characters from [A-Za-z0-9@$!%*?&] with one upper,
// one lower, one digit and one special.
func StrongPassword(s string) bool {
	if len(s) < 8 {
		return false
	}
	var upper, lower, digit, special bool
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		default:
			return false
		}
	}
	return upper && lower && digit && special
}

func validatePassword(fl validator.FieldLevel) bool {
	return StrongPassword(fl.Field().String())
}

func validateConsole(fl validator.FieldLevel) bool {
	id := fl.Field().Int()
	return id >= 1 && id <= 8
}

// Struct validates s with the shared validator.
func Struct(s interface{}) error {
	return Default().Struct(s)
}

// Message turns the first validation failure into a sentence for the user.
func Message(err error) string {
	var validationErr validator.ValidationErrors
	if !errors.As(err, &validationErr) || len(validationErr) == 0 {
		return "Dados inválidos"
	}

	fe := validationErr[0]
	field := strings.ToLower(fe.Field())
	param := fe.Param()

	switch fe.Tag() {
	case "required":
		return "Preencha todos os campos: " + field + " é obrigatório"
	case "email":
		return field + " deve ser um email válido"
	case "senha":
		return "A senha deve conter pelo menos 8 caracteres, incluindo uma letra maiúscula, uma minúscula, um número e um caractere especial."
	case "eqfield":
		return "As senhas não coincidem"
	case "console":
		return "Console inválido"
	case "min", "gte":
		return field + " deve ser no mínimo " + param
	case "max", "lte":
		return field + " deve ser no máximo " + param
	case "gt":
		return field + " deve ser maior que " + param
	case "oneof":
		return field + " deve ser um de: " + param
	default:
		return field + " é inválido"
	}
}
