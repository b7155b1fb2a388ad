// Package i18n holds the user-facing strings of the storefront.
//
// Spanish is the source locale; English is provided for API clients that ask
// for it. Keys are stable identifiers, never shown to users.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Key identifies a message in the catalog.
type Key = string

const (
	NameRequired            Key = "name.required"
	EmailRequired           Key = "email.required"
	EmailInvalid            Key = "email.invalid"
	PasswordRequired        Key = "password.required"
	PasswordTooShort        Key = "password.too_short"
	ConfirmPasswordRequired Key = "confirm_password.required"
	PasswordsMismatch       Key = "confirm_password.mismatch"
	PhoneRequired           Key = "phone.required"
	PhoneDigits             Key = "phone.digits"
	PhoneFormat             Key = "phone.format"
	AddressRequired         Key = "address.required"
	BirthdayRequired        Key = "birthday.required"
	BirthdayInvalid         Key = "birthday.invalid"
	Underage                Key = "birthday.underage"
	CodeRequired            Key = "code.required"
	CodeLength              Key = "code.length"

	RegisterFallback Key = "register.fallback"
	VerifyFallback   Key = "verify.fallback"
	VerifySuccess    Key = "verify.success"

	EmailTaken         Key = "user.email_taken"
	AccountNotVerified Key = "user.not_verified"
	CodeMismatch       Key = "code.mismatch"
	CodeExpired        Key = "code.expired"
	TooManyAttempts    Key = "code.too_many_attempts"
	InvalidCredentials Key = "user.invalid_credentials"
	InvalidInput       Key = "input.invalid"

	CatalogFallback Key = "catalog.fallback"
)

// Spanish is the default locale.
var Spanish = language.Spanish

var supported = []language.Tag{language.Spanish, language.English}

var entries = map[Key][2]string{
	NameRequired:            {"El nombre es obligatorio", "Name is required"},
	EmailRequired:           {"El email es obligatorio", "Email is required"},
	EmailInvalid:            {"Email inválido", "Invalid email"},
	PasswordRequired:        {"La contraseña es obligatoria", "Password is required"},
	PasswordTooShort:        {"La contraseña debe tener al menos 8 caracteres", "Password must be at least 8 characters"},
	ConfirmPasswordRequired: {"Confirma tu contraseña", "Confirm your password"},
	PasswordsMismatch:       {"Las contraseñas no coinciden", "Passwords do not match"},
	PhoneRequired:           {"El número de teléfono es obligatorio", "Phone number is required"},
	PhoneDigits:             {"El número debe tener 8 dígitos", "The number must have 8 digits"},
	PhoneFormat:             {"Formato inválido. Debe ser XXXX-XXXX", "Invalid format. Must be XXXX-XXXX"},
	AddressRequired:         {"La dirección es obligatoria", "Address is required"},
	BirthdayRequired:        {"La fecha de nacimiento es obligatoria", "Birthday is required"},
	BirthdayInvalid:         {"Fecha de nacimiento inválida", "Invalid birthday"},
	Underage:                {"Debes ser mayor de edad", "You must be of legal age"},
	CodeRequired:            {"El código de verificación es obligatorio", "Verification code is required"},
	CodeLength:              {"El código debe tener 6 caracteres", "The code must have 6 characters"},

	RegisterFallback: {
		"Hubo un problema al crear tu cuenta. Por favor, inténtalo de nuevo.",
		"There was a problem creating your account. Please try again.",
	},
	VerifyFallback: {
		"El código de verificación es inválido. Por favor, revisa tu correo e intenta nuevamente.",
		"The verification code is invalid. Please check your email and try again.",
	},
	VerifySuccess: {
		"¡Tu cuenta ha sido verificada con éxito! Ahora puedes acceder a todos los servicios.",
		"Your account has been verified! You can now access every service.",
	},

	EmailTaken:         {"Email ya registrado", "Email already registered"},
	AccountNotVerified: {"La cuenta no ha sido verificada", "The account has not been verified"},
	CodeMismatch:       {"El código de verificación no coincide", "The verification code does not match"},
	CodeExpired:        {"El código de verificación ha expirado", "The verification code has expired"},
	TooManyAttempts:    {"Demasiados intentos. Solicita un nuevo código", "Too many attempts. Request a new code"},
	InvalidCredentials: {"Email o contraseña incorrectos", "Wrong email or password"},
	InvalidInput:       {"Datos inválidos", "Invalid data"},

	CatalogFallback: {
		"Error al conectar con la API. Mostrando datos de ejemplo.",
		"Could not reach the API. Showing sample data.",
	},
}

var (
	builder = catalog.NewBuilder(catalog.Fallback(language.Spanish))
	matcher = language.NewMatcher(supported)
)

func init() {
	for key, texts := range entries {
		_ = builder.SetString(language.Spanish, key, texts[0])
		_ = builder.SetString(language.English, key, texts[1])
	}
}

// Printer renders catalog messages for one locale.
type Printer struct {
	tag language.Tag
	p   *message.Printer
}

// NewPrinter returns a printer for the best supported match of locale.
// Unknown or empty locales resolve to Spanish.
func NewPrinter(locale string) *Printer {
	tag := Spanish
	if locale != "" {
		if requested, err := language.Parse(locale); err == nil {
			_, idx, conf := matcher.Match(requested)
			if conf != language.No {
				tag = supported[idx]
			}
		}
	}
	return &Printer{tag: tag, p: message.NewPrinter(tag, message.Catalog(builder))}
}

// Locale reports the resolved locale.
func (p *Printer) Locale() string {
	return p.tag.String()
}

// T returns the message for key, or key itself when it is not registered.
func (p *Printer) T(key Key) string {
	if _, ok := entries[key]; !ok {
		return key
	}
	return p.p.Sprintf(key)
}

// Default is the Spanish printer.
var Default = NewPrinter("es")
