package registration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var today = time.Date(2026, time.October, 19, 15, 30, 0, 0, time.UTC)

func validDraft() Draft {
	return Draft{
		Name:             "Ana López",
		Email:            "ana@example.com",
		Password:         "12345678",
		ConfirmPassword:  "12345678",
		PhoneNumber:      "7123-4567",
		Address:          "Calle Arce 123, San Salvador",
		Birthday:         "1990-05-04",
		VerificationCode: "AB12C3",
	}
}

func TestValidateStep1(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.Empty(t, ValidateStep1(validDraft()))
	})

	t.Run("only name missing", func(t *testing.T) {
		errs := ValidateStep1(Draft{Name: "", Email: "a@b.com", Password: "12345678", ConfirmPassword: "12345678"})
		assert.Equal(t, FieldErrors{FieldName: "El nombre es obligatorio"}, errs)
	})

	t.Run("blank name", func(t *testing.T) {
		d := validDraft()
		d.Name = "   "
		assert.Contains(t, ValidateStep1(d), FieldName)
	})

	t.Run("short and mismatched password", func(t *testing.T) {
		d := validDraft()
		d.Password = "short"
		d.ConfirmPassword = "different"
		errs := ValidateStep1(d)
		assert.Len(t, errs, 2)
		assert.Equal(t, "La contraseña debe tener al menos 8 caracteres", errs[FieldPassword])
		assert.Equal(t, "Las contraseñas no coinciden", errs[FieldConfirmPassword])
	})

	t.Run("empty fields", func(t *testing.T) {
		errs := ValidateStep1(Draft{})
		assert.Equal(t, FieldErrors{
			FieldName:            "El nombre es obligatorio",
			FieldEmail:           "El email es obligatorio",
			FieldPassword:        "La contraseña es obligatoria",
			FieldConfirmPassword: "Confirma tu contraseña",
		}, errs)
	})

	t.Run("email shape", func(t *testing.T) {
		for email, ok := range map[string]bool{
			"a@b.com":         true,
			"x y@mail.co":     true,
			"ana@example":     false,
			"ana.example.com": false,
			"@b.c":            false,
		} {
			d := validDraft()
			d.Email = email
			_, failed := ValidateStep1(d)[FieldEmail]
			assert.Equal(t, !ok, failed, email)
		}
	})

	t.Run("password counts characters not bytes", func(t *testing.T) {
		d := validDraft()
		d.Password = "ñññññññ"
		d.ConfirmPassword = d.Password
		assert.Contains(t, ValidateStep1(d), FieldPassword)
	})
}

func TestValidateStep2(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.Empty(t, ValidateStep2(validDraft(), today))
	})

	t.Run("empty", func(t *testing.T) {
		errs := ValidateStep2(Draft{}, today)
		assert.Equal(t, FieldErrors{
			FieldPhoneNumber: "El número de teléfono es obligatorio",
			FieldAddress:     "La dirección es obligatoria",
			FieldBirthday:    "La fecha de nacimiento es obligatoria",
		}, errs)
	})

	t.Run("phone digits", func(t *testing.T) {
		d := validDraft()
		d.PhoneNumber = "7123-45"
		assert.Equal(t, "El número debe tener 8 dígitos", ValidateStep2(d, today)[FieldPhoneNumber])
	})

	t.Run("phone format", func(t *testing.T) {
		d := validDraft()
		d.PhoneNumber = "71234567"
		assert.Equal(t, "Formato inválido. Debe ser XXXX-XXXX", ValidateStep2(d, today)[FieldPhoneNumber])
	})

	t.Run("unparseable birthday", func(t *testing.T) {
		d := validDraft()
		d.Birthday = "04/05/1990"
		assert.Equal(t, "Fecha de nacimiento inválida", ValidateStep2(d, today)[FieldBirthday])
	})

	t.Run("exactly eighteen", func(t *testing.T) {
		d := validDraft()
		d.Birthday = "2008-10-19"
		assert.Empty(t, ValidateStep2(d, today))
	})

	t.Run("one day short of eighteen", func(t *testing.T) {
		d := validDraft()
		d.Birthday = "2008-10-20"
		assert.Equal(t, "Debes ser mayor de edad", ValidateStep2(d, today)[FieldBirthday])
	})
}

func TestAge(t *testing.T) {
	birth := time.Date(2008, time.February, 29, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 17, Age(birth, time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 18, Age(birth, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)))

	birth = time.Date(2000, time.December, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 25, Age(birth, today))
	assert.Equal(t, 26, Age(birth, time.Date(2026, time.December, 31, 0, 0, 0, 0, time.UTC)))
}

func TestValidateStep3(t *testing.T) {
	assert.Empty(t, ValidateStep3(validDraft()))
	assert.Equal(t, FieldErrors{FieldVerificationCode: "El código de verificación es obligatorio"}, ValidateStep3(Draft{}))
	assert.Equal(t, FieldErrors{FieldVerificationCode: "El código debe tener 6 caracteres"}, ValidateStep3(Draft{VerificationCode: "AB12"}))
}
