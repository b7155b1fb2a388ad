package registration

import "fmt"

// Field names a draft input. The string values double as JSON keys.
type Field string

const (
	FieldName             Field = "name"
	FieldPhoneNumber      Field = "phoneNumber"
	FieldEmail            Field = "email"
	FieldPassword         Field = "password"
	FieldConfirmPassword  Field = "confirmPassword"
	FieldAddress          Field = "address"
	FieldBirthday         Field = "birthday"
	FieldVerificationCode Field = "verificationCode"
)

// Fields lists every draft field in form order.
var Fields = []Field{
	FieldName,
	FieldEmail,
	FieldPassword,
	FieldConfirmPassword,
	FieldPhoneNumber,
	FieldAddress,
	FieldBirthday,
	FieldVerificationCode,
}

// ParseField resolves a field by its wire name.
func ParseField(s string) (Field, error) {
	for _, f := range Fields {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown registration field %q", s)
}

// Draft is the in-progress registration data of one wizard.
// Birthday is a calendar date in YYYY-MM-DD form; empty means absent.
type Draft struct {
	Name             string `json:"name"`
	PhoneNumber      string `json:"phoneNumber"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	ConfirmPassword  string `json:"confirmPassword"`
	Address          string `json:"address"`
	Birthday         string `json:"birthday"`
	VerificationCode string `json:"verificationCode"`
}

// Get returns the stored value of f.
func (d *Draft) Get(f Field) string {
	switch f {
	case FieldName:
		return d.Name
	case FieldPhoneNumber:
		return d.PhoneNumber
	case FieldEmail:
		return d.Email
	case FieldPassword:
		return d.Password
	case FieldConfirmPassword:
		return d.ConfirmPassword
	case FieldAddress:
		return d.Address
	case FieldBirthday:
		return d.Birthday
	case FieldVerificationCode:
		return d.VerificationCode
	}
	return ""
}

// Set stores value into f after input normalization.
func (d *Draft) Set(f Field, value string) {
	switch f {
	case FieldName:
		d.Name = value
	case FieldPhoneNumber:
		d.PhoneNumber = NormalizePhoneNumber(value)
	case FieldEmail:
		d.Email = value
	case FieldPassword:
		d.Password = value
	case FieldConfirmPassword:
		d.ConfirmPassword = value
	case FieldAddress:
		d.Address = value
	case FieldBirthday:
		d.Birthday = value
	case FieldVerificationCode:
		d.VerificationCode = NormalizeVerificationCode(value)
	}
}

// FieldErrors maps fields to a human readable message. An empty map means valid.
type FieldErrors map[Field]string

// Valid reports whether there are no errors.
func (fe FieldErrors) Valid() bool {
	return len(fe) == 0
}

// Registration is what the identity collaborator receives after step 2.
type Registration struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Address     string `json:"address"`
	Birthday    string `json:"birthday"`
	IsVerified  bool   `json:"isVerified"`
}

// Registration builds the collaborator payload. IsVerified is always false.
func (d *Draft) Registration() Registration {
	return Registration{
		Name:        d.Name,
		PhoneNumber: d.PhoneNumber,
		Email:       d.Email,
		Password:    d.Password,
		Address:     d.Address,
		Birthday:    d.Birthday,
		IsVerified:  false,
	}
}
