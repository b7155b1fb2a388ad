package registration

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"workbuddy-store/pkg/common/i18n"
)

const (
	minPasswordLength = 8
	adultAge          = 18
	birthdayLayout    = "2006-01-02"
)

var (
	emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)
	phonePattern = regexp.MustCompile(`^\d{4}-\d{4}$`)
)

// ValidateStep1 checks the basic information step.
func ValidateStep1(d Draft) FieldErrors {
	return validateStep1(d, i18n.Default)
}

// ValidateStep2 checks the contact information step against the date of now.
func ValidateStep2(d Draft, now time.Time) FieldErrors {
	return validateStep2(d, now, i18n.Default)
}

// ValidateStep3 checks the verification step.
func ValidateStep3(d Draft) FieldErrors {
	return validateStep3(d, i18n.Default)
}

func validateStep1(d Draft, p *i18n.Printer) FieldErrors {
	errs := FieldErrors{}

	if strings.TrimSpace(d.Name) == "" {
		errs[FieldName] = p.T(i18n.NameRequired)
	}

	switch {
	case d.Email == "":
		errs[FieldEmail] = p.T(i18n.EmailRequired)
	case !emailPattern.MatchString(d.Email):
		errs[FieldEmail] = p.T(i18n.EmailInvalid)
	}

	switch {
	case d.Password == "":
		errs[FieldPassword] = p.T(i18n.PasswordRequired)
	case utf8.RuneCountInString(d.Password) < minPasswordLength:
		errs[FieldPassword] = p.T(i18n.PasswordTooShort)
	}

	switch {
	case d.ConfirmPassword == "":
		errs[FieldConfirmPassword] = p.T(i18n.ConfirmPasswordRequired)
	case d.ConfirmPassword != d.Password:
		errs[FieldConfirmPassword] = p.T(i18n.PasswordsMismatch)
	}

	return errs
}

func validateStep2(d Draft, now time.Time, p *i18n.Printer) FieldErrors {
	errs := FieldErrors{}

	switch {
	case d.PhoneNumber == "":
		errs[FieldPhoneNumber] = p.T(i18n.PhoneRequired)
	case countDigits(d.PhoneNumber) != phoneDigits:
		errs[FieldPhoneNumber] = p.T(i18n.PhoneDigits)
	case !phonePattern.MatchString(d.PhoneNumber):
		errs[FieldPhoneNumber] = p.T(i18n.PhoneFormat)
	}

	if strings.TrimSpace(d.Address) == "" {
		errs[FieldAddress] = p.T(i18n.AddressRequired)
	}

	if d.Birthday == "" {
		errs[FieldBirthday] = p.T(i18n.BirthdayRequired)
	} else if birthday, err := ParseBirthday(d.Birthday); err != nil {
		errs[FieldBirthday] = p.T(i18n.BirthdayInvalid)
	} else if Age(birthday, now) < adultAge {
		errs[FieldBirthday] = p.T(i18n.Underage)
	}

	return errs
}

func validateStep3(d Draft, p *i18n.Printer) FieldErrors {
	errs := FieldErrors{}
	switch {
	case d.VerificationCode == "":
		errs[FieldVerificationCode] = p.T(i18n.CodeRequired)
	case len(d.VerificationCode) != codeLength:
		errs[FieldVerificationCode] = p.T(i18n.CodeLength)
	}
	return errs
}

// ParseBirthday parses a YYYY-MM-DD calendar date.
func ParseBirthday(s string) (time.Time, error) {
	return time.Parse(birthdayLayout, strings.TrimSpace(s))
}

// Age is the number of whole years between birthday and now, using calendar
// arithmetic: the year difference, minus one if now's month and day come
// before the birthday's.
func Age(birthday, now time.Time) int {
	age := now.Year() - birthday.Year()
	if now.Month() < birthday.Month() ||
		(now.Month() == birthday.Month() && now.Day() < birthday.Day()) {
		age--
	}
	return age
}

func countDigits(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			n++
		}
	}
	return n
}
