package signup

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

// SignupRequest is the body of POST /signup/request-otp. Field order is rule order: the first
// failing field determines the message.
type SignupRequest struct {
	FullName        string `json:"fullname" validate:"fullname"`
	Email           string `json:"email" validate:"signupemail"`
	Password        string `json:"password" label:"Password" validate:"min=8,hasupper,hasdigit,hasspecial"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password"`
	PresentSkill    string `json:"presentSkillCareer" label:"Present skill/career" validate:"trimmin=2"`
	School          string `json:"school" label:"School" validate:"trimmin=2"`
	Country         string `json:"country" label:"Country" validate:"trimmin=2"`
	PhoneNumber     string `json:"phoneNumber" validate:"phone"`
}

const specialChars = "!@#$%"

var (
	nameTokenRe = regexp.MustCompile(`^[A-Z][A-Za-z'-]*$`)
	emailRe     = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe     = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
	phoneStrip  = strings.NewReplacer(" ", "", "-", "", ".", "", "(", "", ")", "")
)

var messages = map[string]string{
	"fullname":    "Full name must contain at least two names, each starting with a capital letter.",
	"signupemail": "Please enter a valid email address.",
	"min":         "{0} must be at least {1} characters long.",
	"hasupper":    "Password must contain at least one uppercase letter.",
	"hasdigit":    "Password must contain at least one number.",
	"hasspecial":  "Password must contain at least one special character (!@#$%).",
	"eqfield":     "Passwords do not match.",
	"trimmin":     "{0} must be at least {1} characters.",
	"phone":       "Please enter a valid phone number (7-15 digits, optional leading +).",
}

type signupValidator struct {
	v     *validator.Validate
	trans ut.Translator
}

var defaultValidator = mustNewValidator()

func mustNewValidator() *signupValidator {
	sv, err := newValidator()
	if err != nil {
		panic("signup: build validator: " + err.Error())
	}
	return sv
}

func newValidator() (*signupValidator, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		return f.Name
	})

	custom := map[string]validator.Func{
		"fullname":    validFullName,
		"signupemail": validEmail,
		"hasupper":    containsAny("ABCDEFGHIJKLMNOPQRSTUVWXYZ"),
		"hasdigit":    containsAny("0123456789"),
		"hasspecial":  containsAny(specialChars),
		"trimmin":     trimmedMin,
		"phone":       validPhone,
	}
	for tag, fn := range custom {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return nil, err
		}
	}

	locale := en.New()
	trans, _ := ut.New(locale, locale).GetTranslator("en")
	for tag, text := range messages {
		err := v.RegisterTranslation(tag, trans,
			func(t ut.Translator) error { return t.Add(tag, text, true) },
			func(t ut.Translator, fe validator.FieldError) string {
				msg, err := t.T(fe.Tag(), fe.Field(), fe.Param())
				if err != nil {
					return fe.Error()
				}
				return msg
			})
		if err != nil {
			return nil, err
		}
	}
	return &signupValidator{v: v, trans: trans}, nil
}

// ValidateSignup checks req against the signup rules in order and returns a KindValidation
// *Error carrying the message of the first rule that fails.
func ValidateSignup(req SignupRequest) error {
	return defaultValidator.validate(req)
}

func (sv *signupValidator) validate(req SignupRequest) error {
	err := sv.v.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return newError(KindValidation, verrs[0].Translate(sv.trans), nil)
	}
	return newError(KindInternal, MsgInternal, err)
}

func validFullName(fl validator.FieldLevel) bool {
	tokens := strings.Fields(fl.Field().String())
	if len(tokens) < 2 {
		return false
	}
	for _, tok := range tokens {
		if !nameTokenRe.MatchString(tok) {
			return false
		}
	}
	return true
}

func validEmail(fl validator.FieldLevel) bool {
	return emailRe.MatchString(strings.TrimSpace(fl.Field().String()))
}

func validPhone(fl validator.FieldLevel) bool {
	return phoneRe.MatchString(phoneStrip.Replace(strings.TrimSpace(fl.Field().String())))
}

func containsAny(chars string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return strings.ContainsAny(fl.Field().String(), chars)
	}
}

func trimmedMin(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= n
}
