package user

import (
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/your-org/storefront/internal/pkg/auth"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("shop_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	return v
}

// IsValidEmail reports whether email looks like an address
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

type credentials struct {
	Email    string `validate:"required,shop_email"`
	Password string `validate:"required,min=4"`
}

var credentialMessages = map[string]map[string]string{
	"Email": {
		"required":   "Enter your email",
		"shop_email": "Enter a valid email",
	},
	"Password": {
		"required": "Enter your password",
		"min":      "Password must be at least 4 characters",
	},
}

// ValidateCredentials checks a login form and returns one message per invalid field
func ValidateCredentials(email, password string) map[string]string {
	errs := map[string]string{}

	err := validate.Struct(credentials{Email: email, Password: password})
	if err == nil {
		return errs
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errs["form"] = err.Error()
		return errs
	}
	for _, fe := range verrs {
		key := map[string]string{"Email": "email", "Password": "password"}[fe.Field()]
		if _, seen := errs[key]; seen {
			continue
		}
		errs[key] = credentialMessages[fe.Field()][fe.Tag()]
	}
	return errs
}

// RegisterRequest is a self-service sign up
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Surname  string `json:"surname" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// CreateUserRequest is an account created from the admin panel
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Surname  string `json:"surname" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"`
}

func validateAccount(req interface{}, email, password string, minPassword int) error {
	if err := validate.Struct(req); err != nil {
		return &ValidationError{Message: "All fields are required"}
	}
	if !IsValidEmail(email) {
		return &ValidationError{Message: "Invalid email format"}
	}
	if err := auth.ValidatePassword(password, minPassword); err != nil {
		return &ValidationError{Message: err.Error()}
	}
	return nil
}
