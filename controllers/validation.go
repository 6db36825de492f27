package controllers

import (
	"errors"

	"HDTN/pkg/chat"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the custom binding tags used by request bodies:
// "language" accepts a supported language name or ISO code.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected binding validator engine")
	}
	return v.RegisterValidation("language", func(fl validator.FieldLevel) bool {
		_, ok := chat.ParseLanguage(fl.Field().String())
		return ok
	})
}

// bindError turns a binding failure into a short client message.
func bindError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request"
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return "invalid email"
	case "language":
		return "unsupported language"
	default:
		return "invalid " + fe.Field()
	}
}
