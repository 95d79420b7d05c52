package handlers

import (
	"fmt"
	"regexp"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var accountCodePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,31}$`)

// RegisterValidators adds the ledger specific binding tags to gin's validator.
// It is safe to call more than once.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	if err := v.RegisterValidation("accountcode", func(fl validator.FieldLevel) bool {
		return accountCodePattern.MatchString(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("agingdirection", func(fl validator.FieldLevel) bool {
		return domain.AgingDirection(fl.Field().String()).Valid()
	})
}
