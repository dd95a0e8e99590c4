package handlers

import (
	"errors"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/manor5/electraSIR/internal/services"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterValidators installs the custom binding tags on gin's validator:
//
//	boothlist  comma-separated list of booth numbers
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("binding validator is not go-playground/validator")
			return
		}
		registerErr = v.RegisterValidation("boothlist", validateBoothList)
	})
	return registerErr
}

func validateBoothList(fl validator.FieldLevel) bool {
	_, err := services.ParseBoothList(fl.Field().String())
	return err == nil
}
