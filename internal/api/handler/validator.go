package handler

import (
	"errors"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"timetable-console/internal/model"
)

// RegisterValidators 向 gin 的校验引擎注册自定义规则
//   - hhmm: 严格的 24 小时制 "HH:MM"
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin 校验引擎不是 validator/v10")
	}
	return v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		_, ok := model.ParseClock(fl.Field().String())
		return ok
	})
}
