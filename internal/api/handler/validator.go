package handler

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var tagNameRe = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{0,63}$`)

// RegisterValidations 注册自定义校验规则；路由装配前调用一次
func RegisterValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("tagname", func(fl validator.FieldLevel) bool {
			return tagNameRe.MatchString(fl.Field().String())
		})
	}
}
