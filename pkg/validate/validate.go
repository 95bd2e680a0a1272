// Package validate 注册 gin 请求绑定使用的自定义校验规则。
package validate

import (
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var once sync.Once

// Register 向 gin 默认校验器注册自定义规则，可重复调用
func Register() {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("notblank", notBlank)
		_ = v.RegisterValidation("maxbytes", maxBytes)
	})
}

// notBlank 字符串去除首尾空白后不能为空
func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// maxBytes 按字节数限制字符串长度，如 maxbytes=72。
// 内置 max 规则按 rune 计数，bcrypt 的上限是 72 字节。
func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}
