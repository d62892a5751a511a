// Package validation 封装 go-playground/validator 的单例，并把校验失败转换为可读的错误。
package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError 描述一个字段校验失败。
type FieldError struct {
	Field string
	Tag   string
	Param string
}

func (e FieldError) Error() string {
	switch e.Tag {
	case "required":
		return fmt.Sprintf("%s 不能为空", e.Field)
	case "min":
		return fmt.Sprintf("%s 至少需要 %s 项", e.Field, e.Param)
	case "oneof":
		return fmt.Sprintf("%s 只能是 [%s] 之一", e.Field, e.Param)
	default:
		return fmt.Sprintf("%s 校验失败（%s）", e.Field, e.Tag)
	}
}

// Error 是一次结构体校验的全部失败。
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return "校验失败"
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Error())
	}
	return strings.Join(msgs, "; ")
}

// Get 返回单例 validator（并发安全）。
func Get() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Struct 校验 s；通过返回 nil，失败返回 *Error。
func Struct(s any) error {
	err := Get().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &Error{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field: strings.ToLower(fe.Field()),
			Tag:   fe.Tag(),
			Param: fe.Param(),
		})
	}
	return out
}
