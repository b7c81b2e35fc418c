package service

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// validateRequest 请求 DTO 校验（struct tag），失败统一提示填写完整
func validateRequest(req any) error {
	if err := validate.Struct(req); err != nil {
		return &Error{Kind: KindValidation, Message: MsgMissingFields, Err: err}
	}
	return nil
}
