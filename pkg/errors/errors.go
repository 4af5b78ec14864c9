package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode 错误码类型
type ErrorCode string

const (
	CodeInvalidInput     ErrorCode = "INVALID_INPUT"
	CodeNoMessages       ErrorCode = "NO_MESSAGES"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeServiceUnavail   ErrorCode = "SERVICE_UNAVAILABLE"
	CodeGenerationFailed ErrorCode = "GENERATION_FAILED"
	CodeInternal         ErrorCode = "INTERNAL_ERROR"
)

// AppError 应用错误
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap 实现 errors.Unwrap
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewInvalidInputError 创建无效输入错误
func NewInvalidInputError(message string) *AppError {
	return &AppError{
		Code:    CodeInvalidInput,
		Message: message,
	}
}

// NewNoMessagesError 创建无消息业务错误（某日没有可用的聊天记录）
func NewNoMessagesError(message string) *AppError {
	return &AppError{
		Code:    CodeNoMessages,
		Message: message,
	}
}

// NewNotFoundError 创建未找到错误
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: message,
	}
}

// NewServiceUnavailableError 创建外部依赖不可用错误。
// service 标识出错的依赖（如 "inference"、"emotion"），用于错误提示区分。
func NewServiceUnavailableError(service, message string, cause error) *AppError {
	return &AppError{
		Code:    CodeServiceUnavail,
		Message: fmt.Sprintf("%s service: %s", service, message),
		Err:     cause,
	}
}

// NewGenerationFailedError 创建生成失败错误（依赖可达但返回不可用内容）
func NewGenerationFailedError(message string) *AppError {
	return &AppError{
		Code:    CodeGenerationFailed,
		Message: message,
	}
}

// NewInternalError 创建内部错误
func NewInternalError(message string) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: message,
	}
}

// NewInternalErrorWithCause 创建带原因的内部错误
func NewInternalErrorWithCause(message string, cause error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: message,
		Err:     cause,
	}
}

// Code 提取错误码，非 AppError 一律视为内部错误
func Code(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// HTTPStatus 错误码到 HTTP 状态码的映射
func HTTPStatus(err error) int {
	switch Code(err) {
	case CodeInvalidInput, CodeNoMessages:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// IsNotFound 判断是否为未找到错误
func IsNotFound(err error) bool {
	return Code(err) == CodeNotFound
}

// IsInvalidInput 判断是否为无效输入错误
func IsInvalidInput(err error) bool {
	return Code(err) == CodeInvalidInput
}

// IsNoMessages 判断是否为无消息业务错误
func IsNoMessages(err error) bool {
	return Code(err) == CodeNoMessages
}

// IsServiceUnavailable 判断是否为依赖不可用错误
func IsServiceUnavailable(err error) bool {
	return Code(err) == CodeServiceUnavail
}

// IsGenerationFailed 判断是否为生成失败错误
func IsGenerationFailed(err error) bool {
	return Code(err) == CodeGenerationFailed
}
