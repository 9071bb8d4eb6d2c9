// Package errs 权限核心的错误分类，调用方（HTTP层）负责把它们翻译成响应
package errs

import (
	"github.com/pkg/errors"
)

// storageError/duplicateError 保留驱动返回的原始错误，errors.Is 与 errors.Cause 可以穿透
type storageError struct {
	message string
	cause   error
}

type duplicateError struct {
	message string
	cause   error
}

type exhaustedError struct {
	message string
}

type notFoundError struct {
	message string
}

type invalidError struct {
	message string
}

func (e storageError) Error() string {
	return e.message + ": " + e.cause.Error()
}

func (e storageError) Unwrap() error { return e.cause }

func (e storageError) Cause() error { return e.cause }

// Storage 存储不可用，任何一次持久层调用失败都归为此类，核心层不做重试
func Storage(err error, message string) error {
	if err == nil {
		return nil
	}
	if IsDuplicate(err) || IsStorage(err) {
		return errors.WithMessage(err, message)
	}
	return errors.Wrap(storageError{message: "storageUnavailable", cause: err}, message)
}

func IsStorage(err error) bool {
	var e storageError
	return errors.As(err, &e)
}

func (e duplicateError) Error() string {
	if e.cause == nil {
		return e.message
	}
	return e.message + ": " + e.cause.Error()
}

func (e duplicateError) Unwrap() error { return e.cause }

// Duplicate 主键/唯一索引冲突，err 可以为 nil
func Duplicate(err error, message string) error {
	return errors.Wrap(duplicateError{message: "duplicateKeyConflict", cause: err}, message)
}

func IsDuplicate(err error) bool {
	var e duplicateError
	return errors.As(err, &e)
}

func (e exhaustedError) Error() string {
	return e.message
}

func Exhausted(format string, opt ...interface{}) error {
	err := exhaustedError{
		message: "exhaustedRetries",
	}
	return errors.Wrapf(err, format, opt...)
}

func IsExhausted(err error) bool {
	var e exhaustedError
	return errors.As(err, &e)
}

func (e notFoundError) Error() string {
	return e.message
}

func NotFound(format string, opt ...interface{}) error {
	err := notFoundError{
		message: "notFound",
	}
	return errors.Wrapf(err, format, opt...)
}

func IsNotFound(err error) bool {
	var e notFoundError
	return errors.As(err, &e)
}

func (e invalidError) Error() string {
	return e.message
}

func Invalid(format string, opt ...interface{}) error {
	err := invalidError{
		message: "invalidArgument",
	}
	return errors.Wrapf(err, format, opt...)
}

func IsInvalid(err error) bool {
	var e invalidError
	return errors.As(err, &e)
}
