package services

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrInvalidTransition = errors.New("invalid view transition")
	ErrEmptyInput        = errors.New("input text is empty")
)

// StoreError bọc mọi lỗi từ tầng lưu trữ
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// UpstreamError là phản hồi không thành công từ API sinh văn bản
type UpstreamError struct {
	Status  int
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("upstream returned %d: %s", e.Status, e.Message)
	}
	return "upstream request failed: " + e.Message
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// ParseError: không đọc được mảng materials từ phản hồi của model
type ParseError struct {
	Msg string
	Err error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *ParseError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string { return e.Msg }

func newValidationError(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Msg: msg}
}
