package sshconf

import (
	"errors"
	"fmt"
)

// ErrNotFound 在配置里找不到别名时返回
var ErrNotFound = errors.New("host alias not found")

// ParseError 配置语法错误,带文件和行号上下文
type ParseError struct {
	File string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
}

func parseErrorf(file string, line int, format string, args ...any) *ParseError {
	return &ParseError{
		File: file,
		Line: line,
		Msg:  fmt.Sprintf(format, args...),
	}
}
