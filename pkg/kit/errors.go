package kit

import "errors"

// TaskError 任务级别的失败,携带进程退出码
// 顶层 Execute 捕获它并以对应的退出码退出,不打印堆栈
type TaskError struct {
	Message  string
	ExitCode int
}

func (e *TaskError) Error() string {
	return e.Message
}

// AsTaskError 从错误链中提取 TaskError
func AsTaskError(err error) (*TaskError, bool) {
	var taskErr *TaskError
	if errors.As(err, &taskErr) {
		return taskErr, true
	}
	return nil, false
}
