package utils

import (
	"context"
	"fmt"
	"time"
)

// WaitFor 周期性地调用 tester 直到它返回 true
// 超过 maxChecks 次仍未成功时返回错误,ctx 取消时立即返回
func WaitFor(ctx context.Context, tester func() bool, interval time.Duration, maxChecks int, label string) error {
	if maxChecks <= 0 {
		maxChecks = 1
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for i := 0; i < maxChecks; i++ {
		if tester() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return fmt.Errorf("%s: condition not met after %d checks", label, maxChecks)
}
