package git

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"example.com/KitTools/pkg/executor"
	"example.com/KitTools/pkg/kit"
)

// EnsureTagExists 校验本地仓库中存在指定的 git tag
// 部署类任务在动手前用它拦掉打错的版本号
func EnsureTagExists(ctx context.Context, kctx *kit.Context, tag string) error {
	res, err := kctx.Local(ctx, fmt.Sprintf("git rev-parse -q --verify refs/tags/%s", tag), &executor.Options{Pipe: true})
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return kctx.Fail("git tag %q not found in local repository", tag)
	}
	return nil
}

// EnsureTagIsRecent 校验指定 tag 的提交时间不早于 maxAge 之前
// 防止误把一个老版本当成新版本发出去
func EnsureTagIsRecent(ctx context.Context, kctx *kit.Context, tag string, maxAge time.Duration) error {
	if err := EnsureTagExists(ctx, kctx, tag); err != nil {
		return err
	}
	res, err := kctx.Local(ctx, fmt.Sprintf("git log -1 --format=%%ct refs/tags/%s", tag), &executor.Options{Pipe: true, Check: true})
	if err != nil {
		return err
	}
	ts, err := strconv.ParseInt(strings.TrimSpace(res.Stdout), 10, 64)
	if err != nil {
		return fmt.Errorf("parse commit timestamp of tag %q: %w", tag, err)
	}
	committed := time.Unix(ts, 0)
	if age := time.Since(committed); age > maxAge {
		return kctx.Fail("git tag %q was committed %s ago, expected at most %s", tag, age.Round(time.Minute), maxAge)
	}
	return nil
}

// CurrentBranch 返回当前检出的分支名
func CurrentBranch(ctx context.Context, kctx *kit.Context) (string, error) {
	res, err := kctx.Local(ctx, "git rev-parse --abbrev-ref HEAD", &executor.Options{Pipe: true, Check: true})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(res.Stdout), nil
}
