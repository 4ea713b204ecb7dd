package runner

import (
	"context"

	"golang.org/x/sync/errgroup"

	"example.com/KitTools/pkg/kit"
	"example.com/KitTools/pkg/utils"
)

// HostFunc 对单台主机执行的操作,kctx 已绑定到该主机
type HostFunc func(ctx context.Context, kctx *kit.Context, host string) error

// Result 单台主机的执行结果
type Result struct {
	Host string
	Err  error
}

// RunParallel 在 stage 的多台主机上并行执行 fn
// concurrency 限制同时执行的主机数,0 表示使用默认值
// 所有主机都执行完后返回,每台主机一条 Result
func RunParallel(ctx context.Context, kctx *kit.Context, hosts []string, concurrency uint, fn HostFunc) []Result {
	results := make([]Result, len(hosts))
	pool := utils.NewWorkerPool(concurrency)
	for i, host := range hosts {
		i, host := i, host
		pool.Execute(func() {
			hostCtx, err := kctx.WithHost(host)
			if err != nil {
				results[i] = Result{Host: host, Err: err}
				return
			}
			results[i] = Result{Host: host, Err: fn(ctx, hostCtx, host)}
		})
	}
	pool.Wait()
	return results
}

// RunFailFast 在多台主机上并行执行 fn,任何一台失败就取消其余主机并返回首个错误
func RunFailFast(ctx context.Context, kctx *kit.Context, hosts []string, concurrency uint, fn HostFunc) error {
	g, gctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(int(concurrency))
	}
	for _, host := range hosts {
		host := host
		g.Go(func() error {
			hostCtx, err := kctx.WithHost(host)
			if err != nil {
				return err
			}
			return fn(gctx, hostCtx, host)
		})
	}
	return g.Wait()
}

// FirstError 返回结果集中第一个出错的结果,没有错误时返回 nil
func FirstError(results []Result) *Result {
	for i := range results {
		if results[i].Err != nil {
			return &results[i]
		}
	}
	return nil
}
