package runner

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"example.com/KitTools/pkg/config"
	"example.com/KitTools/pkg/dispatcher"
	"example.com/KitTools/pkg/executor"
	"example.com/KitTools/pkg/kit"
)

func newTestContext(t *testing.T) *kit.Context {
	t.Helper()
	cfg := &config.Config{
		Stages: map[string]*config.Stage{
			"prod": {
				Type:      config.StageTypeRemote,
				Hostnames: []string{"web-1", "web-2", "web-3"},
			},
		},
	}
	require.NoError(t, cfg.Normalize())
	stage, _ := cfg.GetStage("prod")

	kctx, err := kit.New(cfg, stage, dispatcher.New(), func(stage *config.Stage, host string) (executor.Executor, error) {
		return executor.NewLocal(""), nil
	})
	require.NoError(t, err)
	return kctx
}

func TestRunParallelVisitsAllHosts(t *testing.T) {
	kctx := newTestContext(t)
	hosts := kctx.Stage().Hosts()

	var mu sync.Mutex
	var visited []string
	results := RunParallel(context.Background(), kctx, hosts, 2, func(ctx context.Context, hostCtx *kit.Context, host string) error {
		mu.Lock()
		visited = append(visited, hostCtx.Host())
		mu.Unlock()
		return nil
	})

	require.Len(t, results, 3)
	sort.Strings(visited)
	require.Equal(t, []string{"web-1", "web-2", "web-3"}, visited)
	require.Nil(t, FirstError(results))
}

func TestRunParallelCollectsPerHostErrors(t *testing.T) {
	kctx := newTestContext(t)
	hosts := kctx.Stage().Hosts()
	boom := errors.New("boom")

	results := RunParallel(context.Background(), kctx, hosts, 0, func(ctx context.Context, hostCtx *kit.Context, host string) error {
		if host == "web-2" {
			return boom
		}
		return nil
	})

	require.Len(t, results, 3)
	// 结果顺序和主机顺序一致
	require.Equal(t, "web-2", results[1].Host)
	require.ErrorIs(t, results[1].Err, boom)
	require.NoError(t, results[0].Err)
	require.NoError(t, results[2].Err)

	first := FirstError(results)
	require.NotNil(t, first)
	require.Equal(t, "web-2", first.Host)
}

func TestRunFailFast(t *testing.T) {
	kctx := newTestContext(t)
	hosts := kctx.Stage().Hosts()
	boom := errors.New("boom")

	err := RunFailFast(context.Background(), kctx, hosts, 1, func(ctx context.Context, hostCtx *kit.Context, host string) error {
		if host == "web-1" {
			return boom
		}
		return ctx.Err()
	})
	require.ErrorIs(t, err, boom)
}
