package task

import "example.com/KitTools/pkg/kit"

// LocalOnly 只在 local 类型的 stage 下可用
func LocalOnly() Filter {
	return func(kctx *kit.Context) bool {
		return kctx.IsLocal()
	}
}

// RemoteOnly 只在 remote 类型的 stage 下可用
func RemoteOnly() Filter {
	return func(kctx *kit.Context) bool {
		return kctx.IsRemote()
	}
}

// StageNamed 只在指定名称的 stage 下可用
func StageNamed(names ...string) Filter {
	return func(kctx *kit.Context) bool {
		stage := kctx.Stage()
		if stage == nil {
			return false
		}
		for _, name := range names {
			if stage.Name == name {
				return true
			}
		}
		return false
	}
}

func passesFilters(kctx *kit.Context, filters []Filter) bool {
	for _, f := range filters {
		if !f(kctx) {
			return false
		}
	}
	return true
}
