package dispatcher

import "sync"

// 事件分发器,用来把命令执行和 CLI 输出等其他关注点解耦
// 比如文件传输的进度展示就是通过监听 file_transfer.* 事件实现的

// Listener 事件监听器
// 返回 true 表示继续传播事件,返回 false 表示停止传播
type Listener func(payload any) bool

// Dispatcher 按注册顺序调用监听器,不支持监听器优先级
// Emit 可以在多个 goroutine 中并发调用
type Dispatcher struct {
	mu        sync.RWMutex
	listeners map[string][]Listener
}

func New() *Dispatcher {
	return &Dispatcher{
		listeners: make(map[string][]Listener),
	}
}

// On 为指定事件注册一个监听器
func (d *Dispatcher) On(eventName string, fn Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[eventName] = append(d.listeners[eventName], fn)
}

// Emit 触发指定事件的所有监听器
// 监听器按注册顺序调用,任何一个返回 false 都会停止传播
func (d *Dispatcher) Emit(eventName string, payload any) {
	d.mu.RLock()
	fns := d.listeners[eventName]
	d.mu.RUnlock()
	for _, fn := range fns {
		if !fn(payload) {
			return
		}
	}
}
