package utils

import "sync"

// WorkerPool 有上限的并发任务池
type WorkerPool interface {
	// Execute 提交一个任务,满员时阻塞等待空位
	Execute(task func())
	// Wait 等待所有已提交的任务结束
	Wait()
}

type workerPool struct {
	slots        chan struct{}
	wg           sync.WaitGroup
	panicHandler func(any)
}

type Option func(*workerPool)

// WithPanicHandler 任务 panic 时交给 handler 处理,而不是让整个进程崩掉
func WithPanicHandler(handler func(any)) Option {
	return func(p *workerPool) {
		p.panicHandler = handler
	}
}

// NewWorkerPool 创建任务池,maxConcurrent 为 0 时取默认并发数
func NewWorkerPool(maxConcurrent uint, options ...Option) WorkerPool {
	if maxConcurrent == 0 {
		maxConcurrent = 5
	}
	p := &workerPool{
		slots: make(chan struct{}, maxConcurrent),
	}
	for _, option := range options {
		option(p)
	}
	return p
}

func (p *workerPool) Execute(task func()) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.slots <- struct{}{}
		defer func() { <-p.slots }()

		if p.panicHandler != nil {
			defer func() {
				if r := recover(); r != nil {
					p.panicHandler(r)
				}
			}()
		}
		task()
	}()
}

func (p *workerPool) Wait() {
	p.wg.Wait()
}
