package dispatcher

import (
	"io"
	"sync"

	"github.com/schollz/progressbar/v3"
)

// 文件传输相关的事件名
const (
	EventTransferStart  = "file_transfer.start"
	EventTransferUpdate = "file_transfer.update"
	EventTransferEnd    = "file_transfer.end"
)

// TransferStart 传输开始事件
type TransferStart struct {
	Label string
	Size  int64
}

// TransferUpdate 传输进度事件,N 为本次增量传输的字节数
type TransferUpdate struct {
	N int
}

// SetUpFileTransferListeners 注册进度条监听器
// SSH/SFTP 层只负责发事件,进度条渲染完全在这里处理
// 并行模式下多个主机会同时发事件,进度条状态用锁保护
func SetUpFileTransferListeners(d *Dispatcher, out io.Writer) {
	var mu sync.Mutex
	var bar *progressbar.ProgressBar

	d.On(EventTransferStart, func(payload any) bool {
		start, ok := payload.(TransferStart)
		if !ok {
			return true
		}
		mu.Lock()
		defer mu.Unlock()
		bar = progressbar.NewOptions64(start.Size,
			progressbar.OptionSetDescription(start.Label),
			progressbar.OptionSetWriter(out),
			progressbar.OptionShowBytes(true),
			progressbar.OptionClearOnFinish(),
		)
		return true
	})

	d.On(EventTransferUpdate, func(payload any) bool {
		update, ok := payload.(TransferUpdate)
		if !ok {
			return true
		}
		mu.Lock()
		defer mu.Unlock()
		if bar != nil {
			bar.Add(update.N)
		}
		return true
	})

	d.On(EventTransferEnd, func(payload any) bool {
		mu.Lock()
		defer mu.Unlock()
		if bar != nil {
			bar.Finish()
			bar = nil
		}
		return true
	})
}
