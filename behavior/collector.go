package behavior

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rushteam/newsrec/core"
)

// Sink 是收集器的落地目标。core.BehaviorRepository 天然满足该接口。
type Sink interface {
	Record(ctx context.Context, events []*core.Behavior) error
}

// Collector 是异步行为收集器：Track 把事件放进有界队列立即返回，
// 后台协程在攒够一批或定时器触发时批量落到 Sink。
//
// 行为追踪不在推荐请求的关键路径上，所以：
//   - 队列满时丢弃事件并记日志，绝不阻塞调用方
//   - 落地失败记日志后丢弃这一批，不重试
//
// Close 会停止接收并把队列里剩余的事件刷完。
type Collector struct {
	sink          Sink
	batchSize     int
	flushInterval time.Duration
	logger        zerolog.Logger

	ch   chan *core.Behavior
	quit chan struct{}

	wg        sync.WaitGroup
	closeOnce sync.Once

	mu     sync.Mutex
	closed bool
}

// CollectorConfig 收集器配置。
type CollectorConfig struct {
	// QueueSize 有界队列容量，默认 1024
	QueueSize int
	// BatchSize 批量大小，默认 64
	BatchSize int
	// FlushInterval 定时刷新间隔，默认 1 秒
	FlushInterval time.Duration

	Logger zerolog.Logger
}

// NewCollector 创建并启动一个收集器。
func NewCollector(sink Sink, config CollectorConfig) *Collector {
	if config.QueueSize <= 0 {
		config.QueueSize = 1024
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 64
	}
	if config.FlushInterval <= 0 {
		config.FlushInterval = time.Second
	}

	c := &Collector{
		sink:          sink,
		batchSize:     config.BatchSize,
		flushInterval: config.FlushInterval,
		logger:        config.Logger,
		ch:            make(chan *core.Behavior, config.QueueSize),
		quit:          make(chan struct{}),
	}

	c.wg.Add(1)
	go c.run()
	return c
}

// Track 把一条行为事件入队，非阻塞。队列满或已关闭时丢弃。
func (c *Collector) Track(ev *core.Behavior) {
	if ev == nil {
		return
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}

	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return
	}

	select {
	case c.ch <- ev:
	default:
		c.logger.Warn().
			Int64("user_id", ev.UserID).
			Str("type", string(ev.Type)).
			Msg("behavior queue full, event dropped")
	}
}

func (c *Collector) run() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.flushInterval)
	defer ticker.Stop()

	batch := make([]*core.Behavior, 0, c.batchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := c.sink.Record(context.Background(), batch); err != nil {
			c.logger.Warn().Err(err).Int("count", len(batch)).Msg("behavior flush failed")
		}
		batch = batch[:0]
	}

	for {
		select {
		case ev := <-c.ch:
			batch = append(batch, ev)
			if len(batch) >= c.batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-c.quit:
			// 排空队列里剩余的事件
			for {
				select {
				case ev := <-c.ch:
					batch = append(batch, ev)
					if len(batch) >= c.batchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		}
	}
}

// Close 优雅关闭：停止接收、排空队列、等后台协程退出。
func (c *Collector) Close() error {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()

		close(c.quit)
		c.wg.Wait()
	})
	return nil
}
