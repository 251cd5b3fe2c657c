package behavior

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/rushteam/newsrec/core"
)

// KafkaSink 把行为事件发到 Kafka，供离线画像/特征管道消费。
// 与 StoreRepository 并不互斥：线上通常两路都挂（近线交互表 + 离线事件流）。
type KafkaSink struct {
	client *kgo.Client
	topic  string
}

var _ Sink = (*KafkaSink)(nil)

// KafkaSinkConfig Kafka 落地配置。
type KafkaSinkConfig struct {
	Brokers []string
	Topic   string

	// ClientID 默认 "newsrec-behavior"
	ClientID string

	// Compression: gzip / snappy / lz4 / zstd，空值不压缩
	Compression string
}

// NewKafkaSink 创建 Kafka 落地。
func NewKafkaSink(config KafkaSinkConfig) (*KafkaSink, error) {
	if config.ClientID == "" {
		config.ClientID = "newsrec-behavior"
	}

	opts := []kgo.Opt{
		kgo.SeedBrokers(config.Brokers...),
		kgo.ClientID(config.ClientID),
		kgo.RequiredAcks(kgo.LeaderAck()),
		kgo.DisableIdempotentWrite(),
	}

	switch config.Compression {
	case "gzip":
		opts = append(opts, kgo.ProducerBatchCompression(kgo.GzipCompression()))
	case "snappy":
		opts = append(opts, kgo.ProducerBatchCompression(kgo.SnappyCompression()))
	case "lz4":
		opts = append(opts, kgo.ProducerBatchCompression(kgo.Lz4Compression()))
	case "zstd":
		opts = append(opts, kgo.ProducerBatchCompression(kgo.ZstdCompression()))
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleBehavior, core.ErrorCodeUnavailable,
			"behavior: kafka connect failed", err)
	}

	return &KafkaSink{client: client, topic: config.Topic}, nil
}

// Record 异步发送一批事件。key 用 userID，同一用户的事件落同一分区保序。
func (s *KafkaSink) Record(ctx context.Context, events []*core.Behavior) error {
	for _, ev := range events {
		if ev == nil {
			continue
		}
		data, err := json.Marshal(ev)
		if err != nil {
			continue
		}
		record := &kgo.Record{
			Topic: s.topic,
			Key:   []byte(strconv.FormatInt(ev.UserID, 10)),
			Value: data,
		}
		s.client.Produce(ctx, record, nil)
	}
	return nil
}

// Close 刷完未发送的消息并关闭客户端。
func (s *KafkaSink) Close() error {
	err := s.client.Flush(context.Background())
	s.client.Close()
	return err
}
