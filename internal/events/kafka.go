package events

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

type KafkaConfig struct {
	Brokers  []string
	Topic    string
	Username string
	Password string
	CACert   string
}

// KafkaPublisher пишет события в топик асинхронно, ключ сообщения: сущность
type KafkaPublisher struct {
	writer *kafka.Writer
	logger *log.Logger
}

func NewKafkaPublisher(cfg KafkaConfig, logger *log.Logger) (*KafkaPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are empty")
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		Async:        true,
		Transport:    newKafkaTransport(cfg.Username, cfg.Password, cfg.CACert, logger),
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Printf("⚠️ Kafka: не доставлено %d сообщений: %v", len(messages), err)
			}
		},
	}
	logger.Printf("📨 Kafka publisher: topic=%s brokers=%v", cfg.Topic, cfg.Brokers)
	return &KafkaPublisher{writer: writer, logger: logger}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, event CatalogEvent) error {
	payload, err := EncodeProto(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Entity),
		Value: payload,
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// EncodeProto сериализует событие в protobuf Struct
func EncodeProto(event CatalogEvent) ([]byte, error) {
	msg, err := structpb.NewStruct(map[string]interface{}{
		"entity":      event.Entity,
		"action":      string(event.Action),
		"id":          float64(event.ID),
		"name":        event.Name,
		"occurred_at": event.OccurredAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return nil, fmt.Errorf("build event struct: %w", err)
	}
	data, err := proto.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return data, nil
}

// DecodeProto: обратная операция для потребителей и тестов
func DecodeProto(data []byte) (CatalogEvent, error) {
	var msg structpb.Struct
	if err := proto.Unmarshal(data, &msg); err != nil {
		return CatalogEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	fields := msg.GetFields()
	event := CatalogEvent{
		Entity: fields["entity"].GetStringValue(),
		Action: Action(fields["action"].GetStringValue()),
		ID:     uint(fields["id"].GetNumberValue()),
		Name:   fields["name"].GetStringValue(),
	}
	if ts := fields["occurred_at"].GetStringValue(); ts != "" {
		t, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return CatalogEvent{}, fmt.Errorf("parse occurred_at: %w", err)
		}
		event.OccurredAt = t
	}
	return event, nil
}

// newKafkaTransport настраивает SASL/PLAIN и TLS (Aiven требует TLS вместе с SASL)
func newKafkaTransport(username, password, caCert string, logger *log.Logger) *kafka.Transport {
	transport := &kafka.Transport{
		DialTimeout: 10 * time.Second,
	}

	if username != "" && password != "" {
		transport.SASL = plain.Mechanism{
			Username: username,
			Password: password,
		}
		logger.Printf("🔐 Kafka: SASL/PLAIN аутентификация включена (username: %s)", username)
	}

	if transport.SASL != nil || caCert != "" {
		tlsConfig := &tls.Config{}
		if caCert != "" {
			pool := x509.NewCertPool()
			if pool.AppendCertsFromPEM([]byte(caCert)) {
				tlsConfig.RootCAs = pool
				logger.Printf("🔒 Kafka: TLS с CA сертификатом включен")
			} else {
				logger.Printf("⚠️ Kafka: не удалось распарсить CA сертификат, используем системные сертификаты")
			}
		} else {
			logger.Printf("🔒 Kafka: TLS включен (системные сертификаты)")
		}
		transport.TLS = tlsConfig
	}

	return transport
}

// ParseKafkaBrokers парсит строку с брокерами (может быть через запятую)
func ParseKafkaBrokers(brokers string) []string {
	var result []string
	for _, broker := range strings.Split(strings.ReplaceAll(brokers, " ", ""), ",") {
		if broker != "" {
			result = append(result, broker)
		}
	}
	return result
}
