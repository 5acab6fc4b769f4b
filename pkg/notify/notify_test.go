package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/MaxServ/tablesync/pkg/importer"
)

// fakePublisher записывает отправленные сообщения
type fakePublisher struct {
	sent [][]byte
}

func (f *fakePublisher) Connect(ctx context.Context) error              { return nil }
func (f *fakePublisher) Close() error                                   { return nil }
func (f *fakePublisher) Ping(ctx context.Context) error                 { return nil }
func (f *fakePublisher) GetBrokerType() string                          { return "fake" }
func (f *fakePublisher) Send(ctx context.Context, message []byte) error {
	f.sent = append(f.sent, message)
	return nil
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(Config{Type: "msmq"}); err == nil {
		t.Error("Expected error for unsupported broker type")
	}
	if _, err := New(Config{Type: "rabbitmq"}); err == nil {
		t.Error("Expected error for rabbitmq without queue")
	}
	if _, err := New(Config{Type: "kafka", Brokers: []string{"localhost:9092"}}); err == nil {
		t.Error("Expected error for kafka without topic")
	}
	if _, err := New(Config{Type: "kafka", Topic: "t"}); err == nil {
		t.Error("Expected error for kafka without brokers")
	}

	if _, err := New(Config{Type: "rabbitmq", Queue: "q"}); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if _, err := New(Config{Type: "kafka", Topic: "t", Brokers: []string{"localhost:9092"}}); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestPublishResult(t *testing.T) {
	pub := &fakePublisher{}
	stats := &importer.RunStats{
		Table:          "fe_groups",
		FilesProcessed: 2,
		Updated:        3,
		Inserted:       1,
		EndTime:        time.Unix(5000, 0),
		Duration:       2 * time.Second,
	}

	if err := PublishResult(context.Background(), pub, stats, nil); err != nil {
		t.Fatalf("PublishResult failed: %v", err)
	}
	if len(pub.sent) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(pub.sent))
	}

	var event Event
	if err := json.Unmarshal(pub.sent[0], &event); err != nil {
		t.Fatalf("Invalid JSON event: %v", err)
	}
	if event.Status != "success" || event.Table != "fe_groups" {
		t.Errorf("Unexpected event: %+v", event)
	}
	if event.RowsUpdated != 3 || event.RowsInserted != 1 {
		t.Errorf("Counters lost: %+v", event)
	}
}

func TestPublishResult_Failure(t *testing.T) {
	pub := &fakePublisher{}
	stats := &importer.RunStats{Table: "fe_groups"}

	err := PublishResult(context.Background(), pub, stats, errors.New("match field missing"))
	if err != nil {
		t.Fatalf("PublishResult failed: %v", err)
	}

	var event Event
	if err := json.Unmarshal(pub.sent[0], &event); err != nil {
		t.Fatalf("Invalid JSON event: %v", err)
	}
	if event.Status != "failed" || event.Error == "" {
		t.Errorf("Expected failed event with error, got %+v", event)
	}
}
