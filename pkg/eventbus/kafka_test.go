package eventbus

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/segmentio/kafka-go"
)

// fakeWriter records messages written.
type fakeWriter struct {
	msgs   []kafka.Message
	closed bool
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestPublish(t *testing.T) {
	fw := &fakeWriter{}
	p := NewKafkaPublisherWithWriter(fw)

	err := p.Publish(context.Background(), "community-1", map[string]string{"type": "member_joined"})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if len(fw.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(fw.msgs))
	}
	if string(fw.msgs[0].Key) != "community-1" {
		t.Fatalf("unexpected key %q", fw.msgs[0].Key)
	}

	var decoded map[string]string
	if err := json.Unmarshal(fw.msgs[0].Value, &decoded); err != nil {
		t.Fatalf("value is not json: %v", err)
	}
	if decoded["type"] != "member_joined" {
		t.Fatalf("unexpected payload %v", decoded)
	}

	if err := p.Close(); err != nil || !fw.closed {
		t.Fatal("close should reach the writer")
	}
}

func TestPublishUnencodable(t *testing.T) {
	p := NewKafkaPublisherWithWriter(&fakeWriter{})
	if err := p.Publish(context.Background(), "k", make(chan int)); err == nil {
		t.Fatal("expected marshal error")
	}
}
