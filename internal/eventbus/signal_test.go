package eventbus

import "testing"

func TestSignalPublishSubscribe(t *testing.T) {
	sig := NewSignal[string]()
	var got []string
	sig.Subscribe(func(s string) { got = append(got, "a:"+s) })
	sig.Subscribe(func(s string) { got = append(got, "b:"+s) })
	sig.Publish("hello")
	if len(got) != 2 || got[0] != "a:hello" || got[1] != "b:hello" {
		t.Fatalf("expected in-order delivery, got %v", got)
	}
}

func TestSignalUnsubscribe(t *testing.T) {
	sig := NewSignal[int]()
	count := 0
	sub := sig.Subscribe(func(int) { count++ })
	sig.Publish(1)
	sig.Unsubscribe(sub)
	sig.Publish(2)
	if count != 1 {
		t.Fatalf("expected 1 delivery, got %d", count)
	}
	if sig.Len() != 0 {
		t.Fatalf("expected empty signal, got %d handlers", sig.Len())
	}
}

func TestSignalUnsubscribeIdempotent(t *testing.T) {
	sig := NewSignal[int]()
	sub := sig.Subscribe(func(int) {})
	sig.Unsubscribe(sub)
	sig.Unsubscribe(sub)
	sig.Unsubscribe(Subscription{})
	if sig.Len() != 0 {
		t.Fatalf("expected empty signal, got %d handlers", sig.Len())
	}
}

func TestSignalUnsubscribeDuringDispatch(t *testing.T) {
	sig := NewSignal[int]()
	var sub Subscription
	first := 0
	second := 0
	sub = sig.Subscribe(func(int) {
		first++
		sig.Unsubscribe(sub)
	})
	sig.Subscribe(func(int) { second++ })
	sig.Publish(0)
	if first != 1 || second != 1 {
		t.Fatalf("expected both handlers to run once, got %d/%d", first, second)
	}
	sig.Publish(0)
	if first != 1 || second != 2 {
		t.Fatalf("expected only the second handler on the second publish, got %d/%d", first, second)
	}
}

func TestFeedPublishSubscribe(t *testing.T) {
	feed := NewFeed[string]()
	ch := feed.Subscribe()
	feed.Publish("hello")
	if v := <-ch; v != "hello" {
		t.Fatalf("expected hello got %v", v)
	}
	feed.Unsubscribe(ch)
}

func TestFeedClose(t *testing.T) {
	feed := NewFeed[int]()
	ch1 := feed.Subscribe()
	ch2 := feed.Subscribe()
	feed.Close()
	if _, ok := <-ch1; ok {
		t.Fatalf("expected ch1 closed")
	}
	if _, ok := <-ch2; ok {
		t.Fatalf("expected ch2 closed")
	}
}

func TestFeedUnsubscribeAfterClose(t *testing.T) {
	feed := NewFeed[float64]()
	ch := feed.Subscribe()
	feed.Close()
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("panic on Unsubscribe after Close: %v", r)
		}
	}()
	feed.Unsubscribe(ch)
}
