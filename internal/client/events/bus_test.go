package events

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBus_PublishReachesAllSubscribers(t *testing.T) {
	b := NewBus[string]()

	var got1, got2 []string
	b.Subscribe(func(s string) { got1 = append(got1, s) })
	b.Subscribe(func(s string) { got2 = append(got2, s) })

	b.Publish("u1")
	b.Publish("u2")

	assert.Equal(t, []string{"u1", "u2"}, got1)
	assert.Equal(t, []string{"u1", "u2"}, got2)
}

func TestBus_UnsubscribeStopsDelivery(t *testing.T) {
	b := NewBus[int]()

	var got []int
	unsub := b.Subscribe(func(v int) { got = append(got, v) })

	b.Publish(1)
	unsub()
	b.Publish(2)

	assert.Equal(t, []int{1}, got)
	assert.Equal(t, 0, b.Len())
}

func TestBus_UnsubscribeIsIdempotent(t *testing.T) {
	b := NewBus[int]()

	unsubA := b.Subscribe(func(int) {})
	b.Subscribe(func(int) {})

	unsubA()
	unsubA() // second call must not remove someone else's subscription

	assert.Equal(t, 1, b.Len())
}

func TestBus_ConcurrentPublishAndSubscribe(t *testing.T) {
	b := NewBus[int]()

	var mu sync.Mutex
	count := 0
	b.Subscribe(func(int) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Publish(1)
			unsub := b.Subscribe(func(int) {})
			unsub()
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 10, count)
}
