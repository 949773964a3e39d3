package events

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/soocke/sawbot-go/domain/geometry"
)

func TestBus_DeliversToTopicSubscribersOnly(t *testing.T) {
	b := NewBus(nil)
	var stops, areas atomic.Int32
	b.Subscribe(TopicEmergencyStop, func(Event) { stops.Add(1) })
	b.Subscribe(TopicAreaSelected, func(ev Event) {
		p := ev.Payload.(AreaSelected)
		assert.Equal(t, 50, p.Rect.Width)
		areas.Add(1)
	})

	b.Publish(Event{Topic: TopicEmergencyStop})
	b.Publish(Event{Topic: TopicAreaSelected, Payload: AreaSelected{Rect: geometry.FromCorners(0, 0, 50, 50)}})
	b.Publish(Event{Topic: TopicBackendLog})

	assert.EqualValues(t, 1, stops.Load())
	assert.EqualValues(t, 1, areas.Load())
}

func TestSubscription_CloseStopsDeliveryAndIsIdempotent(t *testing.T) {
	b := NewBus(nil)
	var n atomic.Int32
	s := b.Subscribe(TopicEmergencyStop, func(Event) { n.Add(1) })
	b.Publish(Event{Topic: TopicEmergencyStop})
	s.Close()
	s.Close()
	b.Publish(Event{Topic: TopicEmergencyStop})
	assert.EqualValues(t, 1, n.Load())
	assert.Equal(t, 0, b.Count(TopicEmergencyStop))
}

func TestBus_HandlerPanicIsContained(t *testing.T) {
	b := NewBus(nil)
	var after atomic.Bool
	b.Subscribe(TopicBackendLog, func(Event) { panic("boom") })
	b.Subscribe(TopicBackendLog, func(Event) { after.Store(true) })
	assert.NotPanics(t, func() { b.Publish(Event{Topic: TopicBackendLog}) })
	assert.True(t, after.Load())
}
