package flags

import (
	"errors"
	"sync"

	"github.com/launchdarkly/go-sdk-common/v3/ldcontext"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// metricEvent records one TrackMetric call for assertions.
type metricEvent struct {
	name    string
	context ldcontext.Context
	value   float64
	data    ldvalue.Value
}

// dataEvent records one TrackData call for assertions.
type dataEvent struct {
	name    string
	context ldcontext.Context
	data    ldvalue.Value
}

// fakeLDClient is a configurable LDClient implementation for tests.
type fakeLDClient struct {
	mu sync.Mutex

	initialized  bool
	variations   map[string]ldvalue.Value
	variationErr error
	trackErr     error

	metricEvents []metricEvent
	dataEvents   []dataEvent
	flushCount   int
	lastContext  ldcontext.Context
}

func newFakeLDClient() *fakeLDClient {
	return &fakeLDClient{
		initialized: true,
		variations:  make(map[string]ldvalue.Value),
	}
}

func (f *fakeLDClient) setVariationJSON(key, raw string) {
	f.variations[key] = ldvalue.Parse([]byte(raw))
}

func (f *fakeLDClient) Initialized() bool { return f.initialized }

func (f *fakeLDClient) JSONVariation(key string, context ldcontext.Context, defaultVal ldvalue.Value) (ldvalue.Value, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastContext = context

	if f.variationErr != nil {
		return defaultVal, f.variationErr
	}
	if value, ok := f.variations[key]; ok {
		return value, nil
	}
	return defaultVal, errors.New("flag not found")
}

func (f *fakeLDClient) BoolVariation(key string, context ldcontext.Context, defaultVal bool) (bool, error) {
	value, err := f.JSONVariation(key, context, ldvalue.Bool(defaultVal))
	return value.BoolValue(), err
}

func (f *fakeLDClient) TrackMetric(eventName string, context ldcontext.Context, metricValue float64, data ldvalue.Value) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.trackErr != nil {
		return f.trackErr
	}
	f.metricEvents = append(f.metricEvents, metricEvent{
		name: eventName, context: context, value: metricValue, data: data,
	})
	return nil
}

func (f *fakeLDClient) TrackData(eventName string, context ldcontext.Context, data ldvalue.Value) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.trackErr != nil {
		return f.trackErr
	}
	f.dataEvents = append(f.dataEvents, dataEvent{name: eventName, context: context, data: data})
	return nil
}

func (f *fakeLDClient) Flush() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flushCount++
}

// metricEventNames lists tracked metric event names in emission order.
func (f *fakeLDClient) metricEventNames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, len(f.metricEvents))
	for i, e := range f.metricEvents {
		names[i] = e.name
	}
	return names
}

// findMetricEvent returns the first tracked metric event with the name.
func (f *fakeLDClient) findMetricEvent(name string) (metricEvent, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.metricEvents {
		if e.name == name {
			return e, true
		}
	}
	return metricEvent{}, false
}
