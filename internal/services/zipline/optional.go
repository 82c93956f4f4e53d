package zipline

type optionalState uint8

const (
	optionalUnset optionalState = iota
	optionalNull
	optionalValue
)

// Optional is a three-state value: Unset (omit the key), Null (send JSON null)
// or a concrete value. The zero value is Unset.
type Optional[T any] struct {
	state optionalState
	value T
}

// Unset returns an Optional that is left out of payloads.
func Unset[T any]() Optional[T] {
	return Optional[T]{}
}

// Null returns an Optional that is sent as JSON null.
func Null[T any]() Optional[T] {
	return Optional[T]{state: optionalNull}
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{state: optionalValue, value: v}
}

func (o Optional[T]) IsUnset() bool { return o.state == optionalUnset }
func (o Optional[T]) IsNull() bool  { return o.state == optionalNull }

// Get returns the value and whether one is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.state == optionalValue
}

// payloadValue returns what goes into a JSON payload: nil for Null, the value otherwise.
func (o Optional[T]) payloadValue() any {
	if o.state == optionalValue {
		return o.value
	}
	return nil
}

// setIn writes o under key unless it is Unset.
func (o Optional[T]) setIn(payload map[string]any, key string) {
	if o.IsUnset() {
		return
	}
	payload[key] = o.payloadValue()
}
