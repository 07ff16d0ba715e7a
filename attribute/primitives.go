package attribute

// Primitive-typed constructors. Go generics already collapse what the
// original Java-style design needed a subclass per primitive kind for
// (BooleanAttribute, ByteAttribute, CharAttribute, ShortAttribute,
// IntAttribute, LongAttribute, FloatAttribute, DoubleAttribute): a single
// Descriptor[T] instantiated per primitive T. These constructors just fix
// the zero-value default for each kind so callers don't repeat it.

// NewBool registers a bool-typed attribute with default false and an
// optional validity predicate.
func NewBool(name string, isValid func(bool) bool) *Descriptor[bool] {
	return New(name, false, isValid)
}

// NewByte registers a byte-typed attribute with default 0.
func NewByte(name string, isValid func(byte) bool) *Descriptor[byte] {
	return New(name, byte(0), isValid)
}

// NewShort registers an int16-typed attribute with default 0.
func NewShort(name string, isValid func(int16) bool) *Descriptor[int16] {
	return New(name, int16(0), isValid)
}

// NewInt registers an int32-typed attribute with default 0.
func NewInt(name string, isValid func(int32) bool) *Descriptor[int32] {
	return New(name, int32(0), isValid)
}

// NewLong registers an int64-typed attribute with default 0.
func NewLong(name string, isValid func(int64) bool) *Descriptor[int64] {
	return New(name, int64(0), isValid)
}

// NewFloat registers a float32-typed attribute with default 0.
func NewFloat(name string, isValid func(float32) bool) *Descriptor[float32] {
	return New(name, float32(0), isValid)
}

// NewDouble registers a float64-typed attribute with default 0.
func NewDouble(name string, isValid func(float64) bool) *Descriptor[float64] {
	return New(name, float64(0), isValid)
}
