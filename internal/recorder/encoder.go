package recorder

// Encoder packages PCM chunks into one finished payload. One instance per
// recording session; encoders are not reused.
type Encoder interface {
	Write(chunk []byte) error
	// Finalize concatenates everything written so far into the delivered
	// payload. Called exactly once.
	Finalize() ([]byte, error)
}

// EncoderFactory is one {format, constructor} strategy. Supported is the
// capability probe; New is only called on a factory that reported support.
type EncoderFactory struct {
	MimeType  string
	Supported func() bool
	New       func(constraints StreamConstraints) Encoder
}

// DefaultEncoders is the preference-ordered strategy list. The native
// formats are only available when a platform encoder has been registered;
// the WAV entry at the end always works, so the probe can never come up
// empty.
func DefaultEncoders() []EncoderFactory {
	return []EncoderFactory{
		nativeFactory("audio/webm"),
		nativeFactory("audio/ogg"),
		nativeFactory("audio/mp4"),
		{
			MimeType:  "audio/wav",
			Supported: func() bool { return true },
			New: func(c StreamConstraints) Encoder {
				return NewWAVEncoder(c.SampleRate, c.ChannelCount, c.SampleSize)
			},
		},
	}
}

// nativeEncoders holds platform encoder constructors registered at startup,
// keyed by mime type. Instance-scoped lookups go through the factory list, so
// two recorders never share per-session encoder state.
var nativeEncoders = map[string]func(StreamConstraints) Encoder{}

// RegisterNativeEncoder plugs in a platform encoder for a mime type. Call it
// from an init or during startup wiring, before any recorder is created.
func RegisterNativeEncoder(mimeType string, constructor func(StreamConstraints) Encoder) {
	nativeEncoders[mimeType] = constructor
}

func nativeFactory(mimeType string) EncoderFactory {
	return EncoderFactory{
		MimeType:  mimeType,
		Supported: func() bool { return nativeEncoders[mimeType] != nil },
		New: func(c StreamConstraints) Encoder {
			return nativeEncoders[mimeType](c)
		},
	}
}

// probeEncoder returns the first supported strategy. With the WAV fallback in
// the list this only errors on an explicitly empty or unsupported custom list.
func probeEncoder(factories []EncoderFactory, c StreamConstraints) (string, Encoder, error) {
	for _, f := range factories {
		if f.Supported() {
			return f.MimeType, f.New(c), nil
		}
	}
	return "", nil, ErrNoEncoder
}
