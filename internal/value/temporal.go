package value

import (
	"fmt"
	"io"
	"time"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/oxhq/celval/internal/core"
	"github.com/oxhq/celval/internal/types"
)

// Duration and timestamp bounds: ±10000 years, expressed in seconds the
// same way google.protobuf.Duration bounds its range (spec §3.3; the exact
// figure matches golden scenarios S6/S7). Timestamps reuse the same figure
// around the Unix epoch, which is wider than google.protobuf.Timestamp's
// own year 1 to 9999 range.
const (
	MaxTemporalSeconds = int64(315576000000)
	MinTemporalSeconds = int64(-315576000000)
	nanosPerSecond     = int32(1e9)
)

// --- duration -----------------------------------------------------------

type durationValue struct {
	seconds int64
	nanos   int32
}

// NewDuration constructs a duration value from a (seconds, nanos) pair,
// rejecting out-of-bounds nanos (spec §7, invalid argument) and out-of-
// bounds totals (spec §7/§8, out of range — exact bound accepted, one
// nanosecond beyond rejected).
func NewDuration(seconds int64, nanos int32) (Value, error) {
	if nanos <= -nanosPerSecond || nanos >= nanosPerSecond {
		return nil, invalidArgument("duration nanos %d out of [-999999999, 999999999]", nanos)
	}
	if seconds > MaxTemporalSeconds || (seconds == MaxTemporalSeconds && nanos > 0) {
		return nil, outOfRange("duration exceeds +10000 years")
	}
	if seconds < MinTemporalSeconds || (seconds == MinTemporalSeconds && nanos < 0) {
		return nil, outOfRange("duration exceeds -10000 years")
	}
	return durationValue{seconds: seconds, nanos: nanos}, nil
}

// DurationFromSeconds constructs a whole-second duration value.
func DurationFromSeconds(seconds int64) (Value, error) {
	return NewDuration(seconds, 0)
}

func (v durationValue) Kind() core.Kind  { return core.KindDuration }
func (v durationValue) Type() types.Type { return types.Duration() }
func (v durationValue) DebugString() string {
	return formatSecondsNanos(v.seconds, v.nanos) + "s"
}
func (v durationValue) Equal(other Value) Value {
	if p, ok := Propagate(v, other); ok {
		return p
	}
	o, ok := other.(durationValue)
	if !ok {
		return Bool(false)
	}
	return Bool(v.seconds == o.seconds && v.nanos == o.nanos)
}
func (v durationValue) SerializeTo(w io.Writer) (int, error) {
	return marshalTo(w, &durationpb.Duration{Seconds: v.seconds, Nanos: v.nanos})
}
func (v durationValue) SerializedSize() int {
	return proto.Size(&durationpb.Duration{Seconds: v.seconds, Nanos: v.nanos})
}
func (v durationValue) ConvertToJSON() (any, error) {
	return formatSecondsNanos(v.seconds, v.nanos) + "s", nil
}
func (v durationValue) ConvertToAny(prefix string) (Value, error) {
	return convertToAnyViaSerialize(v, prefix, "google.protobuf.Duration")
}
func (v durationValue) IsZeroValue() bool { return v.seconds == 0 && v.nanos == 0 }

// DurationParts extracts a duration value's (seconds, nanos) pair.
func DurationParts(v Value) (seconds int64, nanos int32, ok bool) {
	dv, isDv := v.(durationValue)
	if !isDv {
		return 0, 0, false
	}
	return dv.seconds, dv.nanos, true
}

// --- timestamp ------------------------------------------------------------

type timestampValue struct {
	seconds int64
	nanos   int32
}

// NewTimestamp constructs a timestamp value: seconds since the Unix
// epoch, plus sub-second nanos, bounded the same ±10000 years as duration.
func NewTimestamp(seconds int64, nanos int32) (Value, error) {
	if nanos < 0 || nanos >= nanosPerSecond {
		return nil, invalidArgument("timestamp nanos %d out of [0, 999999999]", nanos)
	}
	if seconds > MaxTemporalSeconds || (seconds == MaxTemporalSeconds && nanos > 0) {
		return nil, outOfRange("timestamp exceeds +10000 years")
	}
	if seconds < MinTemporalSeconds {
		return nil, outOfRange("timestamp exceeds -10000 years")
	}
	return timestampValue{seconds: seconds, nanos: nanos}, nil
}

func (v timestampValue) Kind() core.Kind  { return core.KindTimestamp }
func (v timestampValue) Type() types.Type { return types.Timestamp() }
func (v timestampValue) DebugString() string {
	return time.Unix(v.seconds, int64(v.nanos)).UTC().Format(time.RFC3339Nano)
}
func (v timestampValue) Equal(other Value) Value {
	if p, ok := Propagate(v, other); ok {
		return p
	}
	o, ok := other.(timestampValue)
	if !ok {
		return Bool(false)
	}
	return Bool(v.seconds == o.seconds && v.nanos == o.nanos)
}
func (v timestampValue) SerializeTo(w io.Writer) (int, error) {
	return marshalTo(w, &timestamppb.Timestamp{Seconds: v.seconds, Nanos: v.nanos})
}
func (v timestampValue) SerializedSize() int {
	return proto.Size(&timestamppb.Timestamp{Seconds: v.seconds, Nanos: v.nanos})
}
func (v timestampValue) ConvertToJSON() (any, error) {
	return time.Unix(v.seconds, int64(v.nanos)).UTC().Format(time.RFC3339Nano), nil
}
func (v timestampValue) ConvertToAny(prefix string) (Value, error) {
	return convertToAnyViaSerialize(v, prefix, "google.protobuf.Timestamp")
}
func (v timestampValue) IsZeroValue() bool { return v.seconds == 0 && v.nanos == 0 }

// TimestampParts extracts a timestamp value's (seconds, nanos) pair.
func TimestampParts(v Value) (seconds int64, nanos int32, ok bool) {
	tv, isTv := v.(timestampValue)
	if !isTv {
		return 0, 0, false
	}
	return tv.seconds, tv.nanos, true
}

func formatSecondsNanos(seconds int64, nanos int32) string {
	if nanos == 0 {
		return fmt.Sprintf("%d", seconds)
	}
	n := nanos
	sign := ""
	if seconds < 0 || n < 0 {
		sign = "-"
		if n < 0 {
			n = -n
		}
	}
	abs := seconds
	if abs < 0 {
		abs = -abs
	}
	return fmt.Sprintf("%s%d.%09d", sign, abs, n)
}
