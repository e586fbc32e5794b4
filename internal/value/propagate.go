package value

// Propagate implements spec §7's error/unknown precedence policy: if
// either operand is an error, that error wins (the leftmost, if both are
// errors, since a is checked first); otherwise if either operand is
// unknown, the result carries the union of both operands' attribute
// trails when both are unknown, or the lone unknown operand otherwise.
// ok is false when neither operand needs to short-circuit the caller's
// own logic.
func Propagate(a, b Value) (Value, bool) {
	if _, ok := a.(ErrorValue); ok {
		return a, true
	}
	if _, ok := b.(ErrorValue); ok {
		return b, true
	}
	au, aIsUnknown := a.(UnknownValue)
	bu, bIsUnknown := b.(UnknownValue)
	switch {
	case aIsUnknown && bIsUnknown:
		return mergeUnknown(au, bu), true
	case aIsUnknown:
		return a, true
	case bIsUnknown:
		return b, true
	default:
		return nil, false
	}
}
