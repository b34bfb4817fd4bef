package rules

import "fmt"

type Numeric interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

func Min[T Numeric](field string, value, min T) Rule {
	return Rule{
		Check: func() bool {
			return value >= min
		},
		Err: Error{Field: field, Message: fmt.Sprintf("must be at least %v", min)},
	}
}

func Max[T Numeric](field string, value, max T) Rule {
	return Rule{
		Check: func() bool {
			return value <= max
		},
		Err: Error{Field: field, Message: fmt.Sprintf("must be at most %v", max)},
	}
}

func Between[T Numeric](field string, value, min, max T) Rule {
	return Rule{
		Check: func() bool {
			return value >= min && value <= max
		},
		Err: Error{Field: field, Message: fmt.Sprintf("must be between %v and %v", min, max)},
	}
}
