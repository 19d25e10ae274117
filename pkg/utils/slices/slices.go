package slices

// map each element in sli.
//
// args:
//   - sli : slice of `T`s
//   - mapper : mapping function from T to R
//
// return:
//
//	slice of `R`s.
//	each element indexed `N` is given with `mapper(sli[N])` .
func Map[T any, R any](sli []T, mapper func(v T) R) []R {
	ret := make([]R, len(sli))
	for nth, v := range sli {
		ret[nth] = mapper(v)
	}
	return ret
}

// Map over sli with mapper.
//
// If mapper causes error, return (nil, error).
//
// Otherwise, return (mapping result, nil).
func MapUntilError[T any, R any](sli []T, mapper func(v T) (R, error)) ([]R, error) {
	ret := make([]R, len(sli))
	for nth, v := range sli {
		r, err := mapper(v)
		if err != nil {
			return nil, err
		}
		ret[nth] = r
	}
	return ret, nil
}

// convert slice to map.
//
// If keys given with getkey collide, a value coming later takes over previous.
func ToMap[T any, K comparable](sli []T, getkey func(v T) K) map[K]T {
	ret := make(map[K]T, len(sli))
	for _, v := range sli {
		ret[getkey(v)] = v
	}
	return ret
}

// find the first element satisfying predicator.
//
// return: the found element and true, or zero-value and false.
func First[T any](sli []T, predicator func(T) bool) (T, bool) {
	for _, v := range sli {
		if predicator(v) {
			return v, true
		}
	}
	return *new(T), false
}

// pick elements satisfying predicator, keeping their order.
func Filter[T any](sli []T, predicator func(T) bool) []T {
	ret := []T{}
	for _, v := range sli {
		if predicator(v) {
			ret = append(ret, v)
		}
	}
	return ret
}

// Concat concatenates slices into a new single slice.
func Concat[T any](slis ...[]T) []T {
	ret := []T{}
	for _, s := range slis {
		ret = append(ret, s...)
	}
	return ret
}
