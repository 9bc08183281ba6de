package pkg

// Contains check source have target
func Contains[T comparable](slice []T, val T) bool {
	for _, v := range slice {
		if v == val {
			return true
		}
	}
	return false
}

// ContainsAny check source have at least one of targets
func ContainsAny[T comparable](slice []T, targets []T) bool {
	for _, t := range targets {
		if Contains(slice, t) {
			return true
		}
	}
	return false
}

// ContainsAll check source have every target
func ContainsAll[T comparable](slice []T, targets []T) bool {
	for _, t := range targets {
		if !Contains(slice, t) {
			return false
		}
	}
	return true
}
