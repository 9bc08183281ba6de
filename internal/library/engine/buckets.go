package engine

// viewBucket 觀看次數區間，max < 0 表示無上限
type viewBucket struct {
	token    string
	min, max int
}

// buckets are disjoint and cover every non-negative count
var viewBuckets = []viewBucket{
	{token: "0", min: 0, max: 0},
	{token: "1-9", min: 1, max: 9},
	{token: "10-49", min: 10, max: 49},
	{token: "50-99", min: 50, max: 99},
	{token: "100+", min: 100, max: -1},
}

// ViewBucketTokens returns every bucket token in ascending range order
func ViewBucketTokens() []string {
	out := make([]string, 0, len(viewBuckets))
	for _, b := range viewBuckets {
		out = append(out, b.token)
	}
	return out
}

// BucketFor maps a view count to the token of the bucket containing it
func BucketFor(count int) string {
	if count < 0 {
		count = 0
	}
	for _, b := range viewBuckets {
		if count >= b.min && (b.max < 0 || count <= b.max) {
			return b.token
		}
	}
	return viewBuckets[len(viewBuckets)-1].token
}

// InBucket reports whether count falls in the bucket named token, unknown
// tokens never match
func InBucket(count int, token string) bool {
	for _, b := range viewBuckets {
		if b.token == token {
			return count >= b.min && (b.max < 0 || count <= b.max)
		}
	}
	return false
}
