package product

import "github.com/lib/pq"

func int64Array(ids []uint) pq.Int64Array {
	out := make(pq.Int64Array, 0, len(ids))
	for _, id := range ids {
		out = append(out, int64(id))
	}
	return out
}
