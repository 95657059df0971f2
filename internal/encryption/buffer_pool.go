package encryption

import "sync"

// chunkPool provides reusable chunk-sized buffers so concurrent batch
// operations do not allocate two fresh buffers per file.
//
//nolint:gochecknoglobals
var chunkPool = sync.Pool{
	New: func() any {
		buf := make([]byte, ChunkSize)

		return &buf
	},
}

func getChunkBuffer() *[]byte {
	return chunkPool.Get().(*[]byte) //nolint:errcheck // pool only holds *[]byte
}

func putChunkBuffer(buf *[]byte) {
	chunkPool.Put(buf)
}
