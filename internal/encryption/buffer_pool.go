package encryption

import (
	"sync"

	"crlock/internal/container"
)

// chunkBufferSize leaves room for the padding block appended to the final chunk.
const chunkBufferSize = container.ChunkLen + container.BlockLen

// bufferPool provides reusable chunk-sized byte slices for the streaming loops.
//
//nolint:gochecknoglobals
var bufferPool = sync.Pool{
	New: func() any {
		return make([]byte, chunkBufferSize)
	},
}
