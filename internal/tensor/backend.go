package tensor

// Backend defines the interface that compute backends must implement.
// Backends handle the actual computation for the attention-bias kernels.
//
// Implementations:
//   - CPU: pure Go, goroutine-parallel
//   - WebGPU: GPU compute shaders for the forward pass, CPU fallback for
//     everything else
type Backend interface {
	// AlibiForward writes the additive attention bias into out.
	//
	// Shapes (row-major, rank 4):
	//   out:    [beam, batch*heads, query, key]
	//   mask:   broadcastable to out with the head dimension collapsed,
	//           typically [1, batch, 1, key], values 0 or 1
	//   slopes: [1, heads, 1, 1] per-head slope parameters
	//   biases: [1, heads, 1, 1] per-head bias parameters
	//   shift:  [beam, batch, query, 1] per-position offset, or nil for
	//           no shift (a valid configuration, not an error)
	//
	// queryOffset is the absolute position of the first query row, used
	// during incremental decoding where the query sequence starts
	// mid-sequence.
	//
	// All tensors must share the same floating storage type; unsupported
	// types panic naming the offending type. Shape compatibility is the
	// caller's contract and is not re-validated element by element.
	AlibiForward(out, mask, slopes, biases, shift *RawTensor, heads, queryOffset int)

	// AlibiBackward reduces the adjoint tensor into per-head gradients,
	// accumulating into slopesGrad and biasesGrad. It adds to whatever the
	// accumulators already hold; callers zero them before the first
	// accumulation of a cycle. adj has the same shape as the forward
	// output; the remaining operands match AlibiForward.
	AlibiBackward(slopesGrad, biasesGrad, mask, slopes, biases, shift, adj *RawTensor, heads, queryOffset int)

	// Metadata
	Name() string
	Device() Device
}
