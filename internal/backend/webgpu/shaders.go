//go:build windows

package webgpu

// WGSL compute shader for the alibi bias forward pass.
// Using string constants instead of embed for simplicity.

// workgroupSize is the number of threads per workgroup.
const workgroupSize = 256

// alibiForwardShader computes one output element per invocation:
//
//	out[beam, batch*heads + h, q, k] =
//	    min((2*mask - 1) * bound, slope[h] * abs(k - q - offset - shift + bias[h]))
//
// Operand layouts match the CPU kernel's canonical shapes:
// mask [1, batch, 1, key], shift [beam, batch, query, 1],
// slopes/biases [1, heads, 1, 1].
const alibiForwardShader = `
@group(0) @binding(0) var<storage, read> mask: array<f32>;
@group(0) @binding(1) var<storage, read> slopes: array<f32>;
@group(0) @binding(2) var<storage, read> biases: array<f32>;
@group(0) @binding(3) var<storage, read> shift: array<f32>;
@group(0) @binding(4) var<storage, read_write> result: array<f32>;

struct Params {
    beam: u32,
    batch: u32,
    heads: u32,
    query: u32,
    key: u32,
    query_offset: i32,
    has_shift: u32,
    bound: f32,
}
@group(0) @binding(5) var<uniform> params: Params;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let idx = global_id.x;
    let total = params.beam * params.batch * params.heads * params.query * params.key;
    if (idx >= total) {
        return;
    }

    let k = idx % params.key;
    var rest = idx / params.key;
    let q = rest % params.query;
    rest = rest / params.query;
    let bh = rest % (params.batch * params.heads);
    let beam = rest / (params.batch * params.heads);
    let b = bh / params.heads;
    let h = bh % params.heads;

    var rel = f32(i32(k)) - f32(i32(q) + params.query_offset);
    if (params.has_shift == 1u) {
        rel = rel - shift[(beam * params.batch + b) * params.query + q];
    }

    let alibi = slopes[h] * abs(rel + biases[h]);
    let m = mask[b * params.key + k];
    let log_mask = (2.0 * m - 1.0) * params.bound;

    result[idx] = min(log_mask, alibi);
}
`
