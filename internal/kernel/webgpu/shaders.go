//go:build windows

package webgpu

import "github.com/born-ml/tensorview/internal/observer"

// WGSL compute shaders for the texture kernels. Every shader shares the
// bindings and helpers in shaderPrelude: the block elements as f32, the
// texture as packed RGBA8 (pack4x8unorm, red in the low byte) and the Params
// uniform laid out by encodeParams.

const shaderPrelude = `
struct Params {
    width: u32,
    height: u32,
    count: u32,
    elements: u32,
    min_value: f32,
    max_value: f32,
    scale: u32,
    tile_width: u32,
    tile_height: u32,
    tiles_per_row: u32,
    work_items: u32,
    _pad: u32,
}

@group(0) @binding(0) var<storage, read> data: array<f32>;
@group(0) @binding(1) var<storage, read_write> pixels: array<u32>;
@group(0) @binding(2) var<uniform> params: Params;

const PI: f32 = 3.14159265358979;
const NAN_COLOR: vec4<f32> = vec4<f32>(0.0, 0.0, 1.0, 1.0);

fn flat_id(gid: vec3<u32>, groups: vec3<u32>) -> u32 {
    return gid.x + gid.y * groups.x * 256u;
}

fn is_nan(v: f32) -> bool {
    return !(v == v);
}

fn store(idx: u32, c: vec4<f32>) {
    pixels[idx] = pack4x8unorm(clamp(c, vec4<f32>(0.0), vec4<f32>(1.0)));
}

// Negative values are red, positive green; brightness is the magnitude
// relative to max(|min|, |max|).
fn scale_color(v: f32) -> vec4<f32> {
    if (is_nan(v)) {
        return NAN_COLOR;
    }
    var m = max(abs(params.min_value), abs(params.max_value));
    if (m == 0.0 || m > 3.0e38) {
        m = 1.0;
    }
    var i = abs(v) / m;
    if (params.scale == 1u) {
        i = atan(i) * 2.0 / PI;
    } else {
        i = min(i, 1.0);
    }
    if (v < 0.0) {
        return vec4<f32>(i, 0.0, 0.0, 1.0);
    }
    return vec4<f32>(0.0, i, 0.0, 1.0);
}
`

// colorScaleShader paints one element per pixel.
const colorScaleShader = shaderPrelude + `
@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) gid: vec3<u32>, @builtin(num_workgroups) groups: vec3<u32>) {
    let idx = flat_id(gid, groups);
    if (idx >= params.work_items || idx >= params.count) {
        return;
    }
    store(idx, scale_color(data[idx]));
}
`

// vectorShader encodes direction as hue and length relative to max as value.
const vectorShader = shaderPrelude + `
fn hsv(hue_in: f32, v: f32) -> vec4<f32> {
    var h = hue_in % 360.0;
    if (h < 0.0) {
        h = h + 360.0;
    }
    let sector = h / 60.0;
    let f = sector - floor(sector);
    let q = v * (1.0 - f);
    let t = v * f;
    switch (u32(sector)) {
        case 0u: { return vec4<f32>(v, t, 0.0, 1.0); }
        case 1u: { return vec4<f32>(q, v, 0.0, 1.0); }
        case 2u: { return vec4<f32>(0.0, v, t, 1.0); }
        case 3u: { return vec4<f32>(0.0, q, v, 1.0); }
        case 4u: { return vec4<f32>(t, 0.0, v, 1.0); }
        default: { return vec4<f32>(v, 0.0, q, 1.0); }
    }
}

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) gid: vec3<u32>, @builtin(num_workgroups) groups: vec3<u32>) {
    let idx = flat_id(gid, groups);
    let base = idx * params.elements;
    if (idx >= params.work_items || base + params.elements > params.count) {
        return;
    }
    let x = data[base];
    var y = 0.0;
    if (params.elements > 1u) {
        y = data[base + 1u];
    }
    if (is_nan(x) || is_nan(y)) {
        store(idx, NAN_COLOR);
        return;
    }
    let mag = length(vec2<f32>(x, y));
    if (mag == 0.0) {
        store(idx, vec4<f32>(0.0, 0.0, 0.0, 1.0));
        return;
    }
    var value = 1.0;
    if (params.max_value > 0.0) {
        value = min(mag / params.max_value, 1.0);
    }
    store(idx, hsv(atan2(y, x) * 180.0 / PI, value));
}
`

// rgbShader combines three consecutive planes into one pixel.
const rgbShader = shaderPrelude + `
@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) gid: vec3<u32>, @builtin(num_workgroups) groups: vec3<u32>) {
    let idx = flat_id(gid, groups);
    let plane = params.count / 3u;
    if (idx >= params.work_items || idx >= plane) {
        return;
    }
    store(idx, vec4<f32>(data[idx], data[idx + plane], data[idx + 2u * plane], 1.0));
}
`

// tiledColorScaleShader runs one thread per element and leaves a one-pixel
// gutter between tiles.
const tiledColorScaleShader = shaderPrelude + `
@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) gid: vec3<u32>, @builtin(num_workgroups) groups: vec3<u32>) {
    let idx = flat_id(gid, groups);
    if (idx >= params.work_items || idx >= params.count) {
        return;
    }
    let area = params.tile_width * params.tile_height;
    let tile = idx / area;
    let within = idx % area;
    let x = (tile % params.tiles_per_row) * (params.tile_width + 1u) + within % params.tile_width;
    let y = (tile / params.tiles_per_row) * (params.tile_height + 1u) + within / params.tile_width;
    if (x >= params.width || y >= params.height) {
        return;
    }
    store(y * params.width + x, scale_color(data[idx]));
}
`

// tiledRGBShader runs one thread per pixel; tiles 3k, 3k+1 and 3k+2 are the
// channels of image k.
const tiledRGBShader = shaderPrelude + `
@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) gid: vec3<u32>, @builtin(num_workgroups) groups: vec3<u32>) {
    let idx = flat_id(gid, groups);
    if (idx >= params.work_items) {
        return;
    }
    let px = idx % params.width;
    let py = idx / params.width;
    let area = params.tile_width * params.tile_height;
    let img = (py / params.tile_height) * params.tiles_per_row + px / params.tile_width;
    let offset = (py % params.tile_height) * params.tile_width + px % params.tile_width;
    let r = 3u * img * area + offset;
    let b = r + 2u * area;
    if (b >= params.count) {
        return;
    }
    store(idx, vec4<f32>(data[r], data[r + area], data[b], 1.0));
}
`

// shaderSources maps each kernel to its WGSL source. Compiled modules and
// pipelines are cached under Kernel.String().
var shaderSources = map[observer.Kernel]string{
	observer.KernelColorScale:      colorScaleShader,
	observer.KernelVector:          vectorShader,
	observer.KernelRGB:             rgbShader,
	observer.KernelTiledColorScale: tiledColorScaleShader,
	observer.KernelTiledRGB:        tiledRGBShader,
}
