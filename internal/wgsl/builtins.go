package wgsl

// builtinTypes and builtinFns list the standard WGSL names traversal
// must never try to resolve (spec.md §4.F, §4.I). The list is not
// exhaustive of every WGSL builtin in existence; it covers the names
// that would otherwise show up as unresolved `call`/`typeRef` noise
// in ordinary shader code.
var builtinTypes = map[string]bool{
	"bool": true, "i32": true, "u32": true, "f32": true, "f16": true,
	"vec2": true, "vec3": true, "vec4": true,
	"vec2f": true, "vec3f": true, "vec4f": true,
	"vec2i": true, "vec3i": true, "vec4i": true,
	"vec2u": true, "vec3u": true, "vec4u": true,
	"vec2h": true, "vec3h": true, "vec4h": true,
	"mat2x2": true, "mat2x3": true, "mat2x4": true,
	"mat3x2": true, "mat3x3": true, "mat3x4": true,
	"mat4x2": true, "mat4x3": true, "mat4x4": true,
	"array": true, "ptr": true, "atomic": true,
	"texture_1d": true, "texture_2d": true, "texture_2d_array": true,
	"texture_3d": true, "texture_cube": true, "texture_cube_array": true,
	"texture_multisampled_2d": true, "texture_depth_2d": true,
	"texture_depth_2d_array": true, "texture_depth_cube": true,
	"texture_depth_cube_array": true, "texture_depth_multisampled_2d": true,
	"texture_storage_1d": true, "texture_storage_2d": true,
	"texture_storage_2d_array": true, "texture_storage_3d": true,
	"texture_external": true, "sampler": true, "sampler_comparison": true,
}

var builtinFns = map[string]bool{
	"abs": true, "acos": true, "acosh": true, "all": true, "any": true,
	"asin": true, "asinh": true, "atan": true, "atan2": true, "atanh": true,
	"ceil": true, "clamp": true, "cos": true, "cosh": true, "countLeadingZeros": true,
	"countOneBits": true, "countTrailingZeros": true, "cross": true, "degrees": true,
	"determinant": true, "distance": true, "dot": true, "dot4U8Packed": true,
	"dot4I8Packed": true, "exp": true, "exp2": true, "extractBits": true,
	"faceForward": true, "firstLeadingBit": true, "firstTrailingBit": true,
	"floor": true, "fma": true, "fract": true, "frexp": true, "insertBits": true,
	"inverseSqrt": true, "ldexp": true, "length": true, "log": true, "log2": true,
	"max": true, "min": true, "mix": true, "modf": true, "normalize": true,
	"pow": true, "quantizeToF16": true, "radians": true, "reflect": true,
	"refract": true, "reverseBits": true, "round": true, "saturate": true,
	"sign": true, "sin": true, "sinh": true, "smoothstep": true, "sqrt": true,
	"step": true, "tan": true, "tanh": true, "transpose": true, "trunc": true,
	"dpdx": true, "dpdxCoarse": true, "dpdxFine": true, "dpdy": true,
	"dpdyCoarse": true, "dpdyFine": true, "fwidth": true, "fwidthCoarse": true,
	"fwidthFine": true, "textureDimensions": true, "textureGather": true,
	"textureGatherCompare": true, "textureLoad": true, "textureNumLayers": true,
	"textureNumLevels": true, "textureNumSamples": true, "textureSample": true,
	"textureSampleBias": true, "textureSampleCompare": true,
	"textureSampleCompareLevel": true, "textureSampleGrad": true,
	"textureSampleLevel": true, "textureSampleBaseClampToEdge": true,
	"textureStore": true, "atomicLoad": true, "atomicStore": true,
	"atomicAdd": true, "atomicSub": true, "atomicMax": true, "atomicMin": true,
	"atomicAnd": true, "atomicOr": true, "atomicXor": true,
	"atomicExchange": true, "atomicCompareExchangeWeak": true,
	"pack4x8snorm": true, "pack4x8unorm": true, "pack2x16snorm": true,
	"pack2x16unorm": true, "pack2x16float": true, "pack4xI8": true,
	"pack4xU8": true, "pack4xI8Clamp": true, "pack4xU8Clamp": true,
	"unpack4x8snorm": true, "unpack4x8unorm": true, "unpack2x16snorm": true,
	"unpack2x16unorm": true, "unpack2x16float": true, "unpack4xI8": true,
	"unpack4xU8": true, "select": true, "arrayLength": true,
	"workgroupBarrier": true, "storageBarrier": true, "textureBarrier": true,
	"workgroupUniformLoad": true, "bitcast": true,
}

// IsBuiltinType reports whether name is a standard WGSL type the
// traversal should never attempt to resolve.
func IsBuiltinType(name string) bool { return builtinTypes[name] }

// IsBuiltinFn reports whether name is a standard WGSL builtin function.
func IsBuiltinFn(name string) bool { return builtinFns[name] }

// callishKeywords are control-flow keywords that look like a call
// (`if (...)`, `for (...)`) but must not be collected as one, per
// spec.md §4.F.
var callishKeywords = map[string]bool{
	"if": true, "else": true, "for": true, "while": true, "loop": true,
	"switch": true, "return": true, "const_assert": true, "break": true,
	"continue": true, "continuing": true, "discard": true, "case": true,
	"default": true, "fallthrough": true,
}

// IsCallishKeyword reports whether name is a control-flow keyword that
// must be excluded from call collection even though it is followed by
// `(`.
func IsCallishKeyword(name string) bool { return callishKeywords[name] }

// addressSpaceKeywords are the address-space/access-mode identifiers
// that may appear inside a template (`ptr<storage, T, read>`) without
// being a user-type reference.
var addressSpaceKeywords = map[string]bool{
	"function": true, "private": true, "workgroup": true,
	"uniform": true, "storage": true, "handle": true,
	"read": true, "write": true, "read_write": true,
}

// IsAddressSpaceKeyword reports whether name is a WGSL address-space
// or access-mode keyword.
func IsAddressSpaceKeyword(name string) bool { return addressSpaceKeywords[name] }
