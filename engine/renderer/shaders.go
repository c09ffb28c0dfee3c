package renderer

// Built-in WGSL sources for the two fixed pipelines. Group 0 is the frame
// bind group (camera uniform, environment texture, sampler) shared by both;
// group 1 is the per-mesh material group (uniform, diffuse texture, sampler)
// used by the surface pipeline only. Untextured meshes bind a 1x1 white
// texture so the shader can sample unconditionally.

const surfaceShaderSource = `
struct CameraUniform {
    view: mat4x4<f32>,
    proj: mat4x4<f32>,
    inv_view_proj: mat4x4<f32>,
    cam_pos: vec4<f32>,
};

struct MaterialUniform {
    base_color: vec4<f32>,
    emissive: vec4<f32>,
    metallic_roughness: vec4<f32>,
};

@group(0) @binding(0) var<uniform> camera: CameraUniform;
@group(0) @binding(1) var env_texture: texture_2d<f32>;
@group(0) @binding(2) var env_sampler: sampler;
@group(1) @binding(0) var<uniform> material: MaterialUniform;
@group(1) @binding(1) var diffuse_texture: texture_2d<f32>;
@group(1) @binding(2) var diffuse_sampler: sampler;

struct VertexInput {
    @location(0) position: vec3<f32>,
    @location(1) normal: vec3<f32>,
    @location(2) uv: vec2<f32>,
};

struct VertexOutput {
    @builtin(position) clip_position: vec4<f32>,
    @location(0) world_position: vec3<f32>,
    @location(1) world_normal: vec3<f32>,
    @location(2) uv: vec2<f32>,
};

const PI: f32 = 3.14159265359;

fn equirect_uv(dir: vec3<f32>) -> vec2<f32> {
    let u = 0.5 + atan2(dir.x, dir.z) / (2.0 * PI);
    let v = acos(clamp(dir.y, -1.0, 1.0)) / PI;
    return vec2<f32>(u, v);
}

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.world_position = in.position;
    out.world_normal = in.normal;
    out.uv = in.uv;
    out.clip_position = camera.proj * camera.view * vec4<f32>(in.position, 1.0);
    return out;
}

fn fresnel_schlick(cos_theta: f32, f0: vec3<f32>) -> vec3<f32> {
    return f0 + (vec3<f32>(1.0) - f0) * pow(clamp(1.0 - cos_theta, 0.0, 1.0), 5.0);
}

fn distribution_ggx(n_dot_h: f32, roughness: f32) -> f32 {
    let a = roughness * roughness;
    let a2 = a * a;
    let d = n_dot_h * n_dot_h * (a2 - 1.0) + 1.0;
    return a2 / (PI * d * d);
}

fn geometry_smith(n_dot_v: f32, n_dot_l: f32, roughness: f32) -> f32 {
    let r = roughness + 1.0;
    let k = (r * r) / 8.0;
    let gv = n_dot_v / (n_dot_v * (1.0 - k) + k);
    let gl = n_dot_l / (n_dot_l * (1.0 - k) + k);
    return gv * gl;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    let metallic = material.metallic_roughness.x;
    let roughness = clamp(material.metallic_roughness.y, 0.04, 1.0);

    // metallic_roughness.z flags a bound diffuse texture. Sampling must stay
    // in uniform control flow, so sample always and blend by the flag.
    let tex = textureSample(diffuse_texture, diffuse_sampler, in.uv);
    let albedo = material.base_color.rgb * mix(vec3<f32>(1.0), tex.rgb, material.metallic_roughness.z);

    let n = normalize(in.world_normal);
    let v = normalize(camera.cam_pos.xyz - in.world_position);

    // Single fixed key light plus an image-based ambient term from the
    // environment map.
    let light_dir = normalize(vec3<f32>(0.5, 0.8, 0.3));
    let light_color = vec3<f32>(2.5);

    let l = light_dir;
    let h = normalize(v + l);
    let n_dot_l = max(dot(n, l), 0.0);
    let n_dot_v = max(dot(n, v), 1e-4);
    let n_dot_h = max(dot(n, h), 0.0);

    let f0 = mix(vec3<f32>(0.04), albedo, metallic);
    let f = fresnel_schlick(max(dot(h, v), 0.0), f0);
    let d = distribution_ggx(n_dot_h, roughness);
    let g = geometry_smith(n_dot_v, n_dot_l, roughness);

    let specular = (d * g * f) / max(4.0 * n_dot_v * n_dot_l, 1e-4);
    let kd = (vec3<f32>(1.0) - f) * (1.0 - metallic);
    let direct = (kd * albedo / PI + specular) * light_color * n_dot_l;

    let reflected = reflect(-v, n);
    let env_spec = textureSample(env_texture, env_sampler, equirect_uv(reflected)).rgb;
    let env_diff = textureSample(env_texture, env_sampler, equirect_uv(n)).rgb;
    let ambient = kd * albedo * env_diff * 0.3 + f * env_spec * (1.0 - roughness);

    let color = direct + ambient + material.emissive.rgb;
    return vec4<f32>(color, material.base_color.a);
}
`

const backgroundShaderSource = `
struct CameraUniform {
    view: mat4x4<f32>,
    proj: mat4x4<f32>,
    inv_view_proj: mat4x4<f32>,
    cam_pos: vec4<f32>,
};

@group(0) @binding(0) var<uniform> camera: CameraUniform;
@group(0) @binding(1) var env_texture: texture_2d<f32>;
@group(0) @binding(2) var env_sampler: sampler;

struct VertexOutput {
    @builtin(position) clip_position: vec4<f32>,
    @location(0) ndc: vec2<f32>,
};

const PI: f32 = 3.14159265359;

// Fullscreen triangle from the vertex index, no vertex buffer.
@vertex
fn vs_main(@builtin(vertex_index) index: u32) -> VertexOutput {
    var out: VertexOutput;
    let x = f32(i32(index) / 2) * 4.0 - 1.0;
    let y = f32(i32(index) % 2) * 4.0 - 1.0;
    out.clip_position = vec4<f32>(x, y, 1.0, 1.0);
    out.ndc = vec2<f32>(x, y);
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    // Unproject the far-plane NDC position back to a world-space direction.
    let far = camera.inv_view_proj * vec4<f32>(in.ndc, 1.0, 1.0);
    let dir = normalize(far.xyz / far.w - camera.cam_pos.xyz);

    let u = 0.5 + atan2(dir.x, dir.z) / (2.0 * PI);
    let v = acos(clamp(dir.y, -1.0, 1.0)) / PI;
    let color = textureSample(env_texture, env_sampler, vec2<f32>(u, v)).rgb;
    return vec4<f32>(color, 1.0);
}
`
