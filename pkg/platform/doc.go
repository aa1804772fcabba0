// Package platform composes a build tree from the platform repository.
//
// The platform repository lists, for each axis (SDK, OS, Device, Toolchain,
// Middleware), one directory per supported name. A selected directory may
// carry a <name>.ref descriptor for the sources of that platform and a
// <name>.patch applied on top of them. The Composer fetches the selected
// platforms, keeps their patches applied and renders the generated CMake
// fragment the build consumes.
package platform
