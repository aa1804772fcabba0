package config

import "runtime"

// Fetch holds the switches that control how repositories are updated
type Fetch struct {
	// Force discards local edits to tracked files before updating
	Force bool `koanf:"force"`
	// SkipUpdate leaves every existing working tree untouched
	SkipUpdate bool `koanf:"skip_update"`
	// Shallow clones with --depth=1 unless the ref is a commit hash
	Shallow bool `koanf:"shallow"`
	// AllowLargeOS lets descriptors pointing at the large OS tree be fetched
	AllowLargeOS bool `koanf:"allow_large_os"`
}

// Repos holds descriptor interpretation settings
type Repos struct {
	DefaultBranch    string `koanf:"default_branch"`
	TrustedHost      string `koanf:"trusted_host"`
	LargeOSName      string `koanf:"large_os_name"`
	RootName         string `koanf:"root_name"`
	ModeMarkerSuffix string `koanf:"mode_marker_suffix"`
}

// Platform holds the layout of the platform tree
type Platform struct {
	CompatFile     string `koanf:"compat_file"`
	CompatVariable string `koanf:"compat_variable"`
	AutogenFile    string `koanf:"autogen_file"`
	OutDirPrefix   string `koanf:"out_dir_prefix"`
}

// Tools names the external executables
type Tools struct {
	Git   string `koanf:"git"`
	Patch string `koanf:"patch"`
	Make  string `koanf:"make"`
}

// Selection is the requested value for each platform axis
type Selection struct {
	SDK        string   `koanf:"sdk"`
	OS         string   `koanf:"os"`
	Device     string   `koanf:"device"`
	Toolchain  string   `koanf:"toolchain"`
	Middleware []string `koanf:"middleware"`
}

// Clean lists build outputs removed by the clean command
type Clean struct {
	Outputs []string `koanf:"outputs"`
}

// Config is the immutable configuration value handed to every component.
// It is built once by Load and passed by value.
type Config struct {
	WorkDir   string    `koanf:"work_dir"`
	Verbose   bool      `koanf:"verbose"`
	Fetch     Fetch     `koanf:"fetch"`
	Repos     Repos     `koanf:"repos"`
	Platform  Platform  `koanf:"platform"`
	Tools     Tools     `koanf:"tools"`
	Selection Selection `koanf:"selection"`
	Clean     Clean     `koanf:"clean"`
}

func defaultPatchTool() string {
	if runtime.GOOS == "windows" {
		return "patch.exe"
	}
	return "patch"
}

func defaultMakeTool() string {
	if runtime.GOOS == "windows" {
		return "mingw32-make.exe"
	}
	return "make"
}
