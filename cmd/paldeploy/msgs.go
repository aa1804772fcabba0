package paldeploy

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Fetch a dependency graph of repositories and compose a PAL platform"
	MsgDeployShort     = "Fetch repositories and generate the platform build configuration"
	MsgCleanShort      = "Remove build outputs and deployed repositories"
	MsgInfoShort       = "List the platforms the platform tree supports"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgDeployDone    = "[success]Deployed[/success] build configuration in [path]{{dir}}[/path]"
	MsgRepositories  = "[title]Repositories[/title]"
	MsgCleanDeleted  = "[muted]deleted[/muted]  {{path}}"
	MsgCleanRestored = "[info]restored[/info] {{path}}"
	MsgCleanNothing  = "[muted]Nothing to clean[/muted]"
	MsgCleanMake     = "[info]make clean[/info] ran in [path]{{dir}}[/path]"
	MsgInfoRoot      = "[title]pal-platform[/title] [reference]{{url}}[/reference] [code]{{ref}}[/code]"
	MsgInfoNone      = "[muted](none)[/muted]"

	// Error messages
	MsgErrLoadConfig   = "failed to load configuration: %w"
	MsgErrUnknownFmt   = "unknown format %q (use text, json or yaml)"
	MsgErrUnknownShell = "unknown shell %q (use bash, zsh, fish or powershell)"

	// Flag descriptions
	MsgFlagVerbose    = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagWorkDir    = "Directory holding the top-level descriptors"
	MsgFlagOS         = "Target operating system"
	MsgFlagDevice     = "Target device"
	MsgFlagSDK        = "Target SDK, covers OS and device when given"
	MsgFlagToolchain  = "Target toolchain"
	MsgFlagMiddleware = "Middleware to include, repeatable"
	MsgFlagForce      = "Discard local changes to tracked files before updating"
	MsgFlagSkipUpdate = "Do not update repositories that are already checked out"
	MsgFlagShallow    = "Clone with --depth=1 unless the reference is a commit hash"
	MsgFlagLargeOS    = "Also fetch references to the large OS tree"
	MsgFlagKeepRepos  = "Keep deployed repositories, only remove build outputs"
	MsgFlagFormat     = "Output format: text, json or yaml"
)

// Long messages
const (
	MsgRootLong = `paldeploy reads .lib and .ref descriptor files in a work directory, fetches
the repositories they point at (recursively, following descriptors found in
what was fetched), then applies the patches and generates the build
configuration for the selected platform of the pal-platform tree.`

	MsgDeployLong = `Deploy walks the work directory for descriptors and fetches each repository.
Descriptors found inside a fetched repository are fetched too. Once the
pal-platform tree is present, the selected SDK, OS, device, toolchain and
middleware are fetched and patched, and the build configuration is written
to an output directory next to the work directory's CMakeLists.txt.

OS and device are required unless an SDK is given.`

	MsgDeployExample = `  # Deploy FreeRTOS on a K64F with the GCC toolchain
  paldeploy deploy --os FreeRTOS --device K64F --toolchain ARMGCC

  # Deploy an SDK with extra middleware
  paldeploy deploy --sdk mbedOS --toolchain ARMGCC --mw mbedtls --mw lwip

  # Regenerate without touching existing checkouts
  paldeploy deploy --os FreeRTOS --device K64F --skip-update`

	MsgCleanLong = `Clean removes CMake build outputs from the work directory and, unless
--keep-repos is given, every repository a descriptor fetched together with
the top-level CMakeLists.txt.

With --keep-repos "make clean" runs first when a Makefile exists, and build
files inside repositories are restored from git when they are tracked.`

	MsgInfoLong = `Info fetches the pal-platform tree named by the work directory's
pal-platform.ref into a temporary directory and lists the names each
platform axis supports. The work directory is not modified.`

	MsgCompletionLong = `To load completions:

Bash:
  $ source <(paldeploy completion bash)

Zsh:
  $ paldeploy completion zsh > "${fpath[1]}/_paldeploy"

Fish:
  $ paldeploy completion fish | source

PowerShell:
  PS> paldeploy completion powershell | Out-String | Invoke-Expression`

	MsgUsageTemplate = `{{boldUpper "Usage"}}:{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}{{if gt (len .Aliases) 0}}

{{boldUpper "Aliases"}}:
  {{.NameAndAliases}}{{end}}{{if .HasExample}}

{{boldUpper "Examples"}}:
{{.Example}}{{end}}{{if .HasAvailableSubCommands}}

{{boldUpper "Commands"}}:{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

{{boldUpper "Flags"}}:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

{{boldUpper "Global Flags"}}:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`
)
