package styles

// Nerd Font icons used across the CLI.
const (
	IconGlobe     = "\uf0ac" // browser/web
	IconVersion   = "\uf02b" // tag
	IconGitBranch = "\ue725" // git branch
	IconCalendar  = "\uf073" // calendar
	IconGithub    = "\uf09b" // github
	IconGo        = "\ue627" // go gopher
	IconArrow     = "\uf061" // arrow right

	IconCheck   = "\uf00c" // check
	IconX       = "\uf00d" // x
	IconWarning = "\uf071" // warning
	IconInfo    = "\uf05a" // info

	IconFolder   = "\uf07b" // folder
	IconConfig   = "\ue615" // config
	IconDatabase = "\uf1c0" // database
	IconNetwork  = "\uf0e8" // sitemap

	// Tab strip
	IconWindow  = "\uf2d2" // window
	IconTab     = "\uf0ce" // table
	IconPin     = "\uf08d" // thumb-tack
	IconAudible = "\uf028" // volume-up
	IconMuted   = "\uf026" // volume-off
	IconLoading = "\uf110" // spinner
	IconError   = "\uf06a" // exclamation-circle
	IconLive    = "\uf021" // refresh
	IconBg      = "\uf24d" // clone/stack
)
