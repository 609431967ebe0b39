package cli

// Flags holds the global flag values shared by every command.
type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string
	Theme      string // overrides tui.theme when set
	Group      bool   // list grouped by pending/done
}
