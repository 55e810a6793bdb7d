package command

const (
	JSONOutputFlag = "json"
	DataDirFlag    = "data-dir"
	ConfigFlag     = "config"
	LogLevelFlag   = "log-level"
)

// Flags shared by the transaction commands
const (
	KeyFlag    = "key"
	SchemeFlag = "scheme"
	BudgetFlag = "budget"
	RejectFlag = "reject"
	DryRunFlag = "dry-run"
)
