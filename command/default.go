package command

const (
	DefaultDataDir   = "./ledger-data"
	DefaultLogLevel  = "INFO"
	DefaultZstdLevel = 3
	DefaultScheme    = "ed25519"
)
