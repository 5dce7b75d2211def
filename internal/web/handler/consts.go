package handler

const (
	// RouterRootPath is the root path of a route group.
	RouterRootPath = "/"

	// ErrNilACSFatalLogMsg is used if the app, cfg or service pointer is nil.
	ErrNilACSFatalLogMsg = "app, cfg or settings service is nil"
)
