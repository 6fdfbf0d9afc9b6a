package errdefs

type ErrorType int

const (
	ErrTypeUnsupportedPlatform ErrorType = iota
	ErrTypeDaemonUnreachable
	ErrTypeInstallInProgress
	ErrTypeInstallFailed
	ErrTypeNoConnectivity
	ErrTypeGeneric
)

type CustomError struct {
	Type    ErrorType
	Message string
}

func (e *CustomError) Error() string {
	return e.Message
}

func NewCustomError(errType ErrorType, message string) error {
	return &CustomError{
		Type:    errType,
		Message: message,
	}
}

var (
	ErrInstallInProgress = NewCustomError(ErrTypeInstallInProgress, "install already in progress")
	ErrNoConnectivity    = NewCustomError(ErrTypeNoConnectivity, "no network connectivity")
	ErrDaemonUnreachable = NewCustomError(ErrTypeDaemonUnreachable, "daemon is not running")
)
