package errors

import "fmt"

var (
	ErrWorkerPanic      = fmt.Errorf("worker panic")
	ErrStartup          = fmt.Errorf("startup failed")
	ErrMalformedPayload = fmt.Errorf("malformed payload")
	ErrInvalidEncoding  = fmt.Errorf("payload is not valid utf-8")
	ErrStoreClosed      = fmt.Errorf("document store is closed")
	ErrMissingAsset     = fmt.Errorf("static asset not found")
)
