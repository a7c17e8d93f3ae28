package cloudinary

import "time"

// Observer receives the outcome of every remote call
type Observer interface {
	ObserveRemoteCall(operation string, duration time.Duration, err error)
	ObserveUploadedBytes(n int64)
}

type nopObserver struct{}

func (nopObserver) ObserveRemoteCall(string, time.Duration, error) {}

func (nopObserver) ObserveUploadedBytes(int64) {}
