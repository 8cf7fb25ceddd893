package maskd

import (
	"github.com/tauraamui/maskdaemon/pkg/configdef"
	"github.com/tauraamui/maskdaemon/pkg/database/dbconn"
	"github.com/tauraamui/maskdaemon/pkg/detector"
	"github.com/tauraamui/maskdaemon/pkg/present"
)

func OverloadEnsureModel(overload func(string, string) error) func() {
	ref := ensureModel
	ensureModel = overload
	return func() { ensureModel = ref }
}

func OverloadRuntime(initialize func(string) error, shutdown func() error) func() {
	initRef, shutdownRef := initializeRuntime, shutdownRuntime
	initializeRuntime, shutdownRuntime = initialize, shutdown
	return func() { initializeRuntime, shutdownRuntime = initRef, shutdownRef }
}

func OverloadNewDetector(overload func(configdef.Values) (detector.Detector, error)) func() {
	ref := newDetector
	newDetector = overload
	return func() { newDetector = ref }
}

func OverloadConnectDB(overload func(string) (dbconn.GormWrapper, error)) func() {
	ref := connectDB
	connectDB = overload
	return func() { connectDB = ref }
}

func OverloadNewWindow(overload func(configdef.Values) present.Presenter) func() {
	ref := newWindow
	newWindow = overload
	return func() { newWindow = ref }
}
