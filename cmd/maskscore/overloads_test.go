package main

import (
	"os"

	"github.com/tauraamui/maskdaemon/pkg/database/dbconn"
	"github.com/tauraamui/maskdaemon/pkg/detector"
)

func overloadOpenDetector(overload func(scoreOptions) (detector.Detector, func(), error)) func() {
	ref := openDetector
	openDetector = overload
	return func() { openDetector = ref }
}

func overloadConnectDB(overload func(string) (dbconn.GormWrapper, error)) func() {
	ref := connectDB
	connectDB = overload
	return func() { connectDB = ref }
}

func overloadIsTerminal(overload func(*os.File) bool) func() {
	ref := isTerminal
	isTerminal = overload
	return func() { isTerminal = ref }
}
