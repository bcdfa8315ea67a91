//go:build !dev
// +build !dev

package logger

import "log"

func HandleError(err error) {
	log.Println(err)
}

func HandleLog(msg string) {
	// debug chatter is dev-only
}
