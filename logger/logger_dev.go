//go:build dev
// +build dev

package logger

import "fmt"

func HandleError(err error) {
	fmt.Printf("Dev Mode - Error: %v\n", err)
}

func HandleLog(msg string) {
	fmt.Printf("Dev Mode - Log: %v\n", msg)
}
